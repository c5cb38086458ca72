// Package hover tracks which single region is under the pointer.
//
// Machine is not safe for concurrent use. Callers on a concurrent host must
// serialise events themselves.
package hover

import "math"

type Phase string

const (
	Idle         Phase = "idle"
	Highlighting Phase = "highlighting"
)

// Target is what a pointer-enter captures about a region. Value is nil when
// the region has no metric record.
type Target struct {
	Code        string
	DisplayName string
	Value       *float64
}

// State is the highlight state. The zero value is Idle.
type State struct {
	Phase       Phase    `json:"state"`
	Code        string   `json:"code,omitempty"`
	DisplayName string   `json:"name,omitempty"`
	Value       *float64 `json:"value,omitempty"`
}

func (s State) Active() bool {
	return s.Phase == Highlighting
}

// Highlights reports whether code is the highlighted region.
func (s State) Highlights(code string) bool {
	return s.Active() && s.Code == code
}

// FiniteValue returns the captured value when it is a usable number.
func (s State) FiniteValue() (float64, bool) {
	if s.Value == nil {
		return 0, false
	}
	v := *s.Value
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

type Kind string

const (
	KindNone   Kind = "none"
	KindEnter  Kind = "enter"
	KindSwitch Kind = "switch"
	KindLeave  Kind = "leave"
	KindReset  Kind = "reset"
)

type Transition struct {
	Kind Kind  `json:"kind"`
	From State `json:"from"`
	To   State `json:"to"`
}

// Changed is false for events that left the state untouched.
func (t Transition) Changed() bool {
	return t.Kind != KindNone
}

// Observer is called synchronously after every state change.
type Observer func(Transition)

type Machine struct {
	state     State
	observers []Observer
}

func New() *Machine {
	return &Machine{state: State{Phase: Idle}}
}

func (m *Machine) State() State {
	s := m.state
	if s.Phase == "" {
		s.Phase = Idle
	}
	return s
}

// Observe registers fn for future transitions.
func (m *Machine) Observe(fn Observer) {
	if fn == nil {
		return
	}
	m.observers = append(m.observers, fn)
}

// PointerEnter highlights t. Moving straight from one region to another is a
// single switch transition; re-entering the highlighted region is a no-op.
func (m *Machine) PointerEnter(t Target) Transition {
	from := m.State()
	if from.Highlights(t.Code) {
		return Transition{Kind: KindNone, From: from, To: from}
	}

	kind := KindEnter
	if from.Active() {
		kind = KindSwitch
	}
	to := State{
		Phase:       Highlighting,
		Code:        t.Code,
		DisplayName: t.DisplayName,
	}
	if t.Value != nil {
		v := *t.Value
		to.Value = &v
	}
	return m.apply(kind, from, to)
}

// PointerLeave returns to Idle.
func (m *Machine) PointerLeave() Transition {
	return m.clear(KindLeave)
}

// Reset returns to Idle on teardown.
func (m *Machine) Reset() Transition {
	return m.clear(KindReset)
}

func (m *Machine) clear(kind Kind) Transition {
	from := m.State()
	if !from.Active() {
		return Transition{Kind: KindNone, From: from, To: from}
	}
	return m.apply(kind, from, State{Phase: Idle})
}

func (m *Machine) apply(kind Kind, from, to State) Transition {
	m.state = to
	tr := Transition{Kind: kind, From: from, To: to}
	for _, fn := range m.observers {
		fn(tr)
	}
	return tr
}
