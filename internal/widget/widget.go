// Package widget is one choropleth map instance: the joined datasets, the
// style binder, and the single hover machine that drives restyling and the
// tooltip.
package widget

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"choropleth/core-go/internal/dataset"
	"choropleth/core-go/internal/hover"
	"choropleth/core-go/internal/legend"
	"choropleth/core-go/internal/style"
	"choropleth/core-go/internal/tooltip"
)

var (
	ErrUnknownRegion = errors.New("unknown region")
	ErrClosed        = errors.New("map closed")
)

type Options struct {
	Style   style.Options
	Tooltip tooltip.Options
}

// Feature is a region with its join result and current style.
type Feature struct {
	Region      dataset.Region
	Record      *dataset.MetricRecord
	Style       style.Descriptor
	Highlighted bool
}

type RegionStyle struct {
	Code  string           `json:"code"`
	Style style.Descriptor `json:"style"`
}

// Change is what a pointer event invalidated: the styles of the previously
// and newly highlighted regions, and the tooltip.
type Change struct {
	Transition hover.Transition `json:"transition"`
	Restyled   []RegionStyle    `json:"restyled"`
	Tooltip    tooltip.View     `json:"tooltip"`
}

// JoinStats summarises how the metric dataset matched the regions.
type JoinStats struct {
	Regions    int      `json:"regions"`
	Matched    []string `json:"matched"`
	Unmatched  []string `json:"unmatched"`
	Orphans    []string `json:"orphans"`
	Duplicates []string `json:"duplicates"`
}

// Map serialises all pointer events behind one mutex so events are applied
// strictly in arrival order.
type Map struct {
	id          uuid.UUID
	regions     []dataset.Region
	byCode      map[string]int
	index       *dataset.Index
	binder      style.Binder
	tooltipOpts tooltip.Options
	stats       JoinStats

	mu      sync.Mutex
	hover   *hover.Machine
	last    Change
	subs    map[int]func(Change)
	nextSub int
	closed  bool
}

// New builds the code index once; lookups during restyling are O(1).
func New(regions []dataset.Region, records []dataset.MetricRecord, opts Options) (*Map, error) {
	m := &Map{
		id:          uuid.New(),
		regions:     append([]dataset.Region(nil), regions...),
		byCode:      make(map[string]int, len(regions)),
		index:       dataset.NewIndex(records),
		binder:      style.NewBinder(opts.Style),
		tooltipOpts: opts.Tooltip.WithDefaults(),
		hover:       hover.New(),
		subs:        make(map[int]func(Change)),
	}
	for i, r := range m.regions {
		if _, dup := m.byCode[r.Code]; dup {
			return nil, fmt.Errorf("%w %q", dataset.ErrDuplicateRegion, r.Code)
		}
		m.byCode[r.Code] = i
	}
	m.stats = m.joinStats(records)
	m.hover.Observe(m.onTransition)
	return m, nil
}

func (m *Map) ID() uuid.UUID { return m.id }

func (m *Map) Stats() JoinStats { return m.stats }

func (m *Map) StyleOptions() style.Options { return m.binder.Options() }

// Regions returns the regions in dataset order.
func (m *Map) Regions() []dataset.Region {
	return append([]dataset.Region(nil), m.regions...)
}

// Features styles every region against the current highlight.
func (m *Map) Features() []Feature {
	m.mu.Lock()
	state := m.hover.State()
	m.mu.Unlock()

	out := make([]Feature, 0, len(m.regions))
	for _, r := range m.regions {
		f := Feature{
			Region:      r,
			Style:       m.binder.StyleFor(r, m.index, state),
			Highlighted: state.Highlights(r.Code),
		}
		if rec, ok := m.index.Lookup(r.Code); ok {
			rec := rec
			f.Record = &rec
		}
		out = append(out, f)
	}
	return out
}

func (m *Map) StyleFor(code string) (style.Descriptor, error) {
	i, ok := m.byCode[code]
	if !ok {
		return style.Descriptor{}, fmt.Errorf("%w %q", ErrUnknownRegion, code)
	}
	m.mu.Lock()
	state := m.hover.State()
	m.mu.Unlock()
	return m.binder.StyleFor(m.regions[i], m.index, state), nil
}

// Record returns the metric record joined to code.
func (m *Map) Record(code string) (dataset.MetricRecord, bool) {
	return m.index.Lookup(code)
}

func (m *Map) Highlight() hover.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hover.State()
}

func (m *Map) Tooltip() tooltip.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tooltipFor(m.hover.State())
}

func (m *Map) Legend() []legend.Entry {
	return legend.Render()
}

func (m *Map) NoDataEntry() legend.Entry {
	return legend.NoData(m.binder.Options().NoDataColor)
}

// PointerEnter highlights the region with the given code.
func (m *Map) PointerEnter(code string) (Change, error) {
	i, ok := m.byCode[code]
	if !ok {
		return Change{}, fmt.Errorf("%w %q", ErrUnknownRegion, code)
	}
	r := m.regions[i]
	target := hover.Target{Code: r.Code, DisplayName: r.DisplayName}
	if rec, ok := m.index.Lookup(r.Code); ok && rec.Finite() {
		v := rec.Value
		target.Value = &v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Change{}, ErrClosed
	}
	return m.result(m.hover.PointerEnter(target)), nil
}

// PointerLeave clears the highlight.
func (m *Map) PointerLeave() (Change, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Change{}, ErrClosed
	}
	return m.result(m.hover.PointerLeave()), nil
}

// Subscribe registers fn for every state change. fn runs with the map locked
// and must not call back into the Map.
func (m *Map) Subscribe(fn func(Change)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || fn == nil {
		return func() {}
	}
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Close resets the highlight, notifies subscribers a final time and drops them.
func (m *Map) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.hover.Reset()
	m.closed = true
	m.subs = map[int]func(Change){}
}

func (m *Map) result(tr hover.Transition) Change {
	if tr.Changed() {
		return m.last
	}
	return Change{Transition: tr, Restyled: []RegionStyle{}, Tooltip: m.tooltipFor(tr.To)}
}

// onTransition runs under m.mu via the hover machine.
func (m *Map) onTransition(tr hover.Transition) {
	restyled := make([]RegionStyle, 0, 2)
	for _, s := range []hover.State{tr.From, tr.To} {
		if !s.Active() {
			continue
		}
		i, ok := m.byCode[s.Code]
		if !ok {
			continue
		}
		restyled = append(restyled, RegionStyle{
			Code:  s.Code,
			Style: m.binder.StyleFor(m.regions[i], m.index, tr.To),
		})
	}

	m.last = Change{Transition: tr, Restyled: restyled, Tooltip: m.tooltipFor(tr.To)}
	for _, fn := range m.subs {
		fn(m.last)
	}
}

func (m *Map) tooltipFor(s hover.State) tooltip.View {
	v := tooltip.Render(s, m.tooltipOpts)
	if !v.Visible {
		return v
	}
	i, ok := m.byCode[s.Code]
	if !ok {
		return v
	}
	if p, ok := m.regions[i].Anchor(); ok {
		v = v.WithAnchor(p)
	}
	if rec, ok := m.index.Lookup(s.Code); ok {
		v = v.WithAttributes(rec.Attributes)
	}
	return v
}

func (m *Map) joinStats(records []dataset.MetricRecord) JoinStats {
	st := JoinStats{
		Regions:    len(m.regions),
		Matched:    []string{},
		Unmatched:  []string{},
		Orphans:    []string{},
		Duplicates: m.index.Duplicates(),
	}
	if st.Duplicates == nil {
		st.Duplicates = []string{}
	}
	for _, r := range m.regions {
		if _, ok := m.index.Lookup(r.Code); ok {
			st.Matched = append(st.Matched, r.Code)
		} else {
			st.Unmatched = append(st.Unmatched, r.Code)
		}
	}
	seen := make(map[string]struct{})
	for _, rec := range records {
		if _, ok := m.byCode[rec.Code]; ok {
			continue
		}
		if _, dup := seen[rec.Code]; dup {
			continue
		}
		seen[rec.Code] = struct{}{}
		st.Orphans = append(st.Orphans, rec.Code)
	}
	sort.Strings(st.Orphans)
	return st
}
