package widget

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"choropleth/core-go/internal/dataset"
	"choropleth/core-go/internal/hover"
)

func sampleRegions() []dataset.Region {
	return []dataset.Region{
		{
			Code:        "USA",
			DisplayName: "United States",
			Boundary: orb.Polygon{{
				{-125.0011, 49.5904}, {-66.9326, 49.5904}, {-66.9326, 24.9493}, {-125.0011, 24.9493}, {-125.0011, 49.5904},
			}},
		},
		{
			Code:        "IND",
			DisplayName: "India",
			Boundary: orb.Polygon{{
				{68.1766, 7.9655}, {97.4024, 7.9655}, {97.4024, 35.4940}, {68.1766, 35.4940}, {68.1766, 7.9655},
			}},
		},
		{
			Code:        "CAN",
			DisplayName: "Canada",
			Boundary:    orb.Polygon{{{-141, 69.6}, {-52.6, 69.6}, {-52.6, 41.7}, {-141, 41.7}, {-141, 69.6}}},
		},
	}
}

func sampleRecords() []dataset.MetricRecord {
	return []dataset.MetricRecord{
		{Code: "USA", Value: 1500, Attributes: map[string]string{"group": "Americas"}},
		{Code: "IND", Value: 800},
		{Code: "USA", Value: 3},
		{Code: "FRA", Value: 12},
	}
}

func newSample(t *testing.T) *Map {
	t.Helper()
	m, err := New(sampleRegions(), sampleRecords(), Options{})
	if err != nil {
		t.Fatalf("new map: %v", err)
	}
	return m
}

func TestNew_DuplicateRegion(t *testing.T) {
	regions := append(sampleRegions(), dataset.Region{Code: "USA"})
	if _, err := New(regions, nil, Options{}); !errors.Is(err, dataset.ErrDuplicateRegion) {
		t.Fatalf("expected ErrDuplicateRegion, got %v", err)
	}
}

func TestStats(t *testing.T) {
	st := newSample(t).Stats()
	if st.Regions != 3 || len(st.Matched) != 2 || len(st.Unmatched) != 1 || st.Unmatched[0] != "CAN" {
		t.Fatalf("unexpected join stats %+v", st)
	}
	if len(st.Orphans) != 1 || st.Orphans[0] != "FRA" {
		t.Fatalf("expected FRA orphan, got %v", st.Orphans)
	}
	if len(st.Duplicates) != 1 || st.Duplicates[0] != "USA" {
		t.Fatalf("expected USA duplicate, got %v", st.Duplicates)
	}
}

func TestEndToEnd_USA(t *testing.T) {
	m := newSample(t)

	s, err := m.StyleFor("USA")
	if err != nil {
		t.Fatalf("style: %v", err)
	}
	if s.FillColor != "#800026" || s.BorderWeight != 1 {
		t.Fatalf("expected baseline #800026 weight 1, got %+v", s)
	}

	ch, err := m.PointerEnter("USA")
	if err != nil {
		t.Fatalf("enter: %v", err)
	}
	if ch.Transition.Kind != hover.KindEnter {
		t.Fatalf("expected enter, got %s", ch.Transition.Kind)
	}

	s, _ = m.StyleFor("USA")
	if s.BorderWeight != 3 {
		t.Fatalf("expected weight 3 after enter, got %+v", s)
	}

	tip := m.Tooltip()
	if !tip.Visible || tip.Title != "United States" || tip.Value != "1500" {
		t.Fatalf("expected tooltip USA/1500, got %+v", tip)
	}
	if tip.Anchor == nil {
		t.Fatalf("expected tooltip anchored to the region")
	}
	if len(tip.Details) != 1 || tip.Details[0].Value != "Americas" {
		t.Fatalf("expected attributes in tooltip, got %+v", tip.Details)
	}
}

func TestEndToEnd_CANAlwaysNoData(t *testing.T) {
	m := newSample(t)
	check := func(stage string) {
		t.Helper()
		s, err := m.StyleFor("CAN")
		if err != nil {
			t.Fatalf("%s: style: %v", stage, err)
		}
		if s.FillColor != "#ccc" {
			t.Fatalf("%s: expected #ccc, got %q", stage, s.FillColor)
		}
	}

	check("idle")
	if _, err := m.PointerEnter("USA"); err != nil {
		t.Fatalf("enter USA: %v", err)
	}
	check("USA highlighted")
	if _, err := m.PointerEnter("CAN"); err != nil {
		t.Fatalf("enter CAN: %v", err)
	}
	check("CAN highlighted")

	tip := m.Tooltip()
	if tip.Title != "Canada" || tip.HasValue || tip.Value != "no data" {
		t.Fatalf("expected no-data tooltip for CAN, got %+v", tip)
	}
}

func TestPointerEnter_SwitchRestylesBoth(t *testing.T) {
	m := newSample(t)
	if _, err := m.PointerEnter("USA"); err != nil {
		t.Fatalf("enter: %v", err)
	}
	ch, err := m.PointerEnter("IND")
	if err != nil {
		t.Fatalf("enter: %v", err)
	}
	if ch.Transition.Kind != hover.KindSwitch {
		t.Fatalf("expected switch, got %s", ch.Transition.Kind)
	}
	if len(ch.Restyled) != 2 {
		t.Fatalf("expected 2 restyled regions, got %+v", ch.Restyled)
	}
	if ch.Restyled[0].Code != "USA" || ch.Restyled[0].Style.BorderWeight != 1 {
		t.Fatalf("expected USA back at baseline, got %+v", ch.Restyled[0])
	}
	if ch.Restyled[1].Code != "IND" || ch.Restyled[1].Style.BorderWeight != 3 {
		t.Fatalf("expected IND highlighted, got %+v", ch.Restyled[1])
	}
	if ch.Tooltip.Title != "India" {
		t.Fatalf("expected tooltip to follow the switch, got %+v", ch.Tooltip)
	}
}

func TestPointerLeave(t *testing.T) {
	m := newSample(t)
	if _, err := m.PointerEnter("IND"); err != nil {
		t.Fatalf("enter: %v", err)
	}
	ch, err := m.PointerLeave()
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if ch.Transition.Kind != hover.KindLeave || ch.Tooltip.Visible {
		t.Fatalf("expected leave with hidden tooltip, got %+v", ch)
	}
	if m.Highlight().Active() {
		t.Fatalf("expected idle after leave")
	}

	ch, _ = m.PointerLeave()
	if ch.Transition.Changed() || len(ch.Restyled) != 0 {
		t.Fatalf("expected second leave to be a no-op, got %+v", ch)
	}
}

func TestPointerEnter_Unknown(t *testing.T) {
	m := newSample(t)
	if _, err := m.PointerEnter("ZZZ"); !errors.Is(err, ErrUnknownRegion) {
		t.Fatalf("expected ErrUnknownRegion, got %v", err)
	}
	if _, err := m.StyleFor("ZZZ"); !errors.Is(err, ErrUnknownRegion) {
		t.Fatalf("expected ErrUnknownRegion, got %v", err)
	}
}

func TestPointerEnter_NonFiniteValueNotCaptured(t *testing.T) {
	m, err := New(sampleRegions(), []dataset.MetricRecord{{Code: "IND", Value: math.NaN()}}, Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ch, err := m.PointerEnter("IND")
	if err != nil {
		t.Fatalf("enter: %v", err)
	}
	if ch.Transition.To.Value != nil {
		t.Fatalf("expected NaN value to be dropped from highlight, got %v", *ch.Transition.To.Value)
	}
	if _, err := json.Marshal(ch); err != nil {
		t.Fatalf("expected change to be json encodable: %v", err)
	}
}

func TestSubscribe_ReceivesTransitionsInOrder(t *testing.T) {
	m := newSample(t)
	var got []hover.Kind
	cancel := m.Subscribe(func(ch Change) { got = append(got, ch.Transition.Kind) })

	_, _ = m.PointerEnter("USA")
	_, _ = m.PointerEnter("USA")
	_, _ = m.PointerEnter("IND")
	_, _ = m.PointerLeave()
	cancel()
	_, _ = m.PointerEnter("CAN")

	want := []hover.Kind{hover.KindEnter, hover.KindSwitch, hover.KindLeave}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestClose_ResetsAndRejects(t *testing.T) {
	m := newSample(t)
	var last Change
	m.Subscribe(func(ch Change) { last = ch })

	_, _ = m.PointerEnter("USA")
	m.Close()

	if last.Transition.Kind != hover.KindReset {
		t.Fatalf("expected subscribers to see the reset, got %s", last.Transition.Kind)
	}
	if m.Highlight().Active() {
		t.Fatalf("expected idle after close")
	}
	if _, err := m.PointerEnter("USA"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	m.Close()
}

func TestFeatureCollection(t *testing.T) {
	m := newSample(t)
	_, _ = m.PointerEnter("IND")

	b, err := json.Marshal(m.FeatureCollection())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			ID         string         `json:"id"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Type != "FeatureCollection" || len(doc.Features) != 3 {
		t.Fatalf("unexpected collection: %s", b)
	}

	ind := doc.Features[1].Properties
	if ind["highlighted"] != true || ind["value"] != 800.0 || ind["matched"] != true {
		t.Fatalf("unexpected IND properties %v", ind)
	}
	st := ind["style"].(map[string]any)
	if st["fillColor"] != "#BD0026" || st["weight"] != 3.0 || st["color"] != "white" {
		t.Fatalf("unexpected IND style %v", st)
	}

	can := doc.Features[2].Properties
	if can["value"] != nil || can["matched"] != false {
		t.Fatalf("unexpected CAN properties %v", can)
	}
	if can["style"].(map[string]any)["fillColor"] != "#ccc" {
		t.Fatalf("expected CAN no-data fill, got %v", can["style"])
	}
}

func TestFeatures_RecordPointerIsPerFeature(t *testing.T) {
	fs := newSample(t).Features()
	if fs[0].Record == nil || fs[1].Record == nil || fs[0].Record == fs[1].Record {
		t.Fatalf("expected distinct records per feature")
	}
	if fs[0].Record.Value != 1500 {
		t.Fatalf("expected first USA record to win, got %v", fs[0].Record.Value)
	}
	if fs[2].Record != nil {
		t.Fatalf("expected CAN unmatched")
	}
}
