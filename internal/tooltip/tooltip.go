// Package tooltip renders the hover tooltip from the highlight state.
package tooltip

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"

	"choropleth/core-go/internal/hover"
)

const (
	DefaultUnits      = "units"
	DefaultNoDataText = "no data"
)

type Options struct {
	Units      string `yaml:"value_units" json:"value_units"`
	NoDataText string `yaml:"no_data_text" json:"no_data_text"`
}

func (o Options) WithDefaults() Options {
	if o.Units == "" {
		o.Units = DefaultUnits
	}
	if o.NoDataText == "" {
		o.NoDataText = DefaultNoDataText
	}
	return o
}

type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// View is the tooltip payload. PointerEvents is always "none": the tooltip
// must never take pointer events away from the region shapes.
type View struct {
	Visible       bool       `json:"visible"`
	Code          string     `json:"code,omitempty"`
	Title         string     `json:"title,omitempty"`
	Value         string     `json:"value,omitempty"`
	HasValue      bool       `json:"has_value"`
	Text          string     `json:"text,omitempty"`
	Details       []Detail   `json:"details,omitempty"`
	Anchor        *orb.Point `json:"anchor,omitempty"`
	PointerEvents string     `json:"pointer_events"`
}

// Render returns an invisible view for Idle.
func Render(s hover.State, opts Options) View {
	opts = opts.WithDefaults()
	v := View{PointerEvents: "none"}
	if !s.Active() {
		return v
	}

	v.Visible = true
	v.Code = s.Code
	v.Title = s.DisplayName
	if v.Title == "" {
		v.Title = s.Code
	}

	if f, ok := s.FiniteValue(); ok {
		v.HasValue = true
		v.Value = FormatValue(f)
		v.Text = fmt.Sprintf("%s: %s %s", v.Title, v.Value, opts.Units)
	} else {
		v.Value = opts.NoDataText
		v.Text = fmt.Sprintf("%s: %s", v.Title, opts.NoDataText)
	}
	return v
}

// FormatValue prints v without float noise or exponent notation.
func FormatValue(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// WithAnchor pins the tooltip to p. Invisible views are left unanchored.
func (v View) WithAnchor(p orb.Point) View {
	if !v.Visible {
		return v
	}
	v.Anchor = &p
	return v
}

// WithAttributes appends the record attributes as sorted details.
func (v View) WithAttributes(attrs map[string]string) View {
	if !v.Visible || len(attrs) == 0 {
		return v
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	v.Details = make([]Detail, 0, len(keys))
	for _, k := range keys {
		v.Details = append(v.Details, Detail{Label: k, Value: attrs[k]})
	}
	return v
}
