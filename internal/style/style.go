// Package style binds a region and its metric record to the style descriptor
// handed to the map canvas.
package style

import (
	"choropleth/core-go/internal/colorscale"
	"choropleth/core-go/internal/dataset"
	"choropleth/core-go/internal/hover"
)

// Options holds the presentation constants. Zero fields take the defaults, so
// a zero weight or opacity cannot be expressed; use a small positive value.
type Options struct {
	NoDataColor           string  `yaml:"no_data_color" json:"no_data_color"`
	BorderColor           string  `yaml:"border_color" json:"border_color"`
	BorderWeight          float64 `yaml:"border_weight" json:"border_weight"`
	HighlightBorderWeight float64 `yaml:"highlight_border_weight" json:"highlight_border_weight"`
	FillOpacity           float64 `yaml:"fill_opacity" json:"fill_opacity"`
	HighlightFillOpacity  float64 `yaml:"highlight_fill_opacity" json:"highlight_fill_opacity"`
}

const (
	DefaultNoDataColor           = "#ccc"
	DefaultBorderColor           = "white"
	DefaultBorderWeight          = 1
	DefaultHighlightBorderWeight = 3
	DefaultFillOpacity           = 0.7
	DefaultHighlightFillOpacity  = 0.9
)

func DefaultOptions() Options {
	return Options{
		NoDataColor:           DefaultNoDataColor,
		BorderColor:           DefaultBorderColor,
		BorderWeight:          DefaultBorderWeight,
		HighlightBorderWeight: DefaultHighlightBorderWeight,
		FillOpacity:           DefaultFillOpacity,
		HighlightFillOpacity:  DefaultHighlightFillOpacity,
	}
}

// WithDefaults fills unset fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.NoDataColor == "" {
		o.NoDataColor = d.NoDataColor
	}
	if o.BorderColor == "" {
		o.BorderColor = d.BorderColor
	}
	if o.BorderWeight <= 0 {
		o.BorderWeight = d.BorderWeight
	}
	if o.HighlightBorderWeight <= 0 {
		o.HighlightBorderWeight = d.HighlightBorderWeight
	}
	if o.FillOpacity <= 0 {
		o.FillOpacity = d.FillOpacity
	}
	if o.HighlightFillOpacity <= 0 {
		o.HighlightFillOpacity = d.HighlightFillOpacity
	}
	return o
}

// Descriptor uses the Leaflet path option names so it can be passed to a
// GeoJSON layer unchanged.
type Descriptor struct {
	FillColor    string  `json:"fillColor"`
	BorderColor  string  `json:"color"`
	BorderWeight float64 `json:"weight"`
	FillOpacity  float64 `json:"fillOpacity"`
}

type Binder struct {
	opts Options
}

func NewBinder(opts Options) Binder {
	return Binder{opts: opts.WithDefaults()}
}

func (b Binder) Options() Options {
	return b.opts
}

// StyleFor is pure: identical inputs always give identical output.
func (b Binder) StyleFor(region dataset.Region, metrics *dataset.Index, highlight hover.State) Descriptor {
	opts := b.opts
	if opts == (Options{}) {
		opts = DefaultOptions()
	}

	d := Descriptor{
		FillColor:    opts.NoDataColor,
		BorderColor:  opts.BorderColor,
		BorderWeight: opts.BorderWeight,
		FillOpacity:  opts.FillOpacity,
	}

	if rec, ok := metrics.Lookup(region.Code); ok {
		if c, ok := colorscale.Resolve(rec.Value); ok {
			d.FillColor = c
		}
	}

	if highlight.Highlights(region.Code) {
		d.BorderWeight = opts.HighlightBorderWeight
		d.FillOpacity = opts.HighlightFillOpacity
	}
	return d
}
