// Package legend renders the color scale as an ordered key.
package legend

import (
	"github.com/lucasb-eyer/go-colorful"

	"choropleth/core-go/internal/colorscale"
)

type Entry struct {
	Color string   `json:"color"`
	Label string   `json:"label"`
	RGB   [3]uint8 `json:"rgb"`
}

// NoDataLabel labels the swatch for regions without a usable value.
const NoDataLabel = "No data"

// Render lists the scale buckets in descending-threshold order.
func Render() []Entry {
	out := make([]Entry, 0, len(colorscale.Buckets))
	for _, b := range colorscale.Buckets {
		out = append(out, entry(b.Color, b.Label))
	}
	return out
}

// NoData is the swatch for the configured no-data color. It is kept apart
// from Render so the legend proper mirrors the scale exactly.
func NoData(color string) Entry {
	return entry(color, NoDataLabel)
}

func entry(color, label string) Entry {
	e := Entry{Color: color, Label: label}
	if c, err := colorful.Hex(color); err == nil {
		r, g, b := c.RGB255()
		e.RGB = [3]uint8{r, g, b}
	}
	return e
}
