// Package colorscale maps metric values onto the fixed choropleth fill palette.
package colorscale

import "math"

// Bucket is one band of the scale. A value belongs to the first bucket (in
// table order) whose Above bound it strictly exceeds.
type Bucket struct {
	Above float64
	Color string
	Label string
}

// Buckets is ordered by descending threshold. The legend renders it as-is.
var Buckets = []Bucket{
	{Above: 1000, Color: "#800026", Label: "> 1000"},
	{Above: 500, Color: "#BD0026", Label: "501–1000"},
	{Above: 200, Color: "#E31A1C", Label: "201–500"},
	{Above: 100, Color: "#FC4E2A", Label: "101–200"},
	{Above: math.Inf(-1), Color: "#FFEDA0", Label: "≤ 100"},
}

// Resolve returns the fill color for v. Non-finite values have no bucket and
// report ok=false so callers can substitute their no-data color.
func Resolve(v float64) (color string, ok bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false
	}
	for _, b := range Buckets {
		if v > b.Above {
			return b.Color, true
		}
	}
	// unreachable for finite v; the last bucket is unbounded below
	return Buckets[len(Buckets)-1].Color, true
}
