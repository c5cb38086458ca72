package widget

import (
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection renders the styled map as GeoJSON. Each feature carries
// the join result and a Leaflet-ready style object in its properties.
func (m *Map) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range m.Features() {
		gf := geojson.NewFeature(f.Region.Boundary)
		gf.ID = f.Region.Code

		var value any
		var attrs map[string]string
		if f.Record != nil {
			if f.Record.Finite() {
				value = f.Record.Value
			}
			attrs = f.Record.Attributes
		}

		gf.Properties["code"] = f.Region.Code
		gf.Properties["name"] = f.Region.DisplayName
		gf.Properties["value"] = value
		gf.Properties["matched"] = f.Record != nil
		gf.Properties["highlighted"] = f.Highlighted
		gf.Properties["style"] = f.Style
		if len(attrs) > 0 {
			gf.Properties["attributes"] = attrs
		}
		fc.Append(gf)
	}
	return fc
}
