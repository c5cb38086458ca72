// Package dataset holds the immutable inputs of a choropleth: region
// boundaries and the metric records joined onto them by region code.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"choropleth/core-go/internal/naming"
)

var (
	ErrDuplicateRegion     = errors.New("duplicate region code")
	ErrMissingRegionCode   = errors.New("region has no code")
	ErrUnsupportedGeometry = errors.New("unsupported region geometry")
)

// DefaultCodeProperty is the feature property carrying the region code.
const DefaultCodeProperty = "ISO_A3"

// Region is a named boundary. Boundary is an orb.Polygon or orb.MultiPolygon
// and is passed through without validation.
type Region struct {
	Code        string
	DisplayName string
	Boundary    orb.Geometry
	Properties  map[string]any
}

// Anchor is the center of the region's bounding box.
func (r Region) Anchor() (orb.Point, bool) {
	if r.Boundary == nil {
		return orb.Point{}, false
	}
	return r.Boundary.Bound().Center(), true
}

type RegionOptions struct {
	// CodeProperty defaults to DefaultCodeProperty. The feature id is used
	// when the property is absent.
	CodeProperty string
	// NameProperties defaults to naming.DefaultSources.
	NameProperties []string
}

// LoadRegions parses a GeoJSON FeatureCollection. Region codes must be unique.
func LoadRegions(data []byte, opts RegionOptions) ([]Region, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse region geojson: %w", err)
	}
	return RegionsFromFeatures(fc.Features, opts)
}

func RegionsFromFeatures(features []*geojson.Feature, opts RegionOptions) ([]Region, error) {
	codeProp := strings.TrimSpace(opts.CodeProperty)
	if codeProp == "" {
		codeProp = DefaultCodeProperty
	}

	seen := make(map[string]int, len(features))
	out := make([]Region, 0, len(features))
	for i, f := range features {
		if f == nil {
			continue
		}
		code := regionCode(f, codeProp)
		if code == "" {
			return nil, fmt.Errorf("feature %d: %w (property %q)", i, ErrMissingRegionCode, codeProp)
		}
		if prev, dup := seen[code]; dup {
			return nil, fmt.Errorf("feature %d: %w %q (first seen at feature %d)", i, ErrDuplicateRegion, code, prev)
		}

		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			return nil, fmt.Errorf("feature %d (%s): %w %T", i, code, ErrUnsupportedGeometry, f.Geometry)
		}

		name, ok := naming.ChooseBestDisplayName(naming.CandidatesFromProperties(f.Properties, opts.NameProperties))
		if !ok {
			name = code
		}

		seen[code] = i
		out = append(out, Region{
			Code:        code,
			DisplayName: name,
			Boundary:    f.Geometry,
			Properties:  map[string]any(f.Properties),
		})
	}
	return out, nil
}

// ReadRegionsFile loads regions from a GeoJSON file on disk.
func ReadRegionsFile(path string, opts RegionOptions) ([]Region, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read regions %q: %w", path, err)
	}
	return LoadRegions(b, opts)
}

func regionCode(f *geojson.Feature, prop string) string {
	if v, ok := f.Properties[prop].(string); ok {
		if code := strings.TrimSpace(v); code != "" {
			return code
		}
	}
	if v, ok := f.ID.(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
