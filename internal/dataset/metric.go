package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MetricRecord is one row of the metric dataset. Value is NaN when the source
// carried no usable number.
type MetricRecord struct {
	Code       string
	Value      float64
	Attributes map[string]string
}

// Finite reports whether Value can be placed on the color scale.
func (r MetricRecord) Finite() bool {
	return !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0)
}

// AttributeKeys returns the attribute names in sorted order.
func (r MetricRecord) AttributeKeys() []string {
	keys := make([]string, 0, len(r.Attributes))
	for k := range r.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the decoder from the file extension; unknown
// extensions are read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type jsonRecord struct {
	Code       string          `json:"code"`
	Value      json.RawMessage `json:"value"`
	Attributes map[string]any  `json:"attributes"`
}

type yamlRecord struct {
	Code       string            `yaml:"code"`
	Value      yaml.Node         `yaml:"value"`
	Attributes map[string]string `yaml:"attributes"`
}

// LoadMetrics decodes an ordered list of metric records. Record order is
// preserved so the index can apply first-match-wins. Values that are missing
// or not numbers decode as NaN rather than failing the dataset.
func LoadMetrics(data []byte, format Format) ([]MetricRecord, error) {
	switch format {
	case FormatYAML:
		var raw []yamlRecord
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse metric yaml: %w", err)
		}
		out := make([]MetricRecord, 0, len(raw))
		for _, r := range raw {
			out = append(out, MetricRecord{
				Code:       strings.TrimSpace(r.Code),
				Value:      yamlValue(r.Value),
				Attributes: r.Attributes,
			})
		}
		return out, nil
	case FormatJSON, "":
		var raw []jsonRecord
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse metric json: %w", err)
		}
		out := make([]MetricRecord, 0, len(raw))
		for _, r := range raw {
			out = append(out, MetricRecord{
				Code:       strings.TrimSpace(r.Code),
				Value:      jsonValue(r.Value),
				Attributes: stringifyAttributes(r.Attributes),
			})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported metric format %q", format)
	}
}

// ReadMetricsFile loads metric records, choosing the format by extension.
func ReadMetricsFile(path string) ([]MetricRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metrics %q: %w", path, err)
	}
	return LoadMetrics(b, FormatFromPath(path))
}

func jsonValue(raw json.RawMessage) float64 {
	if len(raw) == 0 || strings.TrimSpace(string(raw)) == "null" {
		return math.NaN()
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return math.NaN()
}

func yamlValue(n yaml.Node) float64 {
	if n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return math.NaN()
	}
	var f float64
	if err := n.Decode(&f); err == nil {
		return f
	}
	if n.ShortTag() == "!!str" {
		if v, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64); err == nil {
			return v
		}
	}
	return math.NaN()
}

func stringifyAttributes(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		default:
			b, err := json.Marshal(t)
			if err != nil {
				continue
			}
			out[k] = string(b)
		}
	}
	return out
}
