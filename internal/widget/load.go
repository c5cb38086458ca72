package widget

import (
	"github.com/rs/zerolog"

	"choropleth/core-go/internal/dataset"
)

// LoadFiles reads a region GeoJSON file and an optional metric file and
// builds a Map. Join problems are logged, never returned.
func LoadFiles(log zerolog.Logger, regionsPath, metricsPath string, regionOpts dataset.RegionOptions, opts Options) (*Map, error) {
	regions, err := dataset.ReadRegionsFile(regionsPath, regionOpts)
	if err != nil {
		return nil, err
	}

	var records []dataset.MetricRecord
	if metricsPath != "" {
		records, err = dataset.ReadMetricsFile(metricsPath)
		if err != nil {
			return nil, err
		}
	}

	m, err := New(regions, records, opts)
	if err != nil {
		return nil, err
	}

	st := m.Stats()
	log.Info().
		Str("instance_id", m.ID().String()).
		Int("regions", st.Regions).
		Int("records", len(records)).
		Int("matched", len(st.Matched)).
		Int("unmatched", len(st.Unmatched)).
		Msg("map loaded")
	if len(st.Duplicates) > 0 {
		log.Warn().Strs("codes", st.Duplicates).Msg("duplicate metric codes; first record wins")
	}
	if len(st.Orphans) > 0 {
		log.Warn().Strs("codes", st.Orphans).Msg("metric records with no matching region")
	}
	for _, r := range regions {
		if rec, ok := m.Record(r.Code); ok && !rec.Finite() {
			log.Warn().Str("code", r.Code).Msg("metric value is not a finite number; rendering as no data")
		}
	}
	return m, nil
}
