package colorscale

import (
	"math"
	"testing"
)

func TestResolve_Boundaries(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{1500, "#800026"},
		{1000.0001, "#800026"},
		{1000, "#BD0026"},
		{800, "#BD0026"},
		{500.5, "#BD0026"},
		{500, "#E31A1C"},
		{201, "#E31A1C"},
		{200, "#FC4E2A"},
		{100.01, "#FC4E2A"},
		{100, "#FFEDA0"},
		{0, "#FFEDA0"},
		{-250, "#FFEDA0"},
		{-math.MaxFloat64, "#FFEDA0"},
		{math.MaxFloat64, "#800026"},
	}
	for _, tc := range tests {
		got, ok := Resolve(tc.value)
		if !ok {
			t.Fatalf("Resolve(%v) reported no color", tc.value)
		}
		if got != tc.want {
			t.Errorf("Resolve(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestResolve_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got, ok := Resolve(v); ok || got != "" {
			t.Fatalf("expected no color for %v, got %q ok=%v", v, got, ok)
		}
	}
}

func TestResolve_AlwaysOneOfBuckets(t *testing.T) {
	palette := make(map[string]struct{}, len(Buckets))
	for _, b := range Buckets {
		palette[b.Color] = struct{}{}
	}
	for v := -2000.0; v <= 2000; v += 0.5 {
		got, ok := Resolve(v)
		if !ok {
			t.Fatalf("expected a color for %v", v)
		}
		if _, known := palette[got]; !known {
			t.Fatalf("Resolve(%v) = %q, not in palette", v, got)
		}
	}
}

func TestBuckets_DescendingThresholds(t *testing.T) {
	for i := 1; i < len(Buckets); i++ {
		if Buckets[i].Above >= Buckets[i-1].Above {
			t.Fatalf("expected descending thresholds, bucket %d (%v) >= bucket %d (%v)", i, Buckets[i].Above, i-1, Buckets[i-1].Above)
		}
	}
	if !math.IsInf(Buckets[len(Buckets)-1].Above, -1) {
		t.Fatalf("expected the last bucket to be unbounded below")
	}
}
