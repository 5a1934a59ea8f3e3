package telemetry

import (
	"math"
	"testing"
)

func TestComputeFieldStats(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	s := ComputeFieldStats(FieldStats{Field: "hash", Tick: 3}, values)

	if s.Field != "hash" || s.Tick != 3 {
		t.Errorf("identity fields lost: %+v", s)
	}
	if s.Points != 10 {
		t.Errorf("points = %d, want 10", s.Points)
	}
	if math.Abs(s.Mean-5.5) > 1e-12 {
		t.Errorf("mean = %v, want 5.5", s.Mean)
	}
	// Sample standard deviation of 1..10.
	if math.Abs(s.Std-3.0276503540974917) > 1e-9 {
		t.Errorf("std = %v, want ~3.0277", s.Std)
	}
	if s.Min != 1 || s.Max != 10 {
		t.Errorf("min/max = %v/%v, want 1/10", s.Min, s.Max)
	}
	if s.P10 != 1 || s.P50 != 5 || s.P90 != 9 {
		t.Errorf("percentiles = %v/%v/%v, want 1/5/9", s.P10, s.P50, s.P90)
	}
}

func TestComputeFieldStatsSingle(t *testing.T) {
	s := ComputeFieldStats(FieldStats{}, []float64{0.25})
	if s.Mean != 0.25 || s.Std != 0 || s.Min != 0.25 || s.Max != 0.25 || s.P50 != 0.25 {
		t.Errorf("unexpected stats for single value: %+v", s)
	}
}

func TestComputeFieldStatsEmpty(t *testing.T) {
	s := ComputeFieldStats(FieldStats{Field: "noise"}, nil)
	if s.Points != 0 || s.Mean != 0 || s.Std != 0 || s.P90 != 0 {
		t.Errorf("empty input should leave zeros, got %+v", s)
	}
}
