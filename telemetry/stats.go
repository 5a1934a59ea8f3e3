package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FieldStats summarizes one session's field after a tick.
type FieldStats struct {
	Tick   int    `csv:"tick"`
	Field  string `csv:"field"`
	Shape  string `csv:"shape"`
	Points int    `csv:"points"`

	Mean float64 `csv:"mean"`
	Std  float64 `csv:"std"`
	Min  float64 `csv:"min"`
	Max  float64 `csv:"max"`
	P10  float64 `csv:"p10"`
	P50  float64 `csv:"p50"`
	P90  float64 `csv:"p90"`

	ShapeUS int64 `csv:"shape_us"`
	FieldUS int64 `csv:"field_us"`
}

// ComputeFieldStats fills the distribution fields of s from values.
// values is reordered.
func ComputeFieldStats(s FieldStats, values []float64) FieldStats {
	s.Points = len(values)
	if len(values) == 0 {
		return s
	}

	s.Mean, s.Std = stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		s.Std = 0
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)

	slices.Sort(values)
	s.P10 = stat.Quantile(0.10, stat.Empirical, values, nil)
	s.P50 = stat.Quantile(0.50, stat.Empirical, values, nil)
	s.P90 = stat.Quantile(0.90, stat.Empirical, values, nil)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", s.Tick),
		slog.String("field", s.Field),
		slog.String("shape", s.Shape),
		slog.Int("points", s.Points),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("p10", s.P10),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
		slog.Int64("shape_us", s.ShapeUS),
		slog.Int64("field_us", s.FieldUS),
	)
}
