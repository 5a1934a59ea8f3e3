package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Phase is one timed part of a generator tick.
type Phase int

const (
	PhaseShape Phase = iota // shape stage, summed over sessions
	PhaseField              // field stage, summed over sessions
	PhaseJoin               // waiting for every session's handle
	numPhases
)

var phaseNames = [numPhases]string{"shape", "field", "join"}

func (p Phase) String() string { return phaseNames[p] }

type tickSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps timings for the last few ticks in a ring.
// It is driven from one goroutine.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	now       func() time.Time
	cur       tickSample
	tickStart time.Time

	// Phase timed by StartPhase; -1 when none is open.
	open      Phase
	openStart time.Time
}

// NewPerfCollector returns a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	return &PerfCollector{
		ring: make([]tickSample, max(window, 1)),
		now:  time.Now,
		open: -1,
	}
}

// StartTick begins a tick.
func (p *PerfCollector) StartTick() {
	p.cur = tickSample{}
	p.open = -1
	p.tickStart = p.now()
}

// StartPhase times phase on the calling goroutine until the next
// StartPhase or EndTick.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.open, p.openStart = phase, now
}

// RecordPhase adds a duration measured elsewhere, such as a job
// handle's elapsed time.
func (p *PerfCollector) RecordPhase(phase Phase, d time.Duration) {
	p.cur.phases[phase] += d
}

// EndTick closes the tick and stores it, evicting the oldest sample once
// the window is full.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.open >= 0 {
		p.cur.phases[p.open] += now.Sub(p.openStart)
	}
}

// PerfStats summarizes the ticks in the window.
type PerfStats struct {
	Ticks                     int
	AvgTick, MinTick, MaxTick time.Duration
	TicksPerSecond            float64

	// Average time per tick spent in each phase.
	Phase [numPhases]time.Duration
}

// Pct returns the share of the average tick spent in phase. Stages of
// concurrent sessions overlap, so shape and field may sum past 100.
func (s PerfStats) Pct(phase Phase) float64 {
	if s.AvgTick <= 0 {
		return 0
	}
	return 100 * float64(s.Phase[phase]) / float64(s.AvgTick)
}

// Stats summarizes the current window. The zero PerfStats is returned
// before the first tick ends.
func (p *PerfCollector) Stats() PerfStats {
	if p.count == 0 {
		return PerfStats{}
	}

	totals := make([]float64, p.count)
	var phaseSum [numPhases]time.Duration
	for i, s := range p.ring[:p.count] {
		totals[i] = float64(s.total)
		for ph, d := range s.phases {
			phaseSum[ph] += d
		}
	}

	n := float64(p.count)
	st := PerfStats{
		Ticks:   p.count,
		AvgTick: time.Duration(floats.Sum(totals) / n),
		MinTick: time.Duration(floats.Min(totals)),
		MaxTick: time.Duration(floats.Max(totals)),
	}
	for ph, sum := range phaseSum {
		st.Phase[ph] = sum / time.Duration(p.count)
	}
	if st.AvgTick > 0 {
		st.TicksPerSecond = float64(time.Second) / float64(st.AvgTick)
	}
	return st
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("min_tick_us", s.MinTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for ph := range numPhases {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.Pct(ph)))
	}
	return slog.GroupValue(attrs...)
}

// PerfRecord is one row of perf.csv.
type PerfRecord struct {
	Tick        int     `csv:"tick"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	ShapePct    float64 `csv:"shape_pct"`
	FieldPct    float64 `csv:"field_pct"`
	JoinPct     float64 `csv:"join_pct"`
}

// Record flattens s into a perf.csv row for tick.
func (s PerfStats) Record(tick int) PerfRecord {
	return PerfRecord{
		Tick:        tick,
		AvgTickUS:   s.AvgTick.Microseconds(),
		MinTickUS:   s.MinTick.Microseconds(),
		MaxTickUS:   s.MaxTick.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		ShapePct:    s.Pct(PhaseShape),
		FieldPct:    s.Pct(PhaseField),
		JoinPct:     s.Pct(PhaseJoin),
	}
}
