// Package generator drives visualization sessions tick by tick without a
// renderer: it owns the shared worker pool, animates the field domain,
// and feeds telemetry.
package generator

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/lattice/config"
	"github.com/pthm-cable/lattice/jobs"
	"github.com/pthm-cable/lattice/space"
	"github.com/pthm-cable/lattice/telemetry"
	"github.com/pthm-cable/lattice/visualization"
)

// Options holds runtime settings that are not part of the config file.
type Options struct {
	OutputDir string // CSV logs and config snapshot (empty = disabled)
	LogStats  bool   // Log field and perf stats via slog
}

// fieldSession pairs a session with the domain of its field so the
// domain can be animated.
type fieldSession struct {
	session *visualization.Session
	domain  *space.TRS
}

// Generator runs one session per configured field on a shared pool.
type Generator struct {
	cfg      *config.Config
	opts     Options
	pool     *jobs.Pool
	sessions []fieldSession
	object   space.TRS
	tick     int

	perf   *telemetry.PerfCollector
	output *telemetry.OutputManager

	// Reused across ticks for field statistics.
	values []float64
	stats  []telemetry.FieldStats
}

// New creates a generator and starts its sessions.
func New(cfg *config.Config, opts Options) (*Generator, error) {
	g := &Generator{
		cfg:    cfg,
		opts:   opts,
		pool:   jobs.NewPool(cfg.Scheduler.Workers),
		object: cfg.Derived.Object,
		perf:   telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}

	var fields []visualization.Field
	if cfg.Derived.Hash {
		f := visualization.NewHashField(cfg.Field.Seed, cfg.Derived.Domain)
		fields = append(fields, f)
		g.sessions = append(g.sessions, fieldSession{domain: &f.Domain})
	}
	if cfg.Derived.Noise {
		f := visualization.NewNoiseField(cfg.Field.Seed, cfg.Derived.Domain, cfg.Derived.NoiseKind)
		fields = append(fields, f)
		g.sessions = append(g.sessions, fieldSession{domain: &f.Domain})
	}

	for i, f := range fields {
		s, err := visualization.NewSession(g.pool, f, cfg.Derived.Options)
		if err != nil {
			g.Close()
			return nil, err
		}
		if err := s.Start(); err != nil {
			g.Close()
			return nil, err
		}
		g.sessions[i].session = s
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.Close()
		return nil, err
	}
	g.output = output
	if err := output.WriteConfig(cfg); err != nil {
		g.Close()
		return nil, err
	}

	slog.Info("generator started",
		"sessions", len(g.sessions),
		"workers", g.pool.Workers(),
		"resolution", cfg.Derived.Options.Resolution,
		"shape", cfg.Derived.Shape.String(),
	)
	return g, nil
}

// Tick returns the number of completed ticks.
func (g *Generator) Tick() int {
	return g.tick
}

// Sessions returns the running sessions in field order (hash before noise).
func (g *Generator) Sessions() []*visualization.Session {
	out := make([]*visualization.Session, 0, len(g.sessions))
	for _, fs := range g.sessions {
		if fs.session != nil {
			out = append(out, fs.session)
		}
	}
	return out
}

// Step advances one tick: animates the domain, runs every session
// concurrently and records statistics.
func (g *Generator) Step(ctx context.Context) error {
	g.perf.StartTick()

	if spin := g.cfg.Animation.DomainSpin; spin != 0 && g.tick > 0 {
		for _, fs := range g.sessions {
			fs.domain.Rotation.Y += spin
			fs.session.MarkDirty()
		}
	}

	object := g.object.Matrix4()

	g.perf.StartPhase(telemetry.PhaseJoin)
	eg, ctx := errgroup.WithContext(ctx)
	for _, fs := range g.sessions {
		s := fs.session
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := s.Update(object); err != nil {
				return fmt.Errorf("updating %s session: %w", s.Field().Name(), err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, fs := range g.sessions {
		shape, field := fs.session.Timings()
		g.perf.RecordPhase(telemetry.PhaseShape, shape)
		g.perf.RecordPhase(telemetry.PhaseField, field)
	}
	g.perf.EndTick()

	if err := g.recordStats(); err != nil {
		return err
	}
	g.tick++
	return nil
}

// recordStats summarizes every field and flushes perf once per window.
func (g *Generator) recordStats() error {
	g.stats = g.stats[:0]
	for _, fs := range g.sessions {
		s := fs.session
		shape, field := s.Timings()
		g.values = s.Field().AppendValues(g.values[:0])
		g.stats = append(g.stats, telemetry.ComputeFieldStats(telemetry.FieldStats{
			Tick:    g.tick,
			Field:   s.Field().Name(),
			Shape:   s.Options().Shape.String(),
			ShapeUS: shape.Microseconds(),
			FieldUS: field.Microseconds(),
		}, g.values))
	}

	if g.opts.LogStats {
		for _, st := range g.stats {
			slog.Info("field", "stats", st)
		}
	}
	if err := g.output.WriteFieldStats(g.stats...); err != nil {
		return err
	}

	if (g.tick+1)%g.cfg.Telemetry.PerfWindow == 0 {
		return g.flushPerf()
	}
	return nil
}

func (g *Generator) flushPerf() error {
	stats := g.perf.Stats()
	if g.opts.LogStats {
		slog.Info("perf", "stats", stats)
	}
	return g.output.WritePerf(stats, g.tick)
}

// Stats returns the field summaries of the last tick.
func (g *Generator) Stats() []telemetry.FieldStats {
	return g.stats
}

// Run steps until ticks have completed or ctx is cancelled.
func (g *Generator) Run(ctx context.Context, ticks int) error {
	for g.tick < ticks {
		if err := g.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close ends every session, stops the pool and closes output files.
func (g *Generator) Close() error {
	for _, fs := range g.sessions {
		if fs.session != nil {
			fs.session.End()
		}
	}
	g.pool.Stop()

	var err error
	if g.tick%g.cfg.Telemetry.PerfWindow != 0 && g.tick > 0 {
		err = g.flushPerf()
	}
	if cerr := g.output.Close(); err == nil {
		err = cerr
	}
	return err
}
