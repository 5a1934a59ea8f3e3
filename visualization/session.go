// Package visualization owns the buffers of one point-field session and
// pipelines the shape stage into a dependent field stage on a shared
// worker pool. The renderer that consumes the buffers is external.
package visualization

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pthm-cable/lattice/jobs"
	"github.com/pthm-cable/lattice/lanes"
	"github.com/pthm-cable/lattice/shapes"
	"github.com/pthm-cable/lattice/space"
)

// Session holds the positions, normals and field of a resolution x
// resolution grid. Buffers live from Start to End and are reallocated
// only when the resolution changes.
//
// A Session is driven from one goroutine; the parallelism is inside the
// jobs it schedules.
type Session struct {
	opts  Options
	pool  *jobs.Pool
	field Field

	positions, normals []lanes.Vec3

	started    bool
	dirty      bool
	lastObject space.Matrix4

	// In-flight work; must complete before buffers are touched again.
	pending    *jobs.Handle
	shapeStage *jobs.Handle
	fieldStage *jobs.Handle
}

// NewSession creates a session that evaluates field on pool.
func NewSession(pool *jobs.Pool, field Field, opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("configuring session: %w", err)
	}
	if err := field.Validate(); err != nil {
		return nil, fmt.Errorf("configuring session: %w", err)
	}
	return &Session{
		opts:  opts,
		pool:  pool,
		field: field,
		dirty: true,
	}, nil
}

// Options returns the current configuration.
func (s *Session) Options() Options { return s.opts }

// Field returns the field stage.
func (s *Session) Field() Field { return s.field }

// PointCount returns resolution².
func (s *Session) PointCount() int {
	return s.opts.Resolution * s.opts.Resolution
}

// BlockCount returns the number of lane blocks, including padding.
func (s *Session) BlockCount() int {
	return BlockCount(s.opts.Resolution)
}

// Configure applies new options. A running session drains in-flight work
// and reallocates when the resolution changes.
func (s *Session) Configure(opts Options) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("configuring session: %w", err)
	}

	resize := s.started && opts.Resolution != s.opts.Resolution
	if resize {
		s.End()
	}
	s.opts = opts
	s.dirty = true
	if resize {
		return s.Start()
	}
	return nil
}

// Start allocates the buffers for the configured resolution.
func (s *Session) Start() error {
	if s.started {
		return nil
	}
	if err := s.opts.Validate(); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	blocks := s.BlockCount()
	s.positions = make([]lanes.Vec3, blocks*lanes.Width)
	s.normals = make([]lanes.Vec3, blocks*lanes.Width)
	s.field.Enable(blocks, s.PointCount())
	s.started = true
	s.dirty = true

	const vecBytes = 3 * 4
	size := uint64(2*blocks*lanes.Width*vecBytes + blocks*lanes.Width*4)
	slog.Info("session started",
		"field", s.field.Name(),
		"resolution", s.opts.Resolution,
		"points", s.PointCount(),
		"blocks", blocks,
		"memory", humanize.Bytes(size),
	)
	return nil
}

// End waits for in-flight work and releases the buffers.
func (s *Session) End() {
	if !s.started {
		return
	}
	s.Complete()

	s.positions = nil
	s.normals = nil
	s.field.Disable()
	s.started = false
	slog.Info("session ended", "field", s.field.Name())
}

// MarkDirty forces the next Update to run, e.g. after changing the
// field's seed or domain.
func (s *Session) MarkDirty() {
	s.dirty = true
}

// Run schedules the shape stage with object as the object transform,
// followed by the field stage that reads its positions. It does not
// block; the returned handle completes when both stages have.
func (s *Session) Run(object space.Matrix4, dep *jobs.Handle) (*jobs.Handle, error) {
	if !s.started {
		return nil, ErrNotStarted
	}
	// The field's settings are exported and may have changed since
	// NewSession.
	if err := s.field.Validate(); err != nil {
		return nil, err
	}

	shapeJob, err := shapes.NewJob(s.opts.Shape, s.positions, s.normals, s.opts.Resolution, object)
	if err != nil {
		return nil, err
	}

	// The previous run writes the same buffers, so the new one queues
	// behind it rather than blocking the caller.
	dep = jobs.CombineDependencies(dep, s.pending)

	batch := s.opts.batch()
	s.shapeStage = shapeJob.Schedule(s.pool, batch, dep)
	s.fieldStage = s.field.Schedule(s.pool, s.positions, batch, s.shapeStage)
	s.pending = s.fieldStage
	s.lastObject = object
	s.dirty = false
	return s.pending, nil
}

// Update runs and completes the pipeline if the session is dirty or the
// object transform moved. It reports whether anything ran.
func (s *Session) Update(object space.Matrix4) (bool, error) {
	if !s.dirty && object == s.lastObject {
		return false, nil
	}
	h, err := s.Run(object, nil)
	if err != nil {
		return false, err
	}
	h.Complete()
	return true, nil
}

// Complete blocks until scheduled work has finished.
func (s *Session) Complete() {
	s.pending.Complete()
}

// Timings returns how long each stage of the last completed run took.
func (s *Session) Timings() (shape, field time.Duration) {
	if s.fieldStage == nil || !s.fieldStage.IsCompleted() {
		return 0, 0
	}
	return s.shapeStage.Elapsed(), s.fieldStage.Elapsed()
}

// Positions returns one position per point. Padding lanes are not included.
// Only valid after the last run completed.
func (s *Session) Positions() []lanes.Vec3 {
	return s.positions[:min(len(s.positions), s.PointCount())]
}

// Normals returns one unit normal per point. Padding lanes are not included.
func (s *Session) Normals() []lanes.Vec3 {
	return s.normals[:min(len(s.normals), s.PointCount())]
}

// RenderConfig is what the renderer needs besides the buffers.
type RenderConfig struct {
	Resolution   int
	InstanceSize float32 // instance scale divided by resolution
	Displacement float32
}

// RenderConfig returns the per-instance drawing parameters.
func (s *Session) RenderConfig() RenderConfig {
	return RenderConfig{
		Resolution:   s.opts.Resolution,
		InstanceSize: s.opts.InstanceScale / float32(s.opts.Resolution),
		Displacement: s.opts.Displacement,
	}
}

// Bounds returns the center and edge length of a cube that contains
// every displaced instance for an object placed by object.
func (s *Session) Bounds(object space.TRS) (center lanes.Vec3, size float32) {
	return object.Translation, 2*object.MaxAbsScale() + s.opts.Displacement
}
