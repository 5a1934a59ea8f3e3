package visualization

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/lattice/jobs"
	"github.com/pthm-cable/lattice/lanes"
	"github.com/pthm-cable/lattice/noise"
	"github.com/pthm-cable/lattice/space"
	"github.com/pthm-cable/lattice/xxhash"
)

// ErrNoiseKind is returned for a noise field without a generator.
var ErrNoiseKind = errors.New("unknown noise kind")

// Field is the stage that derives one scalar per point from the
// positions written by the shape stage.
type Field interface {
	// Name identifies the field in logs and run records.
	Name() string

	// Validate reports settings the field cannot evaluate.
	Validate() error

	// Enable allocates storage for blocks lane blocks holding points points.
	Enable(blocks, points int)

	// Disable releases storage.
	Disable()

	// Schedule evaluates the field over positions once dep completes.
	Schedule(pool *jobs.Pool, positions []lanes.Vec3, batch int, dep *jobs.Handle) *jobs.Handle

	// AppendValues appends one value per logical point, scaled to a float.
	AppendValues(dst []float64) []float64
}

// HashField hashes the lattice cell each point falls in.
type HashField struct {
	Seed   int32
	Domain space.TRS

	hashes []uint32
	points int
}

// NewHashField creates a hash field with the given seed and domain.
func NewHashField(seed int32, domain space.TRS) *HashField {
	return &HashField{Seed: seed, Domain: domain}
}

// Name implements Field.
func (f *HashField) Name() string { return "hash" }

// Validate implements Field. Every seed and domain is usable.
func (f *HashField) Validate() error { return nil }

// Enable implements Field.
func (f *HashField) Enable(blocks, points int) {
	f.hashes = make([]uint32, blocks*lanes.Width)
	f.points = points
}

// Disable implements Field.
func (f *HashField) Disable() {
	f.hashes = nil
	f.points = 0
}

// Hashes returns one hash per point. Padding lanes are not included.
func (f *HashField) Hashes() []uint32 {
	return f.hashes[:f.points]
}

// AppendValues implements Field, mapping hashes onto [0,1).
func (f *HashField) AppendValues(dst []float64) []float64 {
	for _, h := range f.Hashes() {
		dst = append(dst, float64(h)/(1<<32))
	}
	return dst
}

// Schedule implements Field.
func (f *HashField) Schedule(pool *jobs.Pool, positions []lanes.Vec3, batch int, dep *jobs.Handle) *jobs.Handle {
	job := hashJob{
		positions: positions,
		hashes:    f.hashes,
		domainTRS: f.Domain.Matrix(),
		hash:      xxhash.Seed(f.Seed).Broadcast(),
	}
	return pool.ScheduleParallel(len(positions)/lanes.Width, batch, dep, job.execute)
}

type hashJob struct {
	positions []lanes.Vec3
	hashes    []uint32
	domainTRS space.Matrix3x4
	hash      xxhash.SmallXXHash4
}

func (j hashJob) execute(i int) {
	lo, hi := i*lanes.Width, (i+1)*lanes.Width
	p := j.domainTRS.TransformVectors(lanes.Load(j.positions[lo:hi]), 1)

	u := lanes.ToInt(lanes.Floor(p.X))
	v := lanes.ToInt(lanes.Floor(p.Y))
	w := lanes.ToInt(lanes.Floor(p.Z))

	h := j.hash.Eat(u).Eat(v).Eat(w).Value()
	copy(j.hashes[lo:hi], h[:])
}

// NoiseField evaluates lattice noise at every point.
type NoiseField struct {
	Seed   int32
	Domain space.TRS
	Kind   noise.Kind

	noise  []float32
	points int
}

// NewNoiseField creates a noise field with the given seed, domain and kind.
func NewNoiseField(seed int32, domain space.TRS, kind noise.Kind) *NoiseField {
	return &NoiseField{Seed: seed, Domain: domain, Kind: kind}
}

// Name implements Field.
func (f *NoiseField) Name() string { return "noise/" + f.Kind.String() }

// Validate implements Field.
func (f *NoiseField) Validate() error {
	if f.Kind.Generator() == nil {
		return fmt.Errorf("%w: %v", ErrNoiseKind, f.Kind)
	}
	return nil
}

// Enable implements Field.
func (f *NoiseField) Enable(blocks, points int) {
	f.noise = make([]float32, blocks*lanes.Width)
	f.points = points
}

// Disable implements Field.
func (f *NoiseField) Disable() {
	f.noise = nil
	f.points = 0
}

// Noise returns one value in [-1,1] per point. Padding lanes are not included.
func (f *NoiseField) Noise() []float32 {
	return f.noise[:f.points]
}

// AppendValues implements Field.
func (f *NoiseField) AppendValues(dst []float64) []float64 {
	for _, v := range f.Noise() {
		dst = append(dst, float64(v))
	}
	return dst
}

// Schedule implements Field.
func (f *NoiseField) Schedule(pool *jobs.Pool, positions []lanes.Vec3, batch int, dep *jobs.Handle) *jobs.Handle {
	job := noiseJob{
		positions: positions,
		noise:     f.noise,
		domainTRS: f.Domain.Matrix(),
		hash:      xxhash.Seed(f.Seed).Broadcast(),
		eval:      f.Kind.Generator().GetNoise4,
	}
	return pool.ScheduleParallel(len(positions)/lanes.Width, batch, dep, job.execute)
}

type noiseJob struct {
	positions []lanes.Vec3
	noise     []float32
	domainTRS space.Matrix3x4
	hash      xxhash.SmallXXHash4
	eval      func(lanes.Float4x3, xxhash.SmallXXHash4) lanes.Float4
}

func (j noiseJob) execute(i int) {
	lo, hi := i*lanes.Width, (i+1)*lanes.Width
	p := j.domainTRS.TransformVectors(lanes.Load(j.positions[lo:hi]), 1)

	n := j.eval(p, j.hash)
	copy(j.noise[lo:hi], n[:])
}
