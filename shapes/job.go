package shapes

import (
	"fmt"

	"github.com/pthm-cable/lattice/jobs"
	"github.com/pthm-cable/lattice/lanes"
	"github.com/pthm-cable/lattice/space"
)

// Job writes one block of points per index into Positions and Normals.
// Block i owns elements [i*lanes.Width, (i+1)*lanes.Width) of both slices.
type Job struct {
	Positions, Normals []lanes.Vec3

	Resolution, InvResolution float32

	PositionTRS, NormalTRS space.Matrix3x4

	Shape Func
}

// NewJob prepares a shape job for a resolution x resolution grid placed
// by the object transform trs.
func NewJob(kind Kind, positions, normals []lanes.Vec3, resolution int, trs space.Matrix4) (*Job, error) {
	shape := kind.Func()
	if shape == nil {
		return nil, fmt.Errorf("shape job: unknown shape %v", kind)
	}
	if len(positions) != len(normals) || len(positions)%lanes.Width != 0 {
		return nil, fmt.Errorf("shape job: %d positions and %d normals are not matching blocks",
			len(positions), len(normals))
	}
	normalTRS, err := trs.NormalMatrix()
	if err != nil {
		return nil, fmt.Errorf("shape job: %w", err)
	}
	return &Job{
		Positions:     positions,
		Normals:       normals,
		Resolution:    float32(resolution),
		InvResolution: 1 / float32(resolution),
		PositionTRS:   trs.Get3x4(),
		NormalTRS:     normalTRS.Get3x4(),
		Shape:         shape,
	}, nil
}

// Blocks returns the number of indices the job executes.
func (j *Job) Blocks() int {
	return len(j.Positions) / lanes.Width
}

// Execute generates block i.
func (j *Job) Execute(i int) {
	p := j.Shape(i, j.Resolution, j.InvResolution)

	lo, hi := i*lanes.Width, (i+1)*lanes.Width
	j.PositionTRS.TransformVectors(p.Positions, 1).Store(j.Positions[lo:hi])
	j.NormalTRS.TransformVectors(p.Normals, 0).Normalize().Store(j.Normals[lo:hi])
}

// Schedule runs the job over all blocks, batch blocks per chunk, after dep.
func (j *Job) Schedule(pool *jobs.Pool, batch int, dep *jobs.Handle) *jobs.Handle {
	return pool.ScheduleParallel(j.Blocks(), batch, dep, j.Execute)
}
