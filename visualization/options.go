package visualization

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/lattice/lanes"
	"github.com/pthm-cable/lattice/shapes"
)

// Configuration limits.
const (
	MinResolution = 1
	MaxResolution = 512

	MinInstanceScale = 0.1
	MaxInstanceScale = 10

	MinDisplacement = -5
	MaxDisplacement = 5
)

// Configuration errors.
var (
	ErrResolution    = errors.New("resolution out of range")
	ErrInstanceScale = errors.New("instance scale out of range")
	ErrDisplacement  = errors.New("displacement out of range")
	ErrNotStarted    = errors.New("session not started")
)

// Options configures a Session.
type Options struct {
	Resolution    int
	Shape         shapes.Kind
	Displacement  float32
	InstanceScale float32

	// BatchSize is the number of blocks per scheduled chunk.
	// Zero uses the resolution.
	BatchSize int
}

// DefaultOptions returns the settings a new visualization starts with.
func DefaultOptions() Options {
	return Options{
		Resolution:    16,
		Shape:         shapes.KindPlane,
		Displacement:  0.1,
		InstanceScale: 2,
	}
}

// Validate rejects out-of-range settings so evaluation never has to.
func (o Options) Validate() error {
	if o.Resolution < MinResolution || o.Resolution > MaxResolution {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrResolution, o.Resolution, MinResolution, MaxResolution)
	}
	if o.InstanceScale < MinInstanceScale || o.InstanceScale > MaxInstanceScale {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrInstanceScale, o.InstanceScale, MinInstanceScale, MaxInstanceScale)
	}
	if o.Displacement < MinDisplacement || o.Displacement > MaxDisplacement {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrDisplacement, o.Displacement, MinDisplacement, MaxDisplacement)
	}
	if o.Shape.Func() == nil {
		return fmt.Errorf("unknown shape %v", o.Shape)
	}
	if o.BatchSize < 0 {
		return fmt.Errorf("negative batch size %d", o.BatchSize)
	}
	return nil
}

// batch returns the effective blocks per chunk.
func (o Options) batch() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return o.Resolution
}

// BlockCount returns the number of lane blocks holding resolution² points.
// For a width of 4 this is n/4 plus one extra block when n is odd: odd
// squares are 1 mod 4, so the final block is mostly padding.
func BlockCount(resolution int) int {
	n := resolution * resolution
	return (n + lanes.Width - 1) / lanes.Width
}
