// Package shapes generates the grid points of a few parametric surfaces.
// Each shape is a pure function from a block index to lanes.Width points.
package shapes

import (
	"math"

	"github.com/pthm-cable/lattice/lanes"
)

const twoPi = 2 * math.Pi

// Torus radii.
const (
	TorusRingRadius float32 = 0.375
	TorusTubeRadius float32 = 0.125
)

// Point4 holds positions and normals for lanes.Width grid points.
type Point4 struct {
	Positions, Normals lanes.Float4x3
}

// Func generates block i of a resolution x resolution grid.
type Func func(i int, resolution, invResolution float32) Point4

// IndexTo4UV maps block i to the uv coordinates of its lanes.Width
// consecutive flat indices. Rows run along v; samples sit at cell centers.
func IndexTo4UV(i int, resolution, invResolution float32) (u, v lanes.Float4) {
	i4 := lanes.AddScalar(lanes.Lane[float32](), float32(lanes.Width*i))

	// The bias keeps exact row boundaries from rounding down a row.
	v = lanes.Floor(lanes.AddScalar(lanes.MulScalar(i4, invResolution), 0.00001))
	u = lanes.MulScalar(lanes.AddScalar(lanes.Sub(i4, lanes.MulScalar(v, resolution)), 0.5), invResolution)
	v = lanes.MulScalar(lanes.AddScalar(v, 0.5), invResolution)
	return u, v
}

// Plane is a unit square in the XZ plane facing +Y.
func Plane(i int, resolution, invResolution float32) Point4 {
	u, v := IndexTo4UV(i, resolution, invResolution)
	return Point4{
		Positions: lanes.Float4x3{
			X: lanes.AddScalar(u, -0.5),
			Z: lanes.AddScalar(v, -0.5),
		},
		Normals: lanes.Splat3(0, 1, 0),
	}
}

// Sphere folds an octahedron onto a sphere of radius 0.5.
// Normals are left at length 0.5; the shape job normalizes them after
// applying the object transform.
func Sphere(i int, resolution, invResolution float32) Point4 {
	u, v := IndexTo4UV(i, resolution, invResolution)

	var p lanes.Float4x3
	p.X = lanes.AddScalar(u, -0.5)
	p.Y = lanes.AddScalar(v, -0.5)
	p.Z = lanes.Sub(lanes.Sub(lanes.Splat[float32](0.5), lanes.Abs(p.X)), lanes.Abs(p.Y))

	// Fold the lower half outward: negative coordinates gain the offset,
	// positive ones lose it.
	offset := lanes.MaxScalar(lanes.MulScalar(p.Z, -1), 0)
	neg := lanes.MulScalar(offset, -1)
	p.X = lanes.Add(p.X, lanes.Select(neg, offset, lanes.Less(p.X, 0)))
	p.Y = lanes.Add(p.Y, lanes.Select(neg, offset, lanes.Less(p.Y, 0)))

	p = p.Scale(lanes.MulScalar(lanes.Rsqrt(p.LengthSq()), 0.5))
	return Point4{Positions: p, Normals: p}
}

// Torus wraps u around the Y axis and v around the tube.
func Torus(i int, resolution, invResolution float32) Point4 {
	u, v := IndexTo4UV(i, resolution, invResolution)

	au := lanes.MulScalar(u, twoPi)
	av := lanes.MulScalar(v, twoPi)
	sinU, cosU := lanes.Sin(au), lanes.Cos(au)

	s := lanes.AddScalar(lanes.MulScalar(lanes.Cos(av), TorusTubeRadius), TorusRingRadius)

	var p Point4
	p.Positions.X = lanes.Mul(s, sinU)
	p.Positions.Y = lanes.MulScalar(lanes.Sin(av), TorusTubeRadius)
	p.Positions.Z = lanes.Mul(s, cosU)

	// Normals point away from the ring, not the torus center.
	p.Normals = p.Positions
	p.Normals.X = lanes.Sub(p.Normals.X, lanes.MulScalar(sinU, TorusRingRadius))
	p.Normals.Z = lanes.Sub(p.Normals.Z, lanes.MulScalar(cosU, TorusRingRadius))
	return p
}
