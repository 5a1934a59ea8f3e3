// Package noise generates coherent value noise by interpolating hashed
// lattice points. Every corner lookup is a hash call, so there is no
// permutation table to build or share between goroutines.
package noise

import (
	"github.com/pthm-cable/lattice/lanes"
	"github.com/pthm-cable/lattice/xxhash"
)

// Noise evaluates a field for lanes.Width points at once.
// Positions must already be in domain space.
type Noise interface {
	GetNoise4(positions lanes.Float4x3, hash xxhash.SmallXXHash4) lanes.Float4
}

// LatticeSpan4 splits one coordinate per lane into the two surrounding
// lattice points and the interpolation weight between them.
type LatticeSpan4 struct {
	P0, P1 lanes.Int4
	T      lanes.Float4
}

// GetLatticeSpan4 computes the lattice span of coordinates.
// No epsilon handling: t is exactly c - floor(c).
func GetLatticeSpan4(coordinates lanes.Float4) LatticeSpan4 {
	points := lanes.Floor(coordinates)
	var span LatticeSpan4
	span.P0 = lanes.ToInt(points)
	span.P1 = lanes.AddScalar(span.P0, 1)
	span.T = lanes.Sub(coordinates, points)
	return span
}

// Lattice1D interpolates along X only.
type Lattice1D struct{}

// GetNoise4 implements Noise.
func (Lattice1D) GetNoise4(positions lanes.Float4x3, hash xxhash.SmallXXHash4) lanes.Float4 {
	x := GetLatticeSpan4(positions.X)
	return lanes.Remap11(lanes.Lerp(
		hash.Eat(x.P0).Floats01A(),
		hash.Eat(x.P1).Floats01A(),
		x.T,
	))
}

// Lattice2D interpolates bilinearly over the XZ plane: along Z inside
// each X branch first, then along X.
type Lattice2D struct{}

// GetNoise4 implements Noise.
func (Lattice2D) GetNoise4(positions lanes.Float4x3, hash xxhash.SmallXXHash4) lanes.Float4 {
	x := GetLatticeSpan4(positions.X)
	z := GetLatticeSpan4(positions.Z)

	h0 := hash.Eat(x.P0)
	h1 := hash.Eat(x.P1)

	return lanes.Remap11(lanes.Lerp(
		lanes.Lerp(h0.Eat(z.P0).Floats01A(), h0.Eat(z.P1).Floats01A(), z.T),
		lanes.Lerp(h1.Eat(z.P0).Floats01A(), h1.Eat(z.P1).Floats01A(), z.T),
		x.T,
	))
}

// Lattice3D interpolates trilinearly, hashing X, then Y, then Z.
type Lattice3D struct{}

// GetNoise4 implements Noise.
func (Lattice3D) GetNoise4(positions lanes.Float4x3, hash xxhash.SmallXXHash4) lanes.Float4 {
	x := GetLatticeSpan4(positions.X)
	y := GetLatticeSpan4(positions.Y)
	z := GetLatticeSpan4(positions.Z)

	h0 := hash.Eat(x.P0)
	h1 := hash.Eat(x.P1)
	h00, h01 := h0.Eat(y.P0), h0.Eat(y.P1)
	h10, h11 := h1.Eat(y.P0), h1.Eat(y.P1)

	alongZ := func(h xxhash.SmallXXHash4) lanes.Float4 {
		return lanes.Lerp(h.Eat(z.P0).Floats01A(), h.Eat(z.P1).Floats01A(), z.T)
	}

	return lanes.Remap11(lanes.Lerp(
		lanes.Lerp(alongZ(h00), alongZ(h01), y.T),
		lanes.Lerp(alongZ(h10), alongZ(h11), y.T),
		x.T,
	))
}
