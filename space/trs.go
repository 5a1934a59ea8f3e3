// Package space builds the affine transforms applied to generated points:
// the object transform used by the shape stage and the domain transform
// applied before hashing or noise.
package space

import (
	"math"

	"github.com/pthm-cable/lattice/lanes"
)

// TRS is a translation, an Euler rotation in degrees and a scale.
// Rotation is applied in ZXY order: Z first, then X, then Y.
type TRS struct {
	Translation lanes.Vec3
	Rotation    lanes.Vec3
	Scale       lanes.Vec3
}

// Identity returns a TRS with unit scale and no rotation or translation.
func Identity() TRS {
	return TRS{Scale: lanes.Vec3{X: 1, Y: 1, Z: 1}}
}

// Matrix4 composes T * Ry * Rx * Rz * S.
func (t TRS) Matrix4() Matrix4 {
	rx := radians(t.Rotation.X)
	ry := radians(t.Rotation.Y)
	rz := radians(t.Rotation.Z)

	m := Mul(rotationY(ry), Mul(rotationX(rx), rotationZ(rz)))
	m = Mul(m, scaling(t.Scale))
	m = Mul(translation(t.Translation), m)
	return m
}

// Matrix returns the compiled 3x4 form used by the jobs.
func (t TRS) Matrix() Matrix3x4 {
	return t.Matrix4().Get3x4()
}

// MaxAbsScale returns the largest absolute scale component.
func (t TRS) MaxAbsScale() float32 {
	s := t.Scale
	return float32(math.Max(math.Abs(float64(s.X)), math.Max(math.Abs(float64(s.Y)), math.Abs(float64(s.Z)))))
}

func radians(deg float32) float64 {
	return float64(deg) * math.Pi / 180
}

func rotationX(a float64) Matrix4 {
	s, c := math.Sincos(a)
	return Matrix4{
		{1, 0, 0, 0},
		{0, c, -s, 0},
		{0, s, c, 0},
		{0, 0, 0, 1},
	}
}

func rotationY(a float64) Matrix4 {
	s, c := math.Sincos(a)
	return Matrix4{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

func rotationZ(a float64) Matrix4 {
	s, c := math.Sincos(a)
	return Matrix4{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func scaling(v lanes.Vec3) Matrix4 {
	return Matrix4{
		{float64(v.X), 0, 0, 0},
		{0, float64(v.Y), 0, 0},
		{0, 0, float64(v.Z), 0},
		{0, 0, 0, 1},
	}
}

func translation(v lanes.Vec3) Matrix4 {
	return Matrix4{
		{1, 0, 0, float64(v.X)},
		{0, 1, 0, float64(v.Y)},
		{0, 0, 1, float64(v.Z)},
		{0, 0, 0, 1},
	}
}
