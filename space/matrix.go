package space

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/lattice/lanes"
)

// Matrix4 is a row-major 4x4 affine matrix. It is comparable, so callers
// can detect a moved transform with ==.
type Matrix4 [4][4]float64

// IdentityMatrix returns the 4x4 identity.
func IdentityMatrix() Matrix4 {
	return Matrix4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

func (m Matrix4) dense() *mat.Dense {
	data := make([]float64, 0, 16)
	for _, row := range m {
		data = append(data, row[:]...)
	}
	return mat.NewDense(4, 4, data)
}

func fromMatrix(d mat.Matrix) Matrix4 {
	var m Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r][c] = d.At(r, c)
		}
	}
	return m
}

// Mul returns a * b.
func Mul(a, b Matrix4) Matrix4 {
	var d mat.Dense
	d.Mul(a.dense(), b.dense())
	return fromMatrix(&d)
}

// Inverse returns the inverse of m. Ill-conditioned matrices are still
// inverted; singular ones are an error.
func (m Matrix4) Inverse() (Matrix4, error) {
	var inv mat.Dense
	if err := inv.Inverse(m.dense()); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return Matrix4{}, fmt.Errorf("inverting transform: %w", err)
		}
	}
	return fromMatrix(&inv), nil
}

// NormalMatrix returns the transpose of the inverse of m, which keeps
// normals perpendicular to surfaces under non-uniform scale.
func (m Matrix4) NormalMatrix() (Matrix4, error) {
	inv, err := m.Inverse()
	if err != nil {
		return Matrix4{}, err
	}
	return fromMatrix(inv.dense().T()), nil
}

// Get3x4 drops the bottom row, which is always 0,0,0,1 for affine matrices.
func (m Matrix4) Get3x4() Matrix3x4 {
	var r Matrix3x4
	for row := 0; row < 3; row++ {
		for c := 0; c < 4; c++ {
			r[row][c] = float32(m[row][c])
		}
	}
	return r
}

// Matrix3x4 is the top three rows of an affine matrix in float32.
type Matrix3x4 [3][4]float32

// TransformVectors applies m to every lane of p. w is the implied
// homogeneous coordinate: 1 for positions, 0 for directions.
func (m Matrix3x4) TransformVectors(p lanes.Float4x3, w float32) lanes.Float4x3 {
	var r lanes.Float4x3
	for i := 0; i < lanes.Width; i++ {
		x, y, z := p.X[i], p.Y[i], p.Z[i]
		r.X[i] = m.row(0, x, y, z, w)
		r.Y[i] = m.row(1, x, y, z, w)
		r.Z[i] = m.row(2, x, y, z, w)
	}
	return r
}

// TransformPoint applies m to a single position.
func (m Matrix3x4) TransformPoint(v lanes.Vec3) lanes.Vec3 {
	return lanes.Vec3{
		X: m.row(0, v.X, v.Y, v.Z, 1),
		Y: m.row(1, v.X, v.Y, v.Z, 1),
		Z: m.row(2, v.X, v.Y, v.Z, 1),
	}
}

// row evaluates one output coordinate, summing left to right. Products
// are rounded before the adds so no architecture fuses them.
func (m Matrix3x4) row(r int, x, y, z, w float32) float32 {
	return float32(m[r][0]*x) + float32(m[r][1]*y) + float32(m[r][2]*z) + float32(m[r][3]*w)
}
