package lanes

import (
	"math"

	"github.com/chewxy/math32"
)

// Rounding and conversion

// Floor rounds every lane down, keeping the float representation.
func Floor(a Float4) Float4 {
	for i := range a {
		a[i] = math32.Floor(a[i])
	}
	return a
}

// ToInt truncates every lane toward zero.
func ToInt(a Float4) Int4 {
	var r Int4
	for i := range a {
		r[i] = int32(a[i])
	}
	return r
}

// ToFloat converts unsigned lanes to float.
func ToFloat(a Uint4) Float4 {
	var r Float4
	for i := range a {
		r[i] = float32(a[i])
	}
	return r
}

// Elementwise functions

// Abs returns |a| lane-wise.
func Abs(a Float4) Float4 {
	for i := range a {
		a[i] = math32.Abs(a[i])
	}
	return a
}

// MaxScalar returns max(a, s) lane-wise.
func MaxScalar(a Float4, s float32) Float4 {
	for i := range a {
		a[i] = math32.Max(a[i], s)
	}
	return a
}

// Sin returns sin(a) lane-wise. It is evaluated in float64 and rounded
// once; the float32 polynomial in math32 changes bits when fused.
func Sin(a Float4) Float4 {
	for i := range a {
		a[i] = float32(math.Sin(float64(a[i])))
	}
	return a
}

// Cos returns cos(a) lane-wise, rounded like Sin.
func Cos(a Float4) Float4 {
	for i := range a {
		a[i] = float32(math.Cos(float64(a[i])))
	}
	return a
}

// Rsqrt returns 1/sqrt(a) lane-wise.
func Rsqrt(a Float4) Float4 {
	for i := range a {
		a[i] = 1 / math32.Sqrt(a[i])
	}
	return a
}

// Select picks b where mask is set and a elsewhere.
func Select(a, b Float4, mask [Width]bool) Float4 {
	for i := range a {
		if mask[i] {
			a[i] = b[i]
		}
	}
	return a
}

// Less reports a < s lane-wise.
func Less(a Float4, s float32) [Width]bool {
	var m [Width]bool
	for i := range a {
		m[i] = a[i] < s
	}
	return m
}

// Interpolation

// Lerp returns a + (b-a)*t lane-wise.
// The product is rounded explicitly so the compiler cannot fuse it into
// an FMA; results must be bit-identical across architectures.
func Lerp(a, b, t Float4) Float4 {
	for i := range a {
		a[i] += float32((b[i] - a[i]) * t[i])
	}
	return a
}

// Remap11 maps [0,1] onto [-1,1] via v*2-1.
func Remap11(a Float4) Float4 {
	for i := range a {
		a[i] = float32(a[i]*2) - 1
	}
	return a
}
