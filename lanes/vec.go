package lanes

import "github.com/chewxy/math32"

// Vec3 is a single 3D vector, the layout consumers read back.
type Vec3 struct {
	X, Y, Z float32
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return float32(v.X*o.X) + float32(v.Y*o.Y) + float32(v.Z*o.Z)
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Length returns |v|.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length.
func (v Vec3) Normalize() Vec3 {
	s := 1 / v.Length()
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Float4x3 holds Width points as three coordinate batches (SoA).
type Float4x3 struct {
	X, Y, Z Float4
}

// Splat3 broadcasts one vector into every lane.
func Splat3(x, y, z float32) Float4x3 {
	return Float4x3{Splat(x), Splat(y), Splat(z)}
}

// Load transposes Width consecutive vectors into lane layout.
// src must hold at least Width elements.
func Load(src []Vec3) Float4x3 {
	var p Float4x3
	_ = src[Width-1]
	for i := 0; i < Width; i++ {
		p.X[i] = src[i].X
		p.Y[i] = src[i].Y
		p.Z[i] = src[i].Z
	}
	return p
}

// Store transposes p back into Width consecutive vectors.
func (p Float4x3) Store(dst []Vec3) {
	_ = dst[Width-1]
	for i := 0; i < Width; i++ {
		dst[i] = Vec3{p.X[i], p.Y[i], p.Z[i]}
	}
}

// At returns lane i as a vector.
func (p Float4x3) At(i int) Vec3 {
	return Vec3{p.X[i], p.Y[i], p.Z[i]}
}

// LengthSq returns the squared length of every lane.
func (p Float4x3) LengthSq() Float4 {
	return Add(Add(Mul(p.X, p.X), Mul(p.Y, p.Y)), Mul(p.Z, p.Z))
}

// Scale multiplies every coordinate of lane i by s[i].
func (p Float4x3) Scale(s Float4) Float4x3 {
	return Float4x3{Mul(p.X, s), Mul(p.Y, s), Mul(p.Z, s)}
}

// Normalize scales every lane to unit length.
func (p Float4x3) Normalize() Float4x3 {
	return p.Scale(Rsqrt(p.LengthSq()))
}
