// Package lanes provides fixed-width lane batches: small arrays of scalars
// that are processed together so the hot loops stay vectorizable.
//
// Float results must be bit-identical on every GOARCH and GOAMD64 level.
// Every product that can meet an add is written as float32(a*b): an
// explicit conversion forces rounding, which stops the compiler from
// fusing the pair into an FMA.
package lanes

// Width is the number of lanes in a batch.
const Width = 4

// Scalar is the set of element types a lane batch can hold.
type Scalar interface {
	~int32 | ~uint32 | ~float32
}

// Batch is one value per lane.
type Batch[T Scalar] [Width]T

// Common batch instantiations.
type (
	Float4 = Batch[float32]
	Int4   = Batch[int32]
	Uint4  = Batch[uint32]
)

// Splat broadcasts v into every lane.
func Splat[T Scalar](v T) Batch[T] {
	var b Batch[T]
	for i := range b {
		b[i] = v
	}
	return b
}

// Add returns a + b lane-wise.
func Add[T Scalar](a, b Batch[T]) Batch[T] {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

// Sub returns a - b lane-wise.
func Sub[T Scalar](a, b Batch[T]) Batch[T] {
	for i := range a {
		a[i] -= b[i]
	}
	return a
}

// Mul returns a * b lane-wise. Each product is rounded to T so it can
// never be fused with a following add.
func Mul[T Scalar](a, b Batch[T]) Batch[T] {
	for i := range a {
		a[i] = T(a[i] * b[i])
	}
	return a
}

// AddScalar adds s to every lane.
func AddScalar[T Scalar](a Batch[T], s T) Batch[T] {
	for i := range a {
		a[i] += s
	}
	return a
}

// MulScalar multiplies every lane by s, rounding like Mul.
func MulScalar[T Scalar](a Batch[T], s T) Batch[T] {
	for i := range a {
		a[i] = T(a[i] * s)
	}
	return a
}

// Lane returns a batch holding 0, 1, ..., Width-1.
func Lane[T Scalar]() Batch[T] {
	var b Batch[T]
	for i := range b {
		b[i] = T(i)
	}
	return b
}
