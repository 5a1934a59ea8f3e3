package lanes

import (
	"testing"

	"gonum.org/v1/gonum/blas/blas32"
)

const benchSize = 64 * 64

func benchData() (a, b []float32) {
	a = make([]float32, benchSize)
	b = make([]float32, benchSize)
	for i := range a {
		a[i] = float32(i) * 0.001
		b[i] = float32(i) * 0.002
	}
	return a, b
}

// Lerp across a grid in lane batches
func BenchmarkLerpLanes(b *testing.B) {
	u0, u1 := benchData()
	dst := make([]float32, benchSize)
	t := Splat[float32](0.5)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for i := 0; i < benchSize; i += Width {
			r := Lerp(Float4(u0[i:i+Width]), Float4(u1[i:i+Width]), t)
			copy(dst[i:i+Width], r[:])
		}
	}
}

// Same blend as a scalar loop
func BenchmarkLerpScalar(b *testing.B) {
	u0, u1 := benchData()
	dst := make([]float32, benchSize)
	t := float32(0.5)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for i := range dst {
			dst[i] = u0[i] + float32((u1[i]-u0[i])*t)
		}
	}
}

// Same blend with blas32: dst = (1-t)*a + t*b
func BenchmarkLerpBLAS(b *testing.B) {
	u0, u1 := benchData()
	dst := make([]float32, benchSize)
	t := float32(0.5)

	v0 := blas32.Vector{N: benchSize, Inc: 1, Data: u0}
	v1 := blas32.Vector{N: benchSize, Inc: 1, Data: u1}
	vd := blas32.Vector{N: benchSize, Inc: 1, Data: dst}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		blas32.Copy(v0, vd)
		blas32.Scal(1-t, vd)
		blas32.Axpy(t, v1, vd)
	}
}

// Normalizing SoA blocks
func BenchmarkNormalize(b *testing.B) {
	src := make([]Vec3, benchSize)
	for i := range src {
		src[i] = Vec3{float32(i%7) + 1, float32(i%5) - 2, float32(i % 3)}
	}
	dst := make([]Vec3, benchSize)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for i := 0; i < benchSize; i += Width {
			Load(src[i : i+Width]).Normalize().Store(dst[i : i+Width])
		}
	}
}
