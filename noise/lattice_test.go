package noise

import (
	"math"
	"testing"

	"github.com/pthm-cable/lattice/lanes"
	"github.com/pthm-cable/lattice/xxhash"
)

func TestLatticeSpan(t *testing.T) {
	testCases := []struct {
		c     float32
		p0    int32
		tWant float32
	}{
		{0, 0, 0},
		{0.25, 0, 0.25},
		{1, 1, 0},
		{-0.25, -1, 0.75},
		{-3, -3, 0},
		{7.5, 7, 0.5},
	}

	for _, tc := range testCases {
		span := GetLatticeSpan4(lanes.Splat(tc.c))
		for i := 0; i < lanes.Width; i++ {
			if span.P0[i] != tc.p0 {
				t.Errorf("c=%v: expected p0 %d, got %d", tc.c, tc.p0, span.P0[i])
			}
			if span.P1[i] != span.P0[i]+1 {
				t.Errorf("c=%v: expected p1 = p0+1, got %d/%d", tc.c, span.P0[i], span.P1[i])
			}
			if span.T[i] != tc.tWant {
				t.Errorf("c=%v: expected t %v, got %v", tc.c, tc.tWant, span.T[i])
			}
		}
	}
}

func TestLatticeSpanInvariants(t *testing.T) {
	for k := -2000; k <= 2000; k++ {
		c := float32(k) * 0.0137
		span := GetLatticeSpan4(lanes.Float4{c, -c, c * 3, c + 0.5})
		for i := 0; i < lanes.Width; i++ {
			if span.P1[i] != span.P0[i]+1 {
				t.Fatalf("c=%v lane %d: p1 != p0+1", c, i)
			}
			if span.T[i] < 0 || span.T[i] >= 1 {
				t.Fatalf("c=%v lane %d: t=%v outside [0,1)", c, i, span.T[i])
			}
		}
	}
}

func samplePositions(k int) lanes.Float4x3 {
	f := float32(k)
	return lanes.Float4x3{
		X: lanes.Float4{f * 0.173, -f * 0.311, f * 1.7, f*0.05 - 3},
		Y: lanes.Float4{f * 0.29, f * 0.07, -f * 0.9, 2},
		Z: lanes.Float4{f * 0.41, f * 0.13, f * -2.3, f * 0.011},
	}
}

func TestNoiseRange(t *testing.T) {
	generators := []Kind{KindLattice1D, KindLattice2D, KindLattice3D}
	for _, kind := range generators {
		gen := kind.Generator()
		for seed := int32(0); seed < 4; seed++ {
			hash := xxhash.Seed(seed).Broadcast()
			for k := -500; k < 500; k++ {
				v := gen.GetNoise4(samplePositions(k), hash)
				for i, n := range v {
					if n < -1 || n > 1 || math.IsNaN(float64(n)) {
						t.Fatalf("%s seed %d k %d lane %d: expected [-1,1], got %v", kind, seed, k, i, n)
					}
				}
			}
		}
	}
}

func TestLattice1DAtLatticePoint(t *testing.T) {
	hash := xxhash.Seed(3).Broadcast()
	pos := lanes.Float4x3{X: lanes.Float4{-2, 0, 1, 5}}
	got := Lattice1D{}.GetNoise4(pos, hash)

	for i := 0; i < lanes.Width; i++ {
		corner := hash.Eat(lanes.Splat(int32(pos.X[i]))).Floats01A()[0]
		want := corner*2 - 1
		if got[i] != want {
			t.Errorf("lane %d: expected single-corner value %v, got %v", i, want, got[i])
		}
	}
}

func TestLattice2DAtLatticePoint(t *testing.T) {
	hash := xxhash.Seed(11).Broadcast()
	pos := lanes.Float4x3{
		X: lanes.Float4{0, 1, -4, 9},
		Y: lanes.Float4{0.3, 0.7, 12, -1}, // ignored
		Z: lanes.Float4{0, -1, 6, 2},
	}
	got := Lattice2D{}.GetNoise4(pos, hash)

	for i := 0; i < lanes.Width; i++ {
		x := int32(pos.X[i])
		z := int32(pos.Z[i])
		corner := hash.Eat(lanes.Splat(x)).Eat(lanes.Splat(z)).Floats01A()[0]
		want := corner*2 - 1
		if got[i] != want {
			t.Errorf("lane %d: expected single-corner value %v, got %v", i, want, got[i])
		}
	}
}

func TestLattice2DIgnoresY(t *testing.T) {
	hash := xxhash.Seed(1).Broadcast()
	a := samplePositions(17)
	b := a
	b.Y = lanes.Float4{100, -100, 3.3, 0}
	if (Lattice2D{}).GetNoise4(a, hash) != (Lattice2D{}).GetNoise4(b, hash) {
		t.Error("2D lattice noise should not depend on Y")
	}
}

func TestLattice1DIsContinuous(t *testing.T) {
	hash := xxhash.Seed(5).Broadcast()
	const step = 0.001
	prev := Lattice1D{}.GetNoise4(lanes.Float4x3{}, hash)[0]
	for k := 1; k < 5000; k++ {
		x := float32(k) * step
		v := Lattice1D{}.GetNoise4(lanes.Float4x3{X: lanes.Splat(x)}, hash)[0]
		// Max slope is 2 per unit (full swing across one cell).
		if d := math.Abs(float64(v - prev)); d > 2*step+1e-4 {
			t.Fatalf("x=%v: jump of %v exceeds lattice slope", x, d)
		}
		prev = v
	}
}

func TestNoiseDependsOnSeed(t *testing.T) {
	pos := samplePositions(42)
	a := Lattice2D{}.GetNoise4(pos, xxhash.Seed(0).Broadcast())
	b := Lattice2D{}.GetNoise4(pos, xxhash.Seed(1).Broadcast())
	if a == b {
		t.Error("different seeds should produce different noise")
	}
}

func TestNoiseDeterministic(t *testing.T) {
	hash := xxhash.Seed(9).Broadcast()
	for _, kind := range []Kind{KindLattice1D, KindLattice2D, KindLattice3D} {
		gen := kind.Generator()
		for k := 0; k < 100; k++ {
			p := samplePositions(k)
			if gen.GetNoise4(p, hash) != gen.GetNoise4(p, hash) {
				t.Fatalf("%s: repeated evaluation differs at k=%d", kind, k)
			}
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindLattice1D, KindLattice2D, KindLattice3D} {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k.String(), err)
		}
		if got != k {
			t.Errorf("expected %v, got %v", k, got)
		}
	}
	if _, err := ParseKind("perlin"); err == nil {
		t.Error("expected error for unknown noise kind")
	}
}

func TestUnknownKindHasNoGenerator(t *testing.T) {
	k := KindLattice3D + 1
	if gen := k.Generator(); gen != nil {
		t.Errorf("%v: expected no generator, got %T", k, gen)
	}
}
