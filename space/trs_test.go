package space

import (
	"math"
	"testing"

	"github.com/pthm-cable/lattice/lanes"
)

const eps = 1e-5

func approxVec(a, b lanes.Vec3) bool {
	return math.Abs(float64(a.X-b.X)) < eps &&
		math.Abs(float64(a.Y-b.Y)) < eps &&
		math.Abs(float64(a.Z-b.Z)) < eps
}

func TestIdentity(t *testing.T) {
	if Identity().Matrix4() != IdentityMatrix() {
		t.Errorf("identity TRS should compile to the identity matrix, got %v", Identity().Matrix4())
	}
}

func TestTransformPoint(t *testing.T) {
	testCases := []struct {
		name string
		trs  TRS
		in   lanes.Vec3
		want lanes.Vec3
	}{
		{
			name: "translate",
			trs:  TRS{Translation: lanes.Vec3{X: 1, Y: 2, Z: 3}, Scale: lanes.Vec3{X: 1, Y: 1, Z: 1}},
			in:   lanes.Vec3{X: 1},
			want: lanes.Vec3{X: 2, Y: 2, Z: 3},
		},
		{
			name: "scale",
			trs:  TRS{Scale: lanes.Vec3{X: 2, Y: 3, Z: 4}},
			in:   lanes.Vec3{X: 1, Y: 1, Z: 1},
			want: lanes.Vec3{X: 2, Y: 3, Z: 4},
		},
		{
			name: "rotate y 90",
			trs:  TRS{Rotation: lanes.Vec3{Y: 90}, Scale: lanes.Vec3{X: 1, Y: 1, Z: 1}},
			in:   lanes.Vec3{X: 1},
			want: lanes.Vec3{Z: -1},
		},
		{
			// Z is applied before X: (1,0,0) -> (0,1,0) -> (0,0,1).
			name: "zxy order",
			trs:  TRS{Rotation: lanes.Vec3{X: 90, Z: 90}, Scale: lanes.Vec3{X: 1, Y: 1, Z: 1}},
			in:   lanes.Vec3{X: 1},
			want: lanes.Vec3{Z: 1},
		},
		{
			// Scale happens before translation.
			name: "scale then translate",
			trs:  TRS{Translation: lanes.Vec3{Y: 1}, Scale: lanes.Vec3{X: 8, Y: 8, Z: 8}},
			in:   lanes.Vec3{X: 0.5, Y: 0.5},
			want: lanes.Vec3{X: 4, Y: 5},
		},
	}

	for _, tc := range testCases {
		got := tc.trs.Matrix().TransformPoint(tc.in)
		if !approxVec(got, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestTransformVectorsMatchesPoint(t *testing.T) {
	m := TRS{
		Translation: lanes.Vec3{X: 0.5, Y: -1, Z: 2},
		Rotation:    lanes.Vec3{X: 30, Y: 45, Z: 60},
		Scale:       lanes.Vec3{X: 1, Y: 2, Z: 0.5},
	}.Matrix()

	pts := []lanes.Vec3{{X: 1}, {Y: 1}, {Z: 1}, {X: 0.3, Y: -0.7, Z: 2}}
	block := lanes.Load(pts)

	pos := m.TransformVectors(block, 1)
	dir := m.TransformVectors(block, 0)
	for i, p := range pts {
		if !approxVec(pos.At(i), m.TransformPoint(p)) {
			t.Errorf("lane %d: position mismatch %v vs %v", i, pos.At(i), m.TransformPoint(p))
		}
		moved := m.TransformPoint(p).Sub(m.TransformPoint(lanes.Vec3{}))
		if !approxVec(dir.At(i), moved) {
			t.Errorf("lane %d: direction should ignore translation, got %v want %v", i, dir.At(i), moved)
		}
	}
}

func TestNormalMatrixKeepsPerpendicular(t *testing.T) {
	trs := TRS{
		Rotation: lanes.Vec3{X: 10, Y: 70, Z: -25},
		Scale:    lanes.Vec3{X: 2, Y: 0.5, Z: 3},
	}
	m := trs.Matrix4()
	nm, err := m.NormalMatrix()
	if err != nil {
		t.Fatalf("NormalMatrix: %v", err)
	}

	tangent := lanes.Vec3{X: 1, Y: -1}
	normal := lanes.Vec3{X: 1, Y: 1}

	tt := m.Get3x4().TransformVectors(lanes.Load([]lanes.Vec3{tangent, tangent, tangent, tangent}), 0).At(0)
	nn := nm.Get3x4().TransformVectors(lanes.Load([]lanes.Vec3{normal, normal, normal, normal}), 0).At(0)

	if d := tt.Dot(nn); math.Abs(float64(d)) > 1e-4 {
		t.Errorf("expected transformed normal perpendicular to tangent, dot=%v", d)
	}
}

func TestNormalMatrixSingular(t *testing.T) {
	trs := TRS{Scale: lanes.Vec3{X: 1, Y: 0, Z: 1}}
	if _, err := trs.Matrix4().NormalMatrix(); err == nil {
		t.Error("expected error for zero scale")
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := TRS{
		Translation: lanes.Vec3{X: 3, Y: -2, Z: 1},
		Rotation:    lanes.Vec3{X: 15, Y: -40, Z: 80},
		Scale:       lanes.Vec3{X: 1.5, Y: 2, Z: 0.25},
	}.Matrix4()
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	id := Mul(m, inv)
	want := IdentityMatrix()
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if math.Abs(id[r][c]-want[r][c]) > 1e-9 {
				t.Fatalf("m * inv(m) [%d][%d] = %v", r, c, id[r][c])
			}
		}
	}
}

func TestMaxAbsScale(t *testing.T) {
	trs := TRS{Scale: lanes.Vec3{X: 1, Y: -3, Z: 2}}
	if got := trs.MaxAbsScale(); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
}
