package visualization

import (
	"encoding/binary"
	"hash/fnv"
	"testing"

	"github.com/pthm-cable/lattice/jobs"
	"github.com/pthm-cable/lattice/lanes"
	"github.com/pthm-cable/lattice/noise"
	"github.com/pthm-cable/lattice/shapes"
	"github.com/pthm-cable/lattice/space"
)

// checksum hashes the little-endian bits of data with FNV-1a.
func checksum(t *testing.T, data any) uint64 {
	t.Helper()
	h := fnv.New64a()
	if err := binary.Write(h, binary.LittleEndian, data); err != nil {
		t.Fatalf("binary.Write: %v", err)
	}
	return h.Sum64()
}

// The expected sums were computed from an independent float32 model of
// the pipeline that rounds after every operation. Rotations are zero so
// every matrix entry is exact and no trig is involved. A mismatch means
// a product got fused, reassociated or otherwise rounded differently.
func TestRunChecksum(t *testing.T) {
	const (
		wantPositions uint64 = 0x033ff40d35cf6d05
		wantNoise     uint64 = 0x53797283f8a62b45
		wantHashes    uint64 = 0x020939d7eb5dfd3d
	)

	pool := jobs.NewPool(4)
	defer pool.Stop()

	object := space.TRS{
		Translation: lanes.Vec3{X: 0.1, Y: -0.2, Z: 0.3},
		Scale:       lanes.Vec3{X: 1.5, Y: 0.75, Z: 1.25},
	}.Matrix4()
	domain := space.TRS{
		Translation: lanes.Vec3{X: 0.3, Z: -1.2},
		Scale:       lanes.Vec3{X: 5.3, Y: 5.3, Z: 5.3},
	}

	opts := DefaultOptions()
	opts.Resolution = 64
	opts.Shape = shapes.KindSphere

	noiseField := NewNoiseField(7, domain, noise.KindLattice2D)
	s := startSession(t, pool, noiseField, opts)
	runSession(t, s, object)

	if got := checksum(t, s.Positions()); got != wantPositions {
		t.Errorf("positions checksum: expected %#016x, got %#016x", wantPositions, got)
	}
	if got := checksum(t, noiseField.Noise()); got != wantNoise {
		t.Errorf("noise checksum: expected %#016x, got %#016x", wantNoise, got)
	}

	hashField := NewHashField(7, domain)
	hs := startSession(t, pool, hashField, opts)
	runSession(t, hs, object)

	if got := checksum(t, hashField.Hashes()); got != wantHashes {
		t.Errorf("hash checksum: expected %#016x, got %#016x", wantHashes, got)
	}
}
