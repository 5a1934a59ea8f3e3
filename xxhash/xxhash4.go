package xxhash

import (
	"math/bits"

	"github.com/pthm-cable/lattice/lanes"
)

// SmallXXHash4 runs SmallXXHash on lanes.Width independent lanes.
// There is no byte variant; lattice evaluation only eats coordinates.
type SmallXXHash4 struct {
	accumulator lanes.Uint4
}

// Seed4 starts one hash per lane.
func Seed4(seed lanes.Int4) SmallXXHash4 {
	var h SmallXXHash4
	for i := range seed {
		h.accumulator[i] = uint32(seed[i]) + primeE
	}
	return h
}

// Eat consumes 32 bits per lane.
func (h SmallXXHash4) Eat(data lanes.Int4) SmallXXHash4 {
	for i := range data {
		h.accumulator[i] = bits.RotateLeft32(h.accumulator[i]+uint32(data[i])*primeC, 17) * primeD
	}
	return h
}

// Value finalizes every lane.
func (h SmallXXHash4) Value() lanes.Uint4 {
	var r lanes.Uint4
	for i, a := range h.accumulator {
		r[i] = avalanche(a)
	}
	return r
}

// Lane extracts the scalar hash of lane i.
func (h SmallXXHash4) Lane(i int) SmallXXHash {
	return SmallXXHash{h.accumulator[i]}
}

// BytesA returns bits 0-7 of the finalized hash.
func (h SmallXXHash4) BytesA() lanes.Uint4 { return h.bytes(0) }

// BytesB returns bits 8-15 of the finalized hash.
func (h SmallXXHash4) BytesB() lanes.Uint4 { return h.bytes(8) }

// BytesC returns bits 16-23 of the finalized hash.
func (h SmallXXHash4) BytesC() lanes.Uint4 { return h.bytes(16) }

// BytesD returns bits 24-31 of the finalized hash.
func (h SmallXXHash4) BytesD() lanes.Uint4 { return h.bytes(24) }

// Floats01A maps BytesA onto [0,1].
func (h SmallXXHash4) Floats01A() lanes.Float4 { return floats01(h.BytesA()) }

// Floats01B maps BytesB onto [0,1].
func (h SmallXXHash4) Floats01B() lanes.Float4 { return floats01(h.BytesB()) }

// Floats01C maps BytesC onto [0,1].
func (h SmallXXHash4) Floats01C() lanes.Float4 { return floats01(h.BytesC()) }

// Floats01D maps BytesD onto [0,1].
func (h SmallXXHash4) Floats01D() lanes.Float4 { return floats01(h.BytesD()) }

func (h SmallXXHash4) bytes(shift uint) lanes.Uint4 {
	v := h.Value()
	for i := range v {
		v[i] = (v[i] >> shift) & 255
	}
	return v
}

// floats01 multiplies by the reciprocal rather than dividing; the two
// differ in the last bit for some bytes.
func floats01(b lanes.Uint4) lanes.Float4 {
	return lanes.MulScalar(lanes.ToFloat(b), 1.0/255)
}
