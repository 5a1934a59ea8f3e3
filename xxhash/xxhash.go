// Package xxhash implements SmallXXHash, a single-round reduction of
// XXHash32 used to derive structural hashes and lattice values from
// integer coordinates. Every value is immutable; eating data returns a
// new state, so hashes can be built out of order from any goroutine.
package xxhash

import (
	"math/bits"

	"github.com/pthm-cable/lattice/lanes"
)

// XXHash32 primes.
const (
	primeA uint32 = 0b10011110001101110111100110110001
	primeB uint32 = 0b10000101111010111100101001110111
	primeC uint32 = 0b11000010101100101010111000111101
	primeD uint32 = 0b00100111110101001110101100101111
	primeE uint32 = 0b00010110010101100110011110110001
)

// SmallXXHash is a scalar hash accumulator.
type SmallXXHash struct {
	accumulator uint32
}

// Seed starts a hash from seed.
func Seed(seed int32) SmallXXHash {
	return SmallXXHash{uint32(seed) + primeE}
}

// Eat consumes 32 bits of data.
func (h SmallXXHash) Eat(data int32) SmallXXHash {
	return SmallXXHash{bits.RotateLeft32(h.accumulator+uint32(data)*primeC, 17) * primeD}
}

// EatByte consumes a single byte.
func (h SmallXXHash) EatByte(data uint8) SmallXXHash {
	return SmallXXHash{bits.RotateLeft32(h.accumulator+uint32(data)*primeE, 11) * primeA}
}

// Accumulator returns the raw, unfinalized state.
func (h SmallXXHash) Accumulator() uint32 { return h.accumulator }

// Value finalizes the hash with the avalanche mix.
func (h SmallXXHash) Value() uint32 {
	return avalanche(h.accumulator)
}

// Broadcast copies the scalar state into every lane.
func (h SmallXXHash) Broadcast() SmallXXHash4 {
	return SmallXXHash4{accumulator: lanes.Splat(h.accumulator)}
}

func avalanche(x uint32) uint32 {
	x ^= x >> 15
	x *= primeB
	x ^= x >> 13
	x *= primeC
	x ^= x >> 16
	return x
}
