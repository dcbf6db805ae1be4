// Package rng provides the seeded random source shared by the builders
// that need one: random-projection tree splits and HNSW layer
// assignment. A seed is always explicit so that a build is reproducible
// given the same seed and input order.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
)

// New returns a *math/rand.Rand seeded deterministically from seed. Two
// calls with the same seed produce the same sequence.
func New(seed int64) *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(seed))
}

// NewEntropySeed draws a seed from the OS entropy source, for callers
// that want a fresh, non-reproducible build.
func NewEntropySeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
