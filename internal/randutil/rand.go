// Package randutil centralises how random sources are constructed so that
// every shuffle and position draw in the engine can be replayed from a seed.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

// New returns a *rand.Rand seeded deterministically from a single int64.
// rand/v2's PCG wants two 64-bit seeds; we derive both with a splitmix64
// finalizer so nearby seeds still produce unrelated streams.
func New(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(s), splitmix(s^0x6a09e667f3bcc909)))
}

// NewFromTime returns a *rand.Rand seeded from the current wall clock.
func NewFromTime() *rand.Rand {
	return New(time.Now().UnixNano())
}

func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
