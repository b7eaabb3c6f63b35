// Package rng provides the random sources the engines draw from. Every engine takes a
// Source so games, seasons and progression runs can be replayed from a seed.
package rng

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
)

// Source is the random stream every engine draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
	NormFloat64() float64
}

// New returns a PCG source; the same seed replays the same stream
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Ambient returns a source seeded from the runtime's entropy
func Ambient() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Stream generates bytes with HMAC-SHA256(key, "label:nonce:round") and turns them into
// floats, so a season key plus a game number names one reproducible stream
type Stream struct {
	key          string
	label        string
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewStream creates a stream for the given key, label and nonce
func NewStream(key, label string, nonce uint64) *Stream {
	s := &Stream{
		key:   key,
		label: label,
		nonce: nonce,
	}
	s.generateRound()
	return s
}

func (s *Stream) generateRound() {
	h := hmac.New(sha256.New, []byte(s.key))
	fmt.Fprintf(h, "%s:%d:%d", s.label, s.nonce, s.currentRound)
	copy(s.buffer[:], h.Sum(nil))
}

// Next returns the next byte from the stream
func (s *Stream) Next() byte {
	if s.currentPos >= len(s.buffer) {
		s.currentRound++
		s.currentPos = 0
		s.generateRound()
	}
	b := s.buffer[s.currentPos]
	s.currentPos++
	return b
}

// Float64 returns a float in [0, 1) built from exactly 4 bytes
func (s *Stream) Float64() float64 {
	result := 0.0
	for i := 0; i < 4; i++ {
		result += float64(s.Next()) / math.Pow(256, float64(i+1))
	}
	return result
}

// IntN returns an int in [0, n); n <= 0 yields 0
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// NormFloat64 returns a standard normal deviate (Box-Muller)
func (s *Stream) NormFloat64() float64 {
	u1 := s.Float64()
	for u1 == 0 {
		u1 = s.Float64()
	}
	u2 := s.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Uint64 returns 8 bytes of the stream as a big-endian integer
func (s *Stream) Uint64() uint64 {
	var b [8]byte
	for i := range b {
		b[i] = s.Next()
	}
	return binary.BigEndian.Uint64(b[:])
}

// SeedFor derives a per-game seed from a season key and game number
func SeedFor(key string, nonce uint64) uint64 {
	return NewStream(key, "game", nonce).Uint64()
}

// Uniform returns a float in [lo, hi)
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// IntRange returns an int in [lo, hi]
func IntRange(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo+1)
}

// Chance returns true with probability p
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	return src.Float64() < p
}

// WeightedIndex picks an index with probability proportional to its weight. Negative
// weights count as zero; it returns -1 when nothing can be picked.
func WeightedIndex(src Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	target := src.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if target < w {
			return i
		}
		target -= w
	}
	return last
}
