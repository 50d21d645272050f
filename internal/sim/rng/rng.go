// Package rng is the explicit randomness source threaded through board
// generation, dice, dev-card draws and theft. Nothing in the engine touches the
// global math/rand state.
package rng

import "math/rand"

// Rand is the subset of *rand.Rand the engine uses.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// New returns a seeded source.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// ForCommand derives the source used while applying command seq of a match.
// Replaying the same commands from the same seed reproduces every draw.
func ForCommand(seed int64, seq uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed + int64(seq)))
}

// Scripted replays fixed values, for tests. Intn returns the next value modulo
// n; Shuffle is the identity. It panics when exhausted.
type Scripted struct {
	Values []int
	pos    int
}

func (s *Scripted) Intn(n int) int {
	if s.pos >= len(s.Values) {
		panic("rng: scripted values exhausted")
	}
	v := s.Values[s.pos]
	s.pos++
	return ((v % n) + n) % n
}

func (s *Scripted) Shuffle(n int, swap func(i, j int)) {}

// Remaining reports how many scripted values are unused.
func (s *Scripted) Remaining() int { return len(s.Values) - s.pos }
