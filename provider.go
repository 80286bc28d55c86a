package rbn

import (
	"fmt"
	"math/rand/v2"
)

// RandProvider supplies the two random primitives the engine needs.
// Construction and RandomizeState draw exclusively from the provider they
// were given, so a deterministic provider yields a reproducible network.
type RandProvider interface {
	// RandomBool returns true with probability p. Values of p <= 0 always
	// return false and values >= 1 always return true.
	RandomBool(p float64) bool

	// RandomDistinct returns exactly k pairwise-distinct indices from [0, n).
	// Callers must ensure 0 <= k <= n.
	RandomDistinct(k, n int) []int
}

// Source is the production RandProvider backed by a PCG generator.
// A Source is not safe for concurrent use.
type Source struct {
	r *rand.Rand
}

// NewSource returns a Source seeded with seed. Equal seeds produce equal
// draw sequences.
func NewSource(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewEntropySource returns a Source seeded once from the runtime entropy pool.
func NewEntropySource() *Source {
	return &Source{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

func (s *Source) RandomBool(p float64) bool {
	return s.r.Float64() < p
}

// RandomDistinct samples with Floyd's algorithm, so it costs k draws
// regardless of n.
func (s *Source) RandomDistinct(k, n int) []int {
	if k < 0 || n < 0 || k > n {
		panic(fmt.Sprintf("rbn: RandomDistinct(%d, %d): need 0 <= k <= n", k, n))
	}
	out := make([]int, 0, k)
	seen := make(map[int]struct{}, k)
	for j := n - k; j < n; j++ {
		v := s.r.IntN(j + 1)
		if _, dup := seen[v]; dup {
			v = j
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
