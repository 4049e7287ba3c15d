package character

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// SeededRNG returns the deterministic generator used for mutation rolls.
func SeededRNG(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for reproducible simulations.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "mutation"), seedWord(seed, "breach")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// weightedIndex picks an index with probability proportional to its weight.
// It returns -1 when every weight is zero.
func weightedIndex(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	roll := rng.IntN(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i
		}
		roll -= w
	}
	return len(weights) - 1
}
