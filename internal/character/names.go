package character

import (
	"fmt"
	"math/rand/v2"
)

var names = []string{
	"Rowan", "Avery", "Kai", "Riley", "Quinn",
	"Jordan", "Morgan", "Taylor", "Reese", "Casey",
	"Blake", "Jamie", "Cameron", "Dakota", "Skyler",
	"Phoenix", "Sage", "River", "Emery", "Finley",
	"Hayden", "Charlie", "Alexis", "Micah", "Indigo",
	"Robin", "Shay", "Jules", "Marley", "Kendall",
}

var romanNumerals = []string{
	"", "II", "III", "IV", "V", "VI", "VII", "VIII",
}

// Namer hands out names, suffixing repeats with roman numerals.
type Namer struct {
	rng  *rand.Rand
	used map[string]int
}

func NewNamer(rng *rand.Rand) *Namer {
	return &Namer{rng: rng, used: make(map[string]int)}
}

// Name returns want when given, otherwise a random name. Either way a repeat
// gets a suffix.
func (n *Namer) Name(want string) string {
	base := want
	if base == "" {
		base = names[n.rng.IntN(len(names))]
	}
	count := n.used[base]
	n.used[base]++
	if count > 0 {
		return fmt.Sprintf("%s %s", base, romanSuffix(count))
	}
	return base
}

func romanSuffix(n int) string {
	if n > 0 && n < len(romanNumerals) {
		return romanNumerals[n]
	}
	return fmt.Sprintf("%d", n+1)
}
