// Package character drives simulated characters through random mutation and
// threshold breaches on top of the mutation engine.
package character

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"

	"github.com/appengine-ltd/survive-it/internal/mutation"
)

// BreachReadyStrength is the category strength needed before a breach roll
// is made at all.
const BreachReadyStrength = 8 * mutation.DefaultMembershipWeight

type EventKind string

const (
	EventGained EventKind = "gained"
	EventLost   EventKind = "lost"
	EventBreach EventKind = "breach"
)

type Event struct {
	Seq      int                 `json:"seq"`
	Kind     EventKind           `json:"kind"`
	Trait    mutation.TraitID    `json:"trait"`
	Category mutation.CategoryID `json:"category,omitempty"`
}

type Character struct {
	ID        uuid.UUID
	Name      string
	Seed      int64
	Mutations *mutation.State
	Journal   []Event
}

func New(reg *mutation.Registry, name string, seed int64) *Character {
	return &Character{
		ID:        uuid.New(),
		Name:      name,
		Seed:      seed,
		Mutations: mutation.NewState(reg),
	}
}

// Restore rebuilds a character from its held traits in acquisition order.
// Strength is recomputed by replaying the grants.
func Restore(reg *mutation.Registry, id uuid.UUID, name string, seed int64, traits []mutation.TraitID, journal []Event) (*Character, error) {
	c := &Character{
		ID:        id,
		Name:      name,
		Seed:      seed,
		Mutations: mutation.NewState(reg),
		Journal:   journal,
	}
	for _, t := range traits {
		if err := c.Mutations.SetMutation(t); err != nil {
			return nil, fmt.Errorf("restore %s: %w", id, err)
		}
	}
	if !slices.Equal(c.Mutations.HeldTraits(), traits) {
		return nil, fmt.Errorf("restore %s: replay produced %q", id, c.Mutations)
	}
	if err := c.Mutations.CheckConsistency(); err != nil {
		return nil, fmt.Errorf("restore %s: %w", id, err)
	}
	return c, nil
}

// Mutate picks a category weighted by its current strength, then one of its
// reachable traits weighted by strength weight, and mutates towards it. It
// returns the trait actually gained, which may be a prerequisite of the
// pick, or "" when no category has anything left to offer.
func (c *Character) Mutate(rng *rand.Rand) (mutation.TraitID, error) {
	s := c.Mutations
	reg := s.Registry()

	var (
		cats       []mutation.CategoryID
		candidates [][]mutation.TraitID
		weights    []int
	)
	for _, id := range reg.Categories() {
		cands, err := s.Candidates(id)
		if err != nil {
			return "", err
		}
		if len(cands) == 0 {
			continue
		}
		cats = append(cats, id)
		candidates = append(candidates, cands)
		weights = append(weights, s.StrengthOf(id)+mutation.DefaultMembershipWeight)
	}
	ci := weightedIndex(rng, weights)
	if ci < 0 {
		return "", nil
	}

	cands := candidates[ci]
	traitWeights := make([]int, len(cands))
	for i, id := range cands {
		t, _ := reg.Trait(id)
		traitWeights[i] = t.StrengthWeight()
	}
	target := cands[weightedIndex(rng, traitWeights)]

	before := s.HeldTraits()
	ok, err := s.MutateTowards(target)
	if err != nil {
		return "", fmt.Errorf("mutate %s towards %s: %w", c.Name, target, err)
	}
	if !ok {
		return "", nil
	}
	return c.record(before, cats[ci]), nil
}

// TryBreach rolls against the breach chance of the highest category once it
// is strong enough, and crosses its threshold on success.
func (c *Character) TryBreach(rng *rand.Rand) (bool, error) {
	s := c.Mutations
	if _, crossed := s.HeldThreshold(); crossed {
		return false, nil
	}
	highest := s.HighestCategory()
	if highest == "" || s.StrengthOf(highest) < BreachReadyStrength {
		return false, nil
	}
	cat, _ := s.Registry().Category(highest)
	if !cat.HasThreshold() {
		return false, nil
	}

	chance, err := s.BreachChance(highest)
	if err != nil {
		return false, err
	}
	if rng.Float64() >= chance {
		return false, nil
	}

	before := s.HeldTraits()
	if err := s.SetMutation(cat.ThresholdTrait); err != nil {
		return false, fmt.Errorf("breach %s: %w", highest, err)
	}
	c.record(before, highest)
	c.Journal = append(c.Journal, Event{
		Seq:      len(c.Journal) + 1,
		Kind:     EventBreach,
		Trait:    cat.ThresholdTrait,
		Category: highest,
	})
	return true, nil
}

// record journals the difference between before and the current held set and
// returns the last trait gained. Each change is filed under rolled when the
// trait belongs to it, otherwise under the trait's first category.
func (c *Character) record(before []mutation.TraitID, rolled mutation.CategoryID) mutation.TraitID {
	after := c.Mutations.HeldTraits()
	for _, id := range before {
		if !slices.Contains(after, id) {
			c.Journal = append(c.Journal, Event{Seq: len(c.Journal) + 1, Kind: EventLost, Trait: id, Category: c.categoryFor(id, rolled)})
		}
	}
	var gained mutation.TraitID
	for _, id := range after {
		if !slices.Contains(before, id) {
			c.Journal = append(c.Journal, Event{Seq: len(c.Journal) + 1, Kind: EventGained, Trait: id, Category: c.categoryFor(id, rolled)})
			gained = id
		}
	}
	return gained
}

func (c *Character) categoryFor(id mutation.TraitID, rolled mutation.CategoryID) mutation.CategoryID {
	t, ok := c.Mutations.Registry().Trait(id)
	if !ok || t.InCategory(rolled) {
		return rolled
	}
	if len(t.Categories) > 0 {
		return t.Categories[0]
	}
	return ""
}
