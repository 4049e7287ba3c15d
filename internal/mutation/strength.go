package mutation

import (
	"fmt"
	"strings"
)

type CategoryStrength struct {
	Category CategoryID
	Strength int
}

// weight is what t contributes to cat while held.
func (s *State) weight(t *Trait, cat CategoryID) int {
	w := t.StrengthWeight()
	if c := s.reg.categories[cat]; c != nil && c.ThresholdTrait == t.ID {
		w += ThresholdBonus
	}
	return w
}

func (s *State) addStrength(t *Trait) error {
	for _, cat := range t.Categories {
		if _, ok := s.reg.categories[cat]; !ok {
			return consistencyf("add strength", string(t.ID), "unknown category %q", cat)
		}
		s.strength[cat] += s.weight(t, cat)
	}
	return nil
}

// removeStrength clamps at zero; going negative means the cache and the held
// set disagreed before the call.
func (s *State) removeStrength(t *Trait) error {
	var err error
	for _, cat := range t.Categories {
		if _, ok := s.reg.categories[cat]; !ok {
			return consistencyf("remove strength", string(t.ID), "unknown category %q", cat)
		}
		next := s.strength[cat] - s.weight(t, cat)
		if next < 0 {
			if err == nil {
				err = consistencyf("remove strength", string(t.ID), "strength of %s would drop to %d", cat, next)
			}
			next = 0
		}
		s.strength[cat] = next
	}
	return err
}

// StrengthOf returns the accumulated strength of cat, zero when unknown.
func (s *State) StrengthOf(cat CategoryID) int {
	return s.strength[cat]
}

func (s *State) TotalStrength() int {
	total := 0
	for _, v := range s.strength {
		total += v
	}
	return total
}

// Strengths returns every registered category with its strength, ordered by
// category id.
func (s *State) Strengths() []CategoryStrength {
	out := make([]CategoryStrength, 0, len(s.reg.categoryOrder))
	for _, cat := range s.reg.categoryOrder {
		out = append(out, CategoryStrength{Category: cat, Strength: s.strength[cat]})
	}
	return out
}

func (s *State) recomputeStrength() map[CategoryID]int {
	want := make(map[CategoryID]int)
	for _, id := range s.held {
		t := s.reg.traits[id]
		for _, cat := range t.Categories {
			want[cat] += s.weight(t, cat)
		}
	}
	return want
}

// CheckConsistency recomputes strength from the held traits and verifies the
// threshold gating of everything held.
func (s *State) CheckConsistency() error {
	want := s.recomputeStrength()
	var diffs []string
	for _, cat := range s.reg.categoryOrder {
		if s.strength[cat] != want[cat] {
			diffs = append(diffs, fmt.Sprintf("%s=%d want %d", cat, s.strength[cat], want[cat]))
		}
	}
	if len(diffs) > 0 {
		return consistencyf("check strength", "", "%s", strings.Join(diffs, ", "))
	}

	thresholds := 0
	for _, id := range s.held {
		if s.reg.traits[id].Threshold {
			thresholds++
		}
	}
	if t, ok := s.ungated(); ok {
		return consistencyf("check gating", string(t.ID), "held without any of its thresholds %v", t.ThresholdReqs)
	}
	if thresholds > 1 {
		return consistencyf("check gating", "", "%d threshold traits held", thresholds)
	}
	return nil
}

// ungated returns the first held trait none of whose thresholds is held.
func (s *State) ungated() (*Trait, bool) {
	for _, id := range s.held {
		t := s.reg.traits[id]
		if t.PostThreshold() && !s.holdsAny(t.ThresholdReqs) {
			return t, true
		}
	}
	return nil, false
}
