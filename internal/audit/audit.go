// Package audit grants whole mutation categories to throwaway characters and
// checks that category strength behaves: the granted category must come out
// on top and its breach chance must stay inside the designed band.
package audit

import (
	"errors"
	"fmt"

	"github.com/appengine-ltd/survive-it/internal/mutation"
)

const (
	// DefaultRetryBudget is how many blocked attempts a single trait may
	// take before the grant is treated as broken.
	DefaultRetryBudget = 10

	BreachChanceMin = 0.2
	BreachChanceMax = 0.4
)

var (
	ErrRetryBudgetExhausted = errors.New("retry budget exhausted")
	ErrNoProgress           = errors.New("mutation keeps progressing without reaching its target")
)

// AcquireWithRetry calls MutateTowards until id is held. Blocked attempts
// count against budget; progress steps are capped by the size of the
// registry. It returns the number of calls made.
func AcquireWithRetry(s *mutation.State, id mutation.TraitID, budget int) (int, error) {
	failures, calls := 0, 0
	maxCalls := budget + len(s.Registry().Traits())
	for !s.Has(id) {
		if failures >= budget {
			return calls, fmt.Errorf("acquire %s after %d attempts (held: %s): %w", id, calls, s, ErrRetryBudgetExhausted)
		}
		if calls >= maxCalls {
			return calls, fmt.Errorf("acquire %s (held: %s): %w", id, s, ErrNoProgress)
		}
		ok, err := s.MutateTowards(id)
		calls++
		if err != nil {
			return calls, fmt.Errorf("acquire %s: %w", id, err)
		}
		if !ok {
			failures++
		}
	}
	return calls, nil
}

// GrantCategory gives s every trait of cat it can reach, in member order.
// Without includePostThreshold only traits that neither are a threshold nor
// require one are attempted; with it the threshold trait is set first and
// everything else follows. Traits that become unreachable along the way, for
// instance because a later pick cancelled them or took their slot, are
// skipped, so the last of a mutually exclusive group wins.
func GrantCategory(s *mutation.State, cat mutation.CategoryID, includePostThreshold bool, budget int) error {
	reg := s.Registry()
	c, ok := reg.Category(cat)
	if !ok {
		return &mutation.ConsistencyError{Op: "grant category", Subject: string(cat), Detail: "unknown category"}
	}

	if includePostThreshold && c.HasThreshold() {
		if err := s.SetMutation(c.ThresholdTrait); err != nil {
			return fmt.Errorf("grant %s threshold: %w", cat, err)
		}
	}

	maxCalls := budget + len(reg.Traits())
	for _, id := range c.Members {
		t, _ := reg.Trait(id)
		if !includePostThreshold && (t.Threshold || t.PostThreshold()) {
			continue
		}

		failures, calls := 0, 0
		for failures < budget && s.CanMutateTowards(id) {
			if calls >= maxCalls {
				return fmt.Errorf("grant %s member %s (held: %s): %w", cat, id, s, ErrNoProgress)
			}
			ok, err := s.MutateTowards(id)
			calls++
			if err != nil {
				return fmt.Errorf("grant %s member %s: %w", cat, id, err)
			}
			if !ok {
				failures++
			}
		}
		if failures >= budget {
			return fmt.Errorf("grant %s member %s (held: %s): %w", cat, id, s, ErrRetryBudgetExhausted)
		}
	}

	if err := s.CheckConsistency(); err != nil {
		return fmt.Errorf("grant %s: %w", cat, err)
	}
	return nil
}
