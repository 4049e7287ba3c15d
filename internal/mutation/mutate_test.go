package mutation

import (
	"errors"
	"slices"
	"testing"
)

func TestMutateTowardsAcquiresEligibleTrait(t *testing.T) {
	s := newFixtureState(t)

	ok, err := s.MutateTowards("BASE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || !s.Has("BASE") {
		t.Fatalf("expected BASE to be acquired in one attempt, held: %s", s)
	}
}

func TestMutateTowardsProgressesThroughPrerequisites(t *testing.T) {
	s := newFixtureState(t)

	var steps []TraitID
	for i := 0; i < 5 && !s.Has("TOP"); i++ {
		ok, err := s.MutateTowards("TOP")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatalf("expected progress on step %d, held: %s", i, s)
		}
		held := s.HeldTraits()
		steps = append(steps, held[len(held)-1])
	}

	want := []TraitID{"BASE", "ADV", "TOP"}
	if !slices.Equal(steps, want) {
		t.Fatalf("expected steps %v, got %v", want, steps)
	}
}

func TestMutateTowardsBlockedLeavesStateUntouched(t *testing.T) {
	tests := []struct {
		name   string
		held   []TraitID
		target TraitID
	}{
		{name: "unreachable prerequisite", target: "LOCKED"},
		{name: "threshold", target: "TX"},
		{name: "already held", held: []TraitID{"BASE"}, target: "BASE"},
		{name: "slot conflict", held: []TraitID{"HORN"}, target: "HELM"},
		{name: "gated", target: "POST"},
		{name: "gated with missing prerequisite", target: "POST2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFixtureState(t)
			grant(t, s, tt.held...)
			before := s.String()

			ok, err := s.MutateTowards(tt.target)
			if err != nil {
				t.Fatalf("ineligibility must not be an error, got %v", err)
			}
			if ok {
				t.Fatalf("expected MutateTowards(%s) to be blocked", tt.target)
			}
			if s.String() != before {
				t.Fatalf("state changed from %q to %q", before, s.String())
			}
		})
	}
}

func TestMutateTowardsUnknownTraitIsConsistencyError(t *testing.T) {
	s := newFixtureState(t)
	ok, err := s.MutateTowards("SHINEY")
	if ok {
		t.Fatalf("expected no mutation")
	}
	var cerr *ConsistencyError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected a ConsistencyError, got %v", err)
	}
	if cerr.Subject != "SHINEY" {
		t.Fatalf("unexpected subject %q", cerr.Subject)
	}
}

func TestExclusivityLaterMutationWins(t *testing.T) {
	s := newFixtureState(t)
	grant(t, s, "DULL")
	if got := s.StrengthOf("Y"); got != DefaultMembershipWeight {
		t.Fatalf("expected DULL to feed Y, got %d", got)
	}

	ok, err := s.MutateTowards("SHINY")
	if err != nil || !ok {
		t.Fatalf("expected SHINY to replace DULL, ok=%v err=%v", ok, err)
	}
	if s.Has("DULL") || !s.Has("SHINY") {
		t.Fatalf("expected only SHINY held, got %s", s)
	}
	if got := s.StrengthOf("X"); got != DefaultMembershipWeight {
		t.Fatalf("expected X strength to reflect SHINY only, got %d", got)
	}
	if got := s.StrengthOf("Y"); got != 0 {
		t.Fatalf("expected DULL's Y contribution removed, got %d", got)
	}

	ok, err = s.MutateTowards("DULL")
	if err != nil || !ok {
		t.Fatalf("expected DULL to replace SHINY, ok=%v err=%v", ok, err)
	}
	if got := s.String(); got != "DULL " {
		t.Fatalf("expected DULL to win, got %q", got)
	}
	if err := s.CheckConsistency(); err != nil {
		t.Fatalf("unexpected inconsistency: %v", err)
	}
}

func TestBoundedRetryOnUnreachableTrait(t *testing.T) {
	s := newFixtureState(t)

	attempts := 10
	for attempts > 0 && !s.Has("LOCKED") {
		ok, err := s.MutateTowards("LOCKED")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			attempts--
		}
	}
	if attempts != 0 {
		t.Fatalf("expected every attempt to fail, %d left", attempts)
	}
	if s.Len() != 0 {
		t.Fatalf("expected nothing acquired, got %s", s)
	}
}

func TestSetMutationGrantsThresholdAndPostThreshold(t *testing.T) {
	s := newFixtureState(t)
	grant(t, s, "TX")

	ok, err := s.MutateTowards("POST")
	if err != nil || !ok {
		t.Fatalf("expected POST after crossing TX, ok=%v err=%v", ok, err)
	}
	if id, crossed := s.HeldThreshold(); !crossed || id != "TX" {
		t.Fatalf("expected TX as held threshold, got %q %v", id, crossed)
	}
	if err := s.SetMutation("TX"); err != nil {
		t.Fatalf("granting a held trait should be a no-op: %v", err)
	}
	if got := s.String(); got != "TX POST " {
		t.Fatalf("unexpected held traits %q", got)
	}
}

func TestRemoveAndToggle(t *testing.T) {
	s := newFixtureState(t)
	grant(t, s, "BASE", "HEAVY")

	if err := s.Remove("BASE"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Has("BASE") || s.StrengthOf("X") != 0 {
		t.Fatalf("expected BASE and its strength gone, held %s X=%d", s, s.StrengthOf("X"))
	}
	if err := s.Remove("BASE"); err != nil {
		t.Fatalf("removing an absent trait should be a no-op: %v", err)
	}

	if err := s.ToggleTrait("HEAVY"); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if s.Has("HEAVY") {
		t.Fatalf("expected HEAVY toggled off")
	}
	if err := s.ToggleTrait("HEAVY"); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !s.Has("HEAVY") || s.StrengthOf("Y") != 20 {
		t.Fatalf("expected HEAVY back with weight 20, Y=%d", s.StrengthOf("Y"))
	}
}

func TestRemoveRefusesThresholdStillRequired(t *testing.T) {
	s := newFixtureState(t)
	grant(t, s, "TX")
	if ok, err := s.MutateTowards("POST"); err != nil || !ok {
		t.Fatalf("expected POST after crossing TX, ok=%v err=%v", ok, err)
	}
	before, strengths := s.String(), s.Strengths()

	for _, remove := range []func(TraitID) error{s.Remove, s.ToggleTrait} {
		err := remove("TX")
		if !errors.Is(err, ErrConsistency) {
			t.Fatalf("expected a consistency error, got %v", err)
		}
		if s.String() != before || !slices.Equal(s.Strengths(), strengths) {
			t.Fatalf("state changed from %q to %q", before, s.String())
		}
	}

	if err := s.Remove("POST"); err != nil {
		t.Fatalf("remove POST: %v", err)
	}
	if err := s.Remove("TX"); err != nil {
		t.Fatalf("remove TX once nothing needs it: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected nothing held, got %s", s)
	}
}

func TestFailedBookkeepingRollsBack(t *testing.T) {
	s := newFixtureState(t)
	grant(t, s, "DULL")
	// Corrupt the cache so removing DULL drives Y negative.
	s.strength["Y"] = 0

	ok, err := s.MutateTowards("SHINY")
	if ok {
		t.Fatalf("expected the mutation to fail")
	}
	if !errors.Is(err, ErrConsistency) {
		t.Fatalf("expected a consistency error, got %v", err)
	}
	if got := s.String(); got != "DULL " {
		t.Fatalf("expected rollback to DULL, got %q", got)
	}
	if s.StrengthOf("X") != DefaultMembershipWeight || s.StrengthOf("Y") != 0 {
		t.Fatalf("expected strengths restored, X=%d Y=%d", s.StrengthOf("X"), s.StrengthOf("Y"))
	}
}

func TestCandidates(t *testing.T) {
	s := newFixtureState(t)
	grant(t, s, "HELM")

	got, err := s.Candidates("Y")
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	want := []TraitID{"BASE", "DULL", "HEAVY"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := s.Candidates("Q"); !errors.Is(err, ErrConsistency) {
		t.Fatalf("expected unknown category error, got %v", err)
	}
}
