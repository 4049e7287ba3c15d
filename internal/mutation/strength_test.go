package mutation

import (
	"errors"
	"testing"
)

func TestStrengthTracksHeldTraits(t *testing.T) {
	tests := []struct {
		name  string
		held  []TraitID
		wantX int
		wantY int
		wantZ int
	}{
		{name: "empty"},
		{name: "shared trait feeds both", held: []TraitID{"BASE"}, wantX: 8, wantY: 8},
		{name: "authored weight", held: []TraitID{"HEAVY"}, wantY: 20},
		{name: "threshold bonus only in its own category", held: []TraitID{"BASE", "TX"}, wantX: 8 + 8 + ThresholdBonus, wantY: 8},
		{name: "wip category still accumulates", held: []TraitID{"STRAY"}, wantZ: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFixtureState(t)
			grant(t, s, tt.held...)
			if s.StrengthOf("X") != tt.wantX || s.StrengthOf("Y") != tt.wantY || s.StrengthOf("Z") != tt.wantZ {
				t.Fatalf("got X=%d Y=%d Z=%d, want X=%d Y=%d Z=%d",
					s.StrengthOf("X"), s.StrengthOf("Y"), s.StrengthOf("Z"), tt.wantX, tt.wantY, tt.wantZ)
			}
			if got, want := s.TotalStrength(), tt.wantX+tt.wantY+tt.wantZ; got != want {
				t.Fatalf("total = %d, want %d", got, want)
			}
			if err := s.CheckConsistency(); err != nil {
				t.Fatalf("unexpected inconsistency: %v", err)
			}
		})
	}
}

func TestStrengthReturnsToZeroAfterRemovals(t *testing.T) {
	s := newFixtureState(t)
	grant(t, s, "BASE", "TX", "POST", "HEAVY")
	for _, id := range s.HeldTraits() {
		if err := s.Remove(id); err != nil {
			t.Fatalf("remove %s: %v", id, err)
		}
	}
	if s.TotalStrength() != 0 {
		t.Fatalf("expected zero strength, got %v", s.Strengths())
	}
}

func TestRemoveClampsAndReportsNegativeStrength(t *testing.T) {
	s := newFixtureState(t)
	grant(t, s, "HEAVY")
	s.strength["Y"] = 5

	err := s.removeStrength(s.reg.traits["HEAVY"])
	if !errors.Is(err, ErrConsistency) {
		t.Fatalf("expected consistency error, got %v", err)
	}
	if s.StrengthOf("Y") != 0 {
		t.Fatalf("expected clamp at zero, got %d", s.StrengthOf("Y"))
	}
}

func TestCheckConsistency(t *testing.T) {
	t.Run("tampered cache", func(t *testing.T) {
		s := newFixtureState(t)
		grant(t, s, "BASE")
		s.strength["X"] += 3
		if err := s.CheckConsistency(); !errors.Is(err, ErrConsistency) {
			t.Fatalf("expected a strength mismatch, got %v", err)
		}
	})

	t.Run("post-threshold trait without its threshold", func(t *testing.T) {
		s := newFixtureState(t)
		grant(t, s, "POST")
		if err := s.CheckConsistency(); !errors.Is(err, ErrConsistency) {
			t.Fatalf("expected a gating violation, got %v", err)
		}
	})

	t.Run("two thresholds", func(t *testing.T) {
		s := newFixtureState(t)
		grant(t, s, "TX", "TY")
		if err := s.CheckConsistency(); !errors.Is(err, ErrConsistency) {
			t.Fatalf("expected a gating violation, got %v", err)
		}
	})
}
