package mutation

import "testing"

func fixtureTraits() []Trait {
	return []Trait{
		{ID: "SCOUT", StartingOnly: true, Values: map[string]int{"overmap_sight": 5}},
		{ID: "BLIND", StartingOnly: true, Values: map[string]int{"overmap_sight": -10}},
		{ID: "AWARE", StartingOnly: true},

		{ID: "BASE", Categories: []CategoryID{"X", "Y"}},
		{ID: "ADV", Categories: []CategoryID{"X"}, Prereqs: []TraitID{"BASE"}},
		{ID: "TOP", Categories: []CategoryID{"X"}, Prereqs: []TraitID{"ADV"}},
		{ID: "SHINY", Categories: []CategoryID{"X"}, Slots: []string{"skin"}, Cancels: []TraitID{"DULL"}},
		{ID: "DULL", Categories: []CategoryID{"X", "Y"}, Slots: []string{"skin"}, Cancels: []TraitID{"SHINY"}},
		{ID: "HORN", Categories: []CategoryID{"Y"}, Slots: []string{"head"}},
		{ID: "HELM", Categories: []CategoryID{"Y"}, Slots: []string{"head"}},
		{ID: "HEAVY", Categories: []CategoryID{"Y"}, Weight: 20},
		{ID: "LOCKED", Categories: []CategoryID{"Y"}, Prereqs: []TraitID{"SCOUT"}},
		{ID: "STRAY", Categories: []CategoryID{"Z"}},

		{ID: "TX", Threshold: true, Categories: []CategoryID{"X"}},
		{ID: "TY", Threshold: true, Categories: []CategoryID{"Y"}},
		{ID: "POST", Categories: []CategoryID{"X"}, ThresholdReqs: []TraitID{"TX"}},
		{ID: "POST2", Categories: []CategoryID{"X"}, Prereqs: []TraitID{"BASE"}, ThresholdReqs: []TraitID{"TX"}},
	}
}

func fixtureCategories() []Category {
	return []Category{
		{ID: "Y", ThresholdTrait: "TY"},
		{ID: "X", ThresholdTrait: "TX"},
		{ID: "Z", WIP: true},
	}
}

func newFixtureState(t *testing.T) *State {
	t.Helper()
	reg, err := NewRegistry(fixtureTraits(), fixtureCategories())
	if err != nil {
		t.Fatalf("fixture registry: %v", err)
	}
	return NewState(reg)
}

func grant(t *testing.T, s *State, ids ...TraitID) {
	t.Helper()
	for _, id := range ids {
		if err := s.SetMutation(id); err != nil {
			t.Fatalf("grant %s: %v", id, err)
		}
	}
}
