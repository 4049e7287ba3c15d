package mutation

import (
	"maps"
	"slices"
	"strings"
)

// State is one character's mutation state. The held trait list is the source
// of truth; strength is a cache kept in step with it on every add and remove.
// A State is not safe for concurrent use.
type State struct {
	reg *Registry

	held     []TraitID
	index    map[TraitID]struct{}
	strength map[CategoryID]int
}

func NewState(reg *Registry) *State {
	return &State{
		reg:      reg,
		index:    make(map[TraitID]struct{}),
		strength: make(map[CategoryID]int),
	}
}

func (s *State) Registry() *Registry {
	return s.reg
}

func (s *State) Has(id TraitID) bool {
	_, ok := s.index[id]
	return ok
}

// HeldTraits returns held trait ids in acquisition order.
func (s *State) HeldTraits() []TraitID {
	return slices.Clone(s.held)
}

func (s *State) Len() int {
	return len(s.held)
}

// String lists held trait ids in acquisition order, each followed by a space.
func (s *State) String() string {
	var b strings.Builder
	for _, id := range s.held {
		b.WriteString(string(id))
		b.WriteByte(' ')
	}
	return b.String()
}

// OccupiedSlots derives body slot occupancy from the held traits.
func (s *State) OccupiedSlots() map[string]TraitID {
	slots := make(map[string]TraitID)
	for _, id := range s.held {
		t := s.reg.traits[id]
		for _, slot := range t.Slots {
			slots[slot] = id
		}
	}
	return slots
}

// HeldThreshold returns the threshold trait the character has crossed.
func (s *State) HeldThreshold() (TraitID, bool) {
	for _, id := range s.held {
		if s.reg.traits[id].Threshold {
			return id, true
		}
	}
	return "", false
}

func (s *State) add(t *Trait) error {
	s.held = append(s.held, t.ID)
	s.index[t.ID] = struct{}{}
	return s.addStrength(t)
}

func (s *State) remove(t *Trait) error {
	if i := slices.Index(s.held, t.ID); i >= 0 {
		s.held = slices.Delete(s.held, i, i+1)
	}
	delete(s.index, t.ID)
	return s.removeStrength(t)
}

type snapshot struct {
	held     []TraitID
	strength map[CategoryID]int
}

func (s *State) snapshot() snapshot {
	return snapshot{held: slices.Clone(s.held), strength: maps.Clone(s.strength)}
}

func (s *State) restore(snap snapshot) {
	s.held = snap.held
	s.strength = snap.strength
	s.index = make(map[TraitID]struct{}, len(s.held))
	for _, id := range s.held {
		s.index[id] = struct{}{}
	}
}
