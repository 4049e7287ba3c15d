package mutation

// CanAcquire reports whether id may be gained right now. allowPostThreshold
// admits threshold traits and traits gated behind one; allowTestMode admits
// starting-only traits. It never changes the state.
func (s *State) CanAcquire(id TraitID, allowPostThreshold, allowTestMode bool) bool {
	t, ok := s.reg.traits[id]
	if !ok || s.Has(id) {
		return false
	}
	if t.StartingOnly && !allowTestMode {
		return false
	}
	if (t.Threshold || t.PostThreshold()) && !allowPostThreshold {
		return false
	}
	if t.PostThreshold() && !s.holdsAny(t.ThresholdReqs) {
		return false
	}
	for _, p := range t.Prereqs {
		if !s.Has(p) {
			return false
		}
	}
	if t.Threshold {
		if _, crossed := s.HeldThreshold(); crossed {
			return false
		}
	}
	return !s.slotBlocked(t)
}

// CanMutateTowards reports whether MutateTowards(id) can make progress: the
// trait is not held and is either acquirable now or every missing ordinary
// prerequisite is itself reachable. Thresholds are never mutation targets.
func (s *State) CanMutateTowards(id TraitID) bool {
	return s.canProgress(id, make(map[TraitID]bool))
}

func (s *State) canProgress(id TraitID, visiting map[TraitID]bool) bool {
	if visiting[id] {
		return false
	}
	visiting[id] = true
	defer delete(visiting, id)

	t, ok := s.reg.traits[id]
	if !ok || s.Has(id) || t.Threshold || t.StartingOnly {
		return false
	}
	if t.PostThreshold() && !s.holdsAny(t.ThresholdReqs) {
		return false
	}
	if s.slotBlocked(t) {
		return false
	}
	for _, p := range t.Prereqs {
		if !s.Has(p) && !s.canProgress(p, visiting) {
			return false
		}
	}
	return true
}

// slotBlocked reports whether a slot t occupies is held by a trait t does not
// cancel.
func (s *State) slotBlocked(t *Trait) bool {
	if len(t.Slots) == 0 {
		return false
	}
	for _, id := range s.held {
		if t.cancels(id) {
			continue
		}
		other := s.reg.traits[id]
		for _, slot := range t.Slots {
			if other.occupies(slot) {
				return true
			}
		}
	}
	return false
}

func (s *State) holdsAny(ids []TraitID) bool {
	for _, id := range ids {
		if s.Has(id) {
			return true
		}
	}
	return false
}
