package mutation

// MutateTowards moves the character one step toward id. It returns true when
// id was acquired, or when a missing prerequisite of id was acquired instead
// (the first reachable one in declaration order). It returns false, nil when
// nothing could be done; the state is then untouched. Threshold traits are
// never acquired here, see SetMutation.
func (s *State) MutateTowards(id TraitID) (bool, error) {
	t, err := s.reg.lookupTrait("mutate towards", id)
	if err != nil {
		return false, err
	}
	if !s.CanMutateTowards(id) {
		return false, nil
	}

	for _, p := range t.Prereqs {
		if !s.Has(p) && s.CanMutateTowards(p) {
			return s.MutateTowards(p)
		}
	}

	if !s.CanAcquire(id, true, false) {
		return false, nil
	}
	if err := s.apply(t); err != nil {
		return false, err
	}
	return true, nil
}

// SetMutation grants id without eligibility checks. Cancelled traits are
// still removed and strength is still tracked. Granting a held trait is a
// no-op.
func (s *State) SetMutation(id TraitID) error {
	t, err := s.reg.lookupTrait("set mutation", id)
	if err != nil {
		return err
	}
	if s.Has(id) {
		return nil
	}
	return s.apply(t)
}

// Remove takes id away from the character. Removing a trait that is not held
// is a no-op. A threshold that a held trait still depends on is refused with a
// *ConsistencyError and the state is left as it was.
func (s *State) Remove(id TraitID) error {
	t, err := s.reg.lookupTrait("remove", id)
	if err != nil {
		return err
	}
	if !s.Has(id) {
		return nil
	}
	snap := s.snapshot()
	if err := s.remove(t); err != nil {
		s.restore(snap)
		return err
	}
	if dep, ok := s.ungated(); ok {
		s.restore(snap)
		return consistencyf("remove", string(id), "%s still requires it", dep.ID)
	}
	return nil
}

// ToggleTrait removes id when held and grants it otherwise.
func (s *State) ToggleTrait(id TraitID) error {
	if s.Has(id) {
		return s.Remove(id)
	}
	return s.SetMutation(id)
}

// Candidates lists the members of cat that MutateTowards can currently make
// progress on, in member order.
func (s *State) Candidates(cat CategoryID) ([]TraitID, error) {
	c, err := s.reg.lookupCategory("candidates", cat)
	if err != nil {
		return nil, err
	}
	var out []TraitID
	for _, id := range c.Members {
		if s.CanMutateTowards(id) {
			out = append(out, id)
		}
	}
	return out, nil
}

// apply removes whatever t cancels and then adds t. Either every step lands
// or the state is rolled back.
func (s *State) apply(t *Trait) error {
	snap := s.snapshot()
	for _, c := range t.Cancels {
		if !s.Has(c) {
			continue
		}
		if err := s.remove(s.reg.traits[c]); err != nil {
			s.restore(snap)
			return err
		}
	}
	if err := s.add(t); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}
