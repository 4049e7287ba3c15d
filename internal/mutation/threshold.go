package mutation

// HighestCategory returns the category with the most strength. Ties go to the
// lowest category id. It returns "" while no category has any strength.
func (s *State) HighestCategory() CategoryID {
	var (
		best     CategoryID
		bestSeen int
	)
	for _, cat := range s.reg.categoryOrder {
		if v := s.strength[cat]; v > bestSeen {
			best, bestSeen = cat, v
		}
	}
	return best
}

// BreachChance is the share of total strength held by cat.
func (s *State) BreachChance(cat CategoryID) (float64, error) {
	if _, err := s.reg.lookupCategory("breach chance", cat); err != nil {
		return 0, err
	}
	total := s.TotalStrength()
	if total == 0 {
		return 0, ErrZeroStrength
	}
	return float64(s.strength[cat]) / float64(total), nil
}
