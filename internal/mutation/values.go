package mutation

// MutationValue sums the named modifier over every held trait.
func (s *State) MutationValue(key string) int {
	total := 0
	for _, id := range s.held {
		total += s.reg.traits[id].Values[key]
	}
	return total
}
