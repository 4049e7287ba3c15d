package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/appengine-ltd/survive-it/internal/mutation"
)

// normaliseID turns loose user input such as "tail fluffy" or "Claws-Retract"
// into the upper snake case used by definition ids.
func normaliseID(raw string) string {
	raw = strings.TrimSpace(strings.ToUpper(raw))
	var b strings.Builder
	lastSep := false
	for _, r := range raw {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSep = false
			continue
		}
		if r == ' ' || r == '\t' || r == '-' || r == '_' || r == '/' {
			if !lastSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			lastSep = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// resolveTrait finds a trait by id or display name.
func resolveTrait(reg *mutation.Registry, raw string) (*mutation.Trait, error) {
	id := mutation.TraitID(normaliseID(raw))
	if t, ok := reg.Trait(id); ok {
		return t, nil
	}
	for _, tid := range reg.Traits() {
		t, _ := reg.Trait(tid)
		if normaliseID(t.Name) == string(id) {
			return t, nil
		}
	}
	if s, ok := reg.SuggestTrait(id); ok {
		return nil, fmt.Errorf("unknown trait %s (did you mean %s?)", id, s)
	}
	return nil, fmt.Errorf("unknown trait %s", id)
}

// valueKeys lists the value keys carried by any held trait, sorted.
func valueKeys(s *mutation.State) []string {
	keys := map[string]struct{}{}
	reg := s.Registry()
	for _, id := range s.HeldTraits() {
		t, _ := reg.Trait(id)
		for k := range t.Values {
			keys[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(keys))
}
