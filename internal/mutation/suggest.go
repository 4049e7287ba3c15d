package mutation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type suggestion struct {
	id   string
	dist int
}

// SuggestTrait returns the registered trait id closest to id, if any is
// within the edit distance allowed for its length.
func (r *Registry) SuggestTrait(id TraitID) (TraitID, bool) {
	names := make([]string, 0, len(r.traitOrder))
	for _, t := range r.traitOrder {
		names = append(names, string(t))
	}
	best, ok := closest(string(id), names)
	return TraitID(best), ok
}

// SuggestCategory is SuggestTrait for category ids.
func (r *Registry) SuggestCategory(id CategoryID) (CategoryID, bool) {
	names := make([]string, 0, len(r.categoryOrder))
	for _, c := range r.categoryOrder {
		names = append(names, string(c))
	}
	best, ok := closest(string(id), names)
	return CategoryID(best), ok
}

func (r *Registry) suggestTraitHint(id TraitID) string {
	if s, ok := r.SuggestTrait(id); ok {
		return fmt.Sprintf(" (did you mean %s?)", s)
	}
	return ""
}

func (r *Registry) suggestCategoryHint(id CategoryID) string {
	if s, ok := r.SuggestCategory(id); ok {
		return fmt.Sprintf(" (did you mean %s?)", s)
	}
	return ""
}

func closest(in string, candidates []string) (string, bool) {
	in = strings.ToUpper(strings.TrimSpace(in))
	if len(in) < 3 {
		return "", false
	}
	var cands []suggestion
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(in, strings.ToUpper(c))
		if dist > levenshteinLimit(len(c)) {
			continue
		}
		cands = append(cands, suggestion{id: c, dist: dist})
	}
	if len(cands) == 0 {
		return "", false
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].id < cands[j].id
		}
		return cands[i].dist < cands[j].dist
	})
	return cands[0].id, true
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
