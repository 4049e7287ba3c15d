package mutation

import (
	"slices"
	"sort"
)

// Registry is the immutable trait and category catalog. Build it once with
// NewRegistry and share the pointer between characters.
type Registry struct {
	traits     map[TraitID]*Trait
	traitOrder []TraitID

	categories map[CategoryID]*Category
	// categoryOrder is ascending by id and doubles as the tie-break order.
	categoryOrder []CategoryID
}

// NewRegistry copies the definitions, derives category members from trait
// order and checks the cross-reference invariants.
func NewRegistry(traits []Trait, categories []Category) (*Registry, error) {
	r := &Registry{
		traits:     make(map[TraitID]*Trait, len(traits)),
		categories: make(map[CategoryID]*Category, len(categories)),
	}

	for i := range categories {
		c := categories[i]
		if c.ID == "" {
			return nil, consistencyf("register category", "", "empty id at index %d", i)
		}
		if _, dup := r.categories[c.ID]; dup {
			return nil, consistencyf("register category", string(c.ID), "duplicate id")
		}
		c.Members = nil
		r.categories[c.ID] = &c
		r.categoryOrder = append(r.categoryOrder, c.ID)
	}
	sort.Slice(r.categoryOrder, func(i, j int) bool {
		return r.categoryOrder[i] < r.categoryOrder[j]
	})

	for i := range traits {
		t := cloneTrait(traits[i])
		if t.ID == "" {
			return nil, consistencyf("register trait", "", "empty id at index %d", i)
		}
		if _, dup := r.traits[t.ID]; dup {
			return nil, consistencyf("register trait", string(t.ID), "duplicate id")
		}
		r.traits[t.ID] = t
		r.traitOrder = append(r.traitOrder, t.ID)
	}

	for _, id := range r.traitOrder {
		t := r.traits[id]
		if err := r.checkTrait(t); err != nil {
			return nil, err
		}
		for _, cat := range t.Categories {
			c := r.categories[cat]
			c.Members = append(c.Members, t.ID)
		}
	}

	for _, id := range r.categoryOrder {
		if err := r.checkCategory(r.categories[id]); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func cloneTrait(t Trait) *Trait {
	t.Prereqs = slices.Clone(t.Prereqs)
	t.ThresholdReqs = slices.Clone(t.ThresholdReqs)
	t.Cancels = slices.Clone(t.Cancels)
	t.Categories = slices.Clone(t.Categories)
	t.Slots = slices.Clone(t.Slots)
	if t.Values != nil {
		values := make(map[string]int, len(t.Values))
		for k, v := range t.Values {
			values[k] = v
		}
		t.Values = values
	}
	return &t
}

func (r *Registry) checkTrait(t *Trait) error {
	const op = "register trait"
	subject := string(t.ID)

	if t.Weight < 0 {
		return consistencyf(op, subject, "negative weight %d", t.Weight)
	}
	for _, ref := range [][]TraitID{t.Prereqs, t.ThresholdReqs, t.Cancels} {
		for _, id := range ref {
			if _, ok := r.traits[id]; !ok {
				return consistencyf(op, subject, "references unknown trait %q%s", id, r.suggestTraitHint(id))
			}
		}
	}
	for _, cat := range t.Categories {
		if _, ok := r.categories[cat]; !ok {
			return consistencyf(op, subject, "references unknown category %q%s", cat, r.suggestCategoryHint(cat))
		}
	}
	for _, p := range t.Prereqs {
		if p == t.ID {
			return consistencyf(op, subject, "requires itself")
		}
		if t.cancels(p) {
			return consistencyf(op, subject, "both requires and cancels %s", p)
		}
		for _, q := range t.Prereqs {
			if r.traits[p].cancels(q) {
				return consistencyf(op, subject, "prerequisite %s cancels prerequisite %s", p, q)
			}
		}
	}
	for _, tr := range t.ThresholdReqs {
		if !r.traits[tr].Threshold {
			return consistencyf(op, subject, "threshold requirement %s is not a threshold trait", tr)
		}
	}
	if t.Threshold && t.PostThreshold() {
		return consistencyf(op, subject, "threshold trait cannot itself require a threshold")
	}
	if t.Threshold {
		for _, cat := range t.Categories {
			if r.categories[cat].ThresholdTrait != t.ID {
				return consistencyf(op, subject, "threshold trait is a member of %s which does not unlock with it", cat)
			}
		}
	}
	return nil
}

func (r *Registry) checkCategory(c *Category) error {
	if !c.HasThreshold() {
		return nil
	}
	t, ok := r.traits[c.ThresholdTrait]
	if !ok {
		return consistencyf("register category", string(c.ID), "unknown threshold trait %q%s",
			c.ThresholdTrait, r.suggestTraitHint(c.ThresholdTrait))
	}
	if !t.Threshold {
		return consistencyf("register category", string(c.ID), "threshold trait %s is not flagged as a threshold", t.ID)
	}
	if !t.InCategory(c.ID) {
		return consistencyf("register category", string(c.ID), "threshold trait %s is not a member", t.ID)
	}
	return nil
}

// Trait returns the definition for id. The result is shared and must not be
// modified.
func (r *Registry) Trait(id TraitID) (*Trait, bool) {
	t, ok := r.traits[id]
	return t, ok
}

// Category returns the definition for id. The result is shared and must not
// be modified.
func (r *Registry) Category(id CategoryID) (*Category, bool) {
	c, ok := r.categories[id]
	return c, ok
}

// Traits returns trait ids in registration order.
func (r *Registry) Traits() []TraitID {
	return slices.Clone(r.traitOrder)
}

// Categories returns category ids in ascending order.
func (r *Registry) Categories() []CategoryID {
	return slices.Clone(r.categoryOrder)
}

func (r *Registry) lookupTrait(op string, id TraitID) (*Trait, error) {
	t, ok := r.traits[id]
	if !ok {
		return nil, consistencyf(op, string(id), "unknown trait%s", r.suggestTraitHint(id))
	}
	return t, nil
}

func (r *Registry) lookupCategory(op string, id CategoryID) (*Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, consistencyf(op, string(id), "unknown category%s", r.suggestCategoryHint(id))
	}
	return c, nil
}
