// Package mutation implements trait eligibility, the mutator, category
// strength bookkeeping and threshold evaluation for character mutations.
package mutation

type TraitID string

type CategoryID string

func (id TraitID) String() string    { return string(id) }
func (id CategoryID) String() string { return string(id) }

const (
	// DefaultMembershipWeight is the strength a trait adds to each of its
	// categories when it has no authored weight.
	DefaultMembershipWeight = 8

	// ThresholdBonus is added to a category while its threshold trait is held.
	ThresholdBonus = 500
)

// Trait is one mutation definition. Behaviour differences between kinds of
// traits are carried by the fields, not by separate types.
type Trait struct {
	ID     TraitID
	Name   string
	Points int
	// Weight overrides DefaultMembershipWeight when non-zero.
	Weight int

	// Prereqs must all be held.
	Prereqs []TraitID
	// ThresholdReqs is satisfied by holding any one of the listed thresholds.
	ThresholdReqs []TraitID
	Cancels       []TraitID

	Threshold    bool
	StartingOnly bool

	Categories []CategoryID
	Slots      []string
	Values     map[string]int
}

func (t *Trait) PostThreshold() bool {
	return len(t.ThresholdReqs) > 0
}

func (t *Trait) InCategory(cat CategoryID) bool {
	for _, c := range t.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

func (t *Trait) cancels(id TraitID) bool {
	for _, c := range t.Cancels {
		if c == id {
			return true
		}
	}
	return false
}

func (t *Trait) occupies(slot string) bool {
	for _, s := range t.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// StrengthWeight is what holding t adds to each of its categories, before any
// threshold bonus.
func (t *Trait) StrengthWeight() int {
	if t.Weight > 0 {
		return t.Weight
	}
	return DefaultMembershipWeight
}

type Category struct {
	ID   CategoryID
	Name string
	// Members is filled by NewRegistry in trait registration order.
	Members        []TraitID
	ThresholdTrait TraitID
	// WIP categories take part in selection but carry no strength-ratio
	// guarantees.
	WIP bool
}

func (c *Category) HasThreshold() bool {
	return c.ThresholdTrait != ""
}
