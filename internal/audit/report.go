package audit

import (
	"fmt"

	"github.com/appengine-ltd/survive-it/internal/mutation"
)

type CategoryReport struct {
	Category mutation.CategoryID

	PreThresholdHighest mutation.CategoryID
	PreThresholdTraits  string
	Strength            int
	TotalStrength       int
	BreachChance        float64

	PostThresholdHighest mutation.CategoryID
	PostThresholdTraits  string

	Problems []string
}

func (r CategoryReport) OK() bool {
	return len(r.Problems) == 0
}

// Category audits a single category on two fresh characters: one given
// every pre-threshold trait and one given the threshold and everything else.
func Category(reg *mutation.Registry, cat mutation.CategoryID) (CategoryReport, error) {
	report := CategoryReport{Category: cat}

	pre := mutation.NewState(reg)
	if err := GrantCategory(pre, cat, false, DefaultRetryBudget); err != nil {
		return report, err
	}
	report.PreThresholdHighest = pre.HighestCategory()
	report.PreThresholdTraits = pre.String()
	report.Strength = pre.StrengthOf(cat)
	report.TotalStrength = pre.TotalStrength()

	chance, err := pre.BreachChance(cat)
	if err != nil {
		return report, fmt.Errorf("audit %s: %w", cat, err)
	}
	report.BreachChance = chance

	post := mutation.NewState(reg)
	if err := GrantCategory(post, cat, true, DefaultRetryBudget); err != nil {
		return report, err
	}
	report.PostThresholdHighest = post.HighestCategory()
	report.PostThresholdTraits = post.String()

	if report.PreThresholdHighest != cat {
		report.Problems = append(report.Problems,
			fmt.Sprintf("pre-threshold highest category is %s", report.PreThresholdHighest))
	}
	if report.PostThresholdHighest != cat {
		report.Problems = append(report.Problems,
			fmt.Sprintf("post-threshold highest category is %s", report.PostThresholdHighest))
	}
	if chance < BreachChanceMin || chance > BreachChanceMax {
		report.Problems = append(report.Problems,
			fmt.Sprintf("breach chance %.3f outside [%.1f, %.1f]", chance, BreachChanceMin, BreachChanceMax))
	}
	return report, nil
}

// Run audits every category that is not work in progress, in id order.
func Run(reg *mutation.Registry) ([]CategoryReport, error) {
	var reports []CategoryReport
	for _, id := range reg.Categories() {
		c, _ := reg.Category(id)
		if c.WIP {
			continue
		}
		r, err := Category(reg, id)
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}
