package service

import (
	"fmt"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// DetectDuplicates finds ingredients reached more than once. An ingredient
// reached through different names is a hidden duplicate; reaching it through
// the same name twice is a plain repeat. Only ingredients in the rule table
// are counted, and results follow first-seen ingredient order.
func DetectDuplicates(sources []SourcedIngredient, ref domain.ReferenceData) ([]Finding, bool) {
	var (
		order  []string
		counts = make(map[string]int)
		names  = make(map[string][]string)
	)
	for _, s := range sources {
		if _, seen := counts[s.Ingredient]; !seen {
			order = append(order, s.Ingredient)
		}
		counts[s.Ingredient]++
		if !containsString(names[s.Ingredient], s.Source) {
			names[s.Ingredient] = append(names[s.Ingredient], s.Source)
		}
	}

	var (
		findings []Finding
		stacking bool
	)
	for _, ing := range order {
		if counts[ing] <= 1 {
			continue
		}
		if _, ok := ref.Rule(ing); !ok {
			continue
		}
		stacking = true

		switch {
		case len(names[ing]) > 1 && ing == paracetamol:
			findings = append(findings, blocking(
				"Critical: Hidden duplicate paracetamol detected across brands", 10, domain.CategoryDuplicate))
		case len(names[ing]) > 1:
			findings = append(findings, advisory(
				fmt.Sprintf("Hidden duplicate %s detected across different brands", ing), 7, domain.CategoryDuplicate))
		default:
			findings = append(findings, advisory(fmt.Sprintf("Multiple doses of %s detected", ing), 2, ""))
		}
	}
	return findings, stacking
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
