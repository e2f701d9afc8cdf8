package service

import (
	"fmt"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// CheckContraindications applies pregnancy and minimum-age blocks for each
// ingredient of the primary medicine. Ingredients missing from the rule
// table contribute nothing.
func CheckContraindications(ingredients []string, ref domain.ReferenceData, pregnant bool, age *float64) []Finding {
	var findings []Finding
	for _, ing := range ingredients {
		rule, ok := ref.Rule(ing)
		if !ok {
			continue
		}
		if pregnant && rule.Contraindications.Pregnancy {
			findings = append(findings, blocking(fmt.Sprintf("%s contraindicated in pregnancy", ing), 7, ""))
		}
		if age != nil && *age < rule.Contraindications.MinAge {
			findings = append(findings, blocking(fmt.Sprintf("%s contraindicated for this age", ing), 5, ""))
		}
	}
	return findings
}
