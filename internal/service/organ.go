package service

import (
	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

const (
	severeLiverLoad  = 6.0
	severeKidneyLoad = 4.0
)

// OrganLoad is the summed organ burden of every ingredient in play.
type OrganLoad struct {
	Liver   float64
	Kidney  float64
	Stomach float64
}

// AccumulateOrganLoad sums the organ loads over all ingredients, counting
// repeats. Unknown ingredients contribute zero.
func AccumulateOrganLoad(ingredients []string, ref domain.ReferenceData) OrganLoad {
	var load OrganLoad
	for _, ing := range ingredients {
		rule, ok := ref.Rule(ing)
		if !ok {
			continue
		}
		load.Liver += rule.LiverLoad
		load.Kidney += rule.KidneyLoad
		load.Stomach += rule.StomachRisk
	}
	return load
}

// Escalations returns the liver then kidney hard stops triggered by the
// accumulated load.
func (o OrganLoad) Escalations() []Finding {
	var findings []Finding
	if o.Liver >= severeLiverLoad {
		findings = append(findings, blocking("Severe liver stress detected", 5, domain.CategoryLiver))
	}
	if o.Kidney >= severeKidneyLoad {
		findings = append(findings, blocking("High kidney stress detected", 5, domain.CategoryKidney))
	}
	return findings
}
