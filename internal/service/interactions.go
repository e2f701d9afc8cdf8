package service

import (
	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// DetectInteractions checks every unordered pair of ingredients against the
// interaction table. Pairs are visited in (i, j), i < j order and each
// matching entry is reported once per pair.
func DetectInteractions(ingredients []string, table []domain.InteractionEntry) []Finding {
	var findings []Finding
	for i := 0; i < len(ingredients); i++ {
		for j := i + 1; j < len(ingredients); j++ {
			for _, entry := range table {
				if entry.Matches(ingredients[i], ingredients[j]) {
					findings = append(findings, Finding{Conflict: entry.Conflict()})
				}
			}
		}
	}
	return findings
}
