package service

import (
	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

var nsaidIngredients = map[string]bool{
	"ibuprofen":  true,
	"aspirin":    true,
	"naproxen":   true,
	"diclofenac": true,
}

// IsNSAID reports whether the ingredient is a non-steroidal anti-inflammatory.
func IsNSAID(ingredient string) bool {
	return nsaidIngredients[ingredient]
}

// CheckNSAIDStacking raises a conflict when more than one NSAID occurrence is
// present, repeats included.
func CheckNSAIDStacking(ingredients []string) ([]Finding, bool) {
	count := 0
	for _, ing := range ingredients {
		if IsNSAID(ing) {
			count++
		}
	}
	if count <= 1 {
		return nil, false
	}
	return []Finding{advisory("NSAID stacking", 4, domain.CategoryNSAID)}, true
}

// CheckAlcoholSynergy blocks paracetamol taken with alcohol.
func CheckAlcoholSynergy(alcohol bool, primary string) []Finding {
	if !alcohol || primary != paracetamol {
		return nil
	}
	return []Finding{blocking("Alcohol significantly increases paracetamol liver toxicity", 10, domain.CategoryLiver)}
}
