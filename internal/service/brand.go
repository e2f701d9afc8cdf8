package service

import (
	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// AlcoholIngredient is the sentinel ingredient added when alcohol is
// consumed alongside the dose.
const AlcoholIngredient = "alcohol"

// SourcedIngredient pairs a canonical ingredient with the name it was
// reached from.
type SourcedIngredient struct {
	Source     string
	Ingredient string
}

// Resolution is the brand-expanded view of a dose event.
type Resolution struct {
	// Primary is the first ingredient of the primary medicine. Its rule
	// entry drives spacing, overdose and weight checks.
	Primary            string
	PrimaryIngredients []string
	// All holds every ingredient in order: the primary medicine, then each
	// co-medication, then alcohol.
	All     []string
	Sources []SourcedIngredient
}

// BrandResolver expands brand names into canonical ingredients.
type BrandResolver struct {
	ref domain.ReferenceData
}

// NewBrandResolver creates a resolver over the given reference data
func NewBrandResolver(ref domain.ReferenceData) *BrandResolver {
	return &BrandResolver{ref: ref}
}

// Expand returns the canonical ingredients for a normalized name.
func (b *BrandResolver) Expand(name string) []string {
	return b.ref.Expand(name)
}

// Resolve expands the event and checks that the primary medicine is known.
func (b *BrandResolver) Resolve(event domain.DoseEvent) (*Resolution, error) {
	primary := b.Expand(event.Medicine)
	if _, ok := b.ref.Rule(primary[0]); !ok {
		return nil, domain.NewValidationError("medicine", "Medicine not found in rules", event.Medicine)
	}

	res := &Resolution{
		Primary:            primary[0],
		PrimaryIngredients: primary,
		All:                append([]string(nil), primary...),
	}
	for _, ing := range primary {
		res.Sources = append(res.Sources, SourcedIngredient{Source: event.Medicine, Ingredient: ing})
	}

	for _, med := range event.OtherMeds {
		expanded := b.Expand(med)
		res.All = append(res.All, expanded...)
		for _, ing := range expanded {
			res.Sources = append(res.Sources, SourcedIngredient{Source: med, Ingredient: ing})
		}
	}

	if event.Alcohol {
		res.All = append(res.All, AlcoholIngredient)
		res.Sources = append(res.Sources, SourcedIngredient{Source: AlcoholIngredient, Ingredient: AlcoholIngredient})
	}

	return res, nil
}
