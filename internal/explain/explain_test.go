package explain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

func TestNormalizeStyle(t *testing.T) {
	assert.Equal(t, domain.Style{
		Mode:     ModeStandard,
		Detail:   DetailMedium,
		Strength: StrengthNormal,
		Audience: AudienceGeneral,
	}, NormalizeStyle(domain.Style{}))

	assert.Equal(t, domain.Style{
		Mode:     ModeFirm,
		Detail:   DetailLow,
		Strength: StrengthStrict,
		Audience: AudienceClinical,
	}, NormalizeStyle(domain.Style{Mode: " Firm", Detail: "LOW", Strength: "strict", Audience: "clinical"}))

	assert.Equal(t, AudienceGeneral, NormalizeStyle(domain.Style{Audience: "veterinary"}).Audience)
}

func TestExplain_SafeParacetamol(t *testing.T) {
	result := &domain.AnalysisResult{
		RiskLevel: domain.RiskSafe,
		LiverLoad: 3,
		Medicine:  "paracetamol",
		Conflicts: []domain.Conflict{},
	}

	got := Explain(result, domain.Style{})

	assert.Equal(t,
		"Based on the current inputs, no major safety concerns were detected. "+
			"The current paracetamol dose is well within recommended pediatric or adult safety limits for the given weight and timing.",
		got)
}

func TestExplain_SafeOther(t *testing.T) {
	result := &domain.AnalysisResult{RiskLevel: domain.RiskSafe, Medicine: "caffeine"}

	got := Explain(result, domain.Style{Mode: ModeFirm})

	assert.Equal(t, "Risk appears minimal under current conditions. Following the recommended schedule should remain appropriate.", got)
}

func TestExplain_HighRiskWithDominantOrgan(t *testing.T) {
	result := &domain.AnalysisResult{
		RiskLevel:   domain.RiskHigh,
		LiverLoad:   4,
		KidneyLoad:  2,
		StomachRisk: 5,
		Medicine:    "ibuprofen",
		Conflicts: []domain.Conflict{
			domain.NewConflict("Alcohol with ibuprofen increases stomach bleeding risk", 5, ""),
			domain.NewConflict("ibuprofen contraindicated in pregnancy", 7, ""),
			domain.NewConflict("Severe liver stress detected", 5, domain.CategoryLiver),
		},
	}

	got := Explain(result, domain.Style{Audience: AudienceClinical, Strength: StrengthStrict})

	assert.Equal(t, strings.Join([]string{
		"This situation carries a high safety risk based on the current inputs.",
		"Gastrointestinal irritation risk is elevated.",
		"This may reduce the body's ability to safely handle additional dosing.",
		"This medication is generally not recommended during pregnancy.",
		"It is strongly recommended to wait before taking another dose and avoid additional risk factors.",
		"This assessment provides general medication safety guidance and does not replace professional medical evaluation.",
	}, " "), got)
}

func TestExplain_LowDetailSkipsCapacitySentence(t *testing.T) {
	result := &domain.AnalysisResult{RiskLevel: domain.RiskCaution, KidneyLoad: 4}

	got := Explain(result, domain.Style{Detail: DetailLow, Strength: StrengthSoft, Mode: ModeReassuring})

	assert.Equal(t,
		"There is some risk present, but it may be reduced with adjustments. "+
			"There is strain on the kidneys. "+
			"Consider waiting before the next dose to lower potential risk.",
		got)

	result.KidneyLoad = 5
	assert.True(t, strings.HasSuffix(Explain(result, domain.Style{}), professionalLimit))
}

func TestExplain_OrganTiesFavourLiver(t *testing.T) {
	result := &domain.AnalysisResult{RiskLevel: domain.RiskCaution, LiverLoad: 4, KidneyLoad: 4, StomachRisk: 4}

	got := Explain(result, domain.Style{Detail: DetailLow})

	assert.Contains(t, got, "There is stress on the liver.")
	assert.NotContains(t, got, "kidneys")
}

func TestExplain_ConflictFlags(t *testing.T) {
	result := &domain.AnalysisResult{
		RiskLevel: domain.RiskCaution,
		LiverLoad: 2,
		Conflicts: []domain.Conflict{
			domain.NewConflict("Alcohol with paracetamol increases liver damage risk", 8, domain.CategoryLiver),
			domain.NewConflict("aspirin contraindicated for this age", 5, ""),
			domain.NewConflict("Hidden duplicate ibuprofen detected across different brands", 7, domain.CategoryDuplicate),
			domain.NewConflict("NSAID stacking", 4, domain.CategoryNSAID),
			domain.NewConflict("Paracetamol dose requires caution for weight (17.5mg/kg > 15mg/kg)", 4, ""),
			domain.NewConflict("High kidney stress detected", 5, domain.CategoryKidney),
			domain.NewConflict("Multiple doses of caffeine detected", 2, ""),
		},
	}

	got := Explain(result, domain.Style{})

	assert.Equal(t, strings.Join([]string{
		"There is a moderate safety concern with the current timing or combination.",
		"There is significant stress on the liver.",
		"This medication may not be appropriate for the given age.",
		"The same active ingredient appears more than once, which increases risk.",
		"Combining multiple anti-inflammatory medicines increases safety risk.",
		"The total dose exceeds recommended limits.",
		"Kidney strain is contributing to the overall risk.",
		"Waiting before the next dose may help reduce potential harm.",
	}, " "), got)
}

func TestExplain_OrganFlagsSuppressedByDominantOrgan(t *testing.T) {
	result := &domain.AnalysisResult{
		RiskLevel: domain.RiskHigh,
		LiverLoad: 6,
		Conflicts: []domain.Conflict{domain.NewConflict("Severe liver stress detected", 5, domain.CategoryLiver)},
	}

	got := Explain(result, domain.Style{})

	assert.NotContains(t, got, "There is significant stress on the liver.")
	assert.Contains(t, got, "There is stress on the liver.")
}

func TestExplain_UnknownLevel(t *testing.T) {
	got := Explain(&domain.AnalysisResult{RiskLevel: "UNKNOWN"}, domain.Style{})
	assert.True(t, strings.HasPrefix(got, "The current safety level could not be determined."))
	assert.Equal(t, "The current safety level could not be determined.", Explain(nil, domain.Style{}))
}

func TestExplain_DamageIsNotAnAgeFlag(t *testing.T) {
	result := &domain.AnalysisResult{
		RiskLevel: domain.RiskCaution,
		LiverLoad: 2,
		Conflicts: []domain.Conflict{
			domain.NewConflict("Alcohol with paracetamol increases liver damage risk", 8, domain.CategoryLiver),
		},
	}

	got := Explain(result, domain.Style{})

	assert.Contains(t, got, "There is significant stress on the liver.")
	assert.NotContains(t, got, "appropriate for the given age")
}

func TestHasWord(t *testing.T) {
	age := hasWord("age")

	assert.True(t, age("aspirin contraindicated for this age"))
	assert.True(t, age("age-restricted"))
	assert.False(t, age("alcohol with paracetamol increases liver damage risk"))
	assert.False(t, age("check dosage"))
}
