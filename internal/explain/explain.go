// Package explain renders a verdict as a short plain-language explanation.
// Tone, depth, closing strength and vocabulary are chosen by a domain.Style.
package explain

import (
	"strings"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// Style values
const (
	ModeReassuring = "reassuring"
	ModeStandard   = "standard"
	ModeFirm       = "firm"

	DetailLow    = "low"
	DetailMedium = "medium"
	DetailHigh   = "high"

	StrengthSoft   = "soft"
	StrengthNormal = "normal"
	StrengthStrict = "strict"

	AudienceGeneral  = "general"
	AudienceClinical = "clinical"
)

const (
	dominantOrganThreshold = 4.0
	severeLiverLoad        = 6.0
	severeKidneyLoad       = 5.0

	unknownLevel      = "The current safety level could not be determined."
	reducedCapacity   = "This may reduce the body's ability to safely handle additional dosing."
	safeSchedule      = "Following the recommended schedule should remain appropriate."
	safeParacetamol   = "The current paracetamol dose is well within recommended pediatric or adult safety limits for the given weight and timing."
	professionalLimit = "This assessment provides general medication safety guidance and does not replace professional medical evaluation."
)

var openings = map[string]map[domain.RiskLevel]string{
	ModeReassuring: {
		domain.RiskHigh:    "There is a high level of risk right now, but it can be managed with the right steps.",
		domain.RiskCaution: "There is some risk present, but it may be reduced with adjustments.",
		domain.RiskSafe:    "Based on the current inputs, no major safety concerns were detected.",
	},
	ModeStandard: {
		domain.RiskHigh:    "This situation carries a high safety risk based on the current inputs.",
		domain.RiskCaution: "There is a moderate safety concern with the current timing or combination.",
		domain.RiskSafe:    "Based on the current inputs, no major safety concerns were detected.",
	},
	ModeFirm: {
		domain.RiskHigh:    "This situation presents a serious safety risk and requires caution.",
		domain.RiskCaution: "There is a noticeable safety concern that should not be ignored.",
		domain.RiskSafe:    "Risk appears minimal under current conditions.",
	},
}

type organ int

const (
	organLiver organ = iota
	organKidney
	organStomach
)

var organPhrases = map[string][3]string{
	AudienceGeneral: {
		organLiver:   "There is stress on the liver.",
		organKidney:  "There is strain on the kidneys.",
		organStomach: "There is irritation risk in the stomach.",
	},
	AudienceClinical: {
		organLiver:   "Liver strain is elevated.",
		organKidney:  "Renal stress levels are increased.",
		organStomach: "Gastrointestinal irritation risk is elevated.",
	},
}

var closings = map[string]string{
	StrengthSoft:   "Consider waiting before the next dose to lower potential risk.",
	StrengthNormal: "Waiting before the next dose may help reduce potential harm.",
	StrengthStrict: "It is strongly recommended to wait before taking another dose and avoid additional risk factors.",
}

// NormalizeStyle lower-cases the style and replaces unknown values with the
// defaults: standard, medium, normal and general.
func NormalizeStyle(style domain.Style) domain.Style {
	pick := func(value, fallback string, allowed ...string) string {
		value = strings.ToLower(strings.TrimSpace(value))
		for _, a := range allowed {
			if value == a {
				return value
			}
		}
		return fallback
	}
	return domain.Style{
		Mode:     pick(style.Mode, ModeStandard, ModeReassuring, ModeStandard, ModeFirm),
		Detail:   pick(style.Detail, DetailMedium, DetailLow, DetailMedium, DetailHigh),
		Strength: pick(style.Strength, StrengthNormal, StrengthSoft, StrengthNormal, StrengthStrict),
		Audience: pick(style.Audience, AudienceGeneral, AudienceGeneral, AudienceClinical),
	}
}

// Explain renders the verdict. It is a pure function of its inputs.
func Explain(result *domain.AnalysisResult, style domain.Style) string {
	if result == nil {
		return unknownLevel
	}
	style = NormalizeStyle(style)

	var sentences []string

	opening, ok := openings[style.Mode][result.RiskLevel]
	if !ok {
		opening = unknownLevel
	}
	sentences = append(sentences, opening)

	dominant, value := dominantOrgan(result)
	if value >= dominantOrganThreshold {
		sentences = append(sentences, organPhrases[style.Audience][dominant])
		if style.Detail == DetailMedium || style.Detail == DetailHigh {
			sentences = append(sentences, reducedCapacity)
		}
	}

	sentences = append(sentences, conflictSentences(result.Conflicts, value)...)

	switch {
	case result.RiskLevel == domain.RiskSafe && result.Medicine == "paracetamol":
		sentences = append(sentences, safeParacetamol)
	case result.RiskLevel == domain.RiskSafe:
		sentences = append(sentences, safeSchedule)
	default:
		sentences = append(sentences, closings[style.Strength])
	}

	if result.RiskLevel == domain.RiskHigh || result.LiverLoad >= severeLiverLoad || result.KidneyLoad >= severeKidneyLoad {
		sentences = append(sentences, professionalLimit)
	}

	return strings.Join(sentences, " ")
}

// dominantOrgan picks the largest load; ties go to liver, then kidney.
func dominantOrgan(result *domain.AnalysisResult) (organ, float64) {
	dominant, value := organLiver, result.LiverLoad
	if result.KidneyLoad > value {
		dominant, value = organKidney, result.KidneyLoad
	}
	if result.StomachRisk > value {
		dominant, value = organStomach, result.StomachRisk
	}
	return dominant, value
}
