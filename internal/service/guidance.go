package service

import (
	"fmt"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// Guidance texts
const (
	GuidanceBlocked          = "Avoid taking this medication until you speak to a healthcare professional."
	GuidanceOverdose         = "You have reached the daily safety limit. Do not take another dose today."
	GuidanceNearLimit        = "You are close to the maximum daily dose. Avoid further dosing."
	GuidanceLiver            = "Avoid alcohol or other liver-impacting substances."
	GuidanceKidney           = "High kidney stress detected. Avoid additional strain."
	GuidanceStomach          = "Taking medication with food may reduce stomach irritation."
	GuidanceNSAID            = "Avoid combining multiple NSAID medications."
	GuidancePediatricSafe    = "The entered dose is within safe weight-based limits for this age."
	GuidanceParacetamolSafe  = "Current usage is within safety limits. Do not exceed 4000mg total in 24 hours."
	GuidanceGenericSafe      = "Current usage appears within safety limits."
	GuidanceHighRiskFallback = "This situation carries a significant safety risk. Please do not take this dose and consult a healthcare professional."
)

const (
	liverGuidanceThreshold   = 4.0
	kidneyGuidanceThreshold  = 4.0
	stomachGuidanceThreshold = 5.0
	adultAgeYears            = 18.0
)

// GuidanceInput holds everything guidance depends on.
type GuidanceInput struct {
	RiskLevel        domain.RiskLevel
	AbsoluteBlock    bool
	Conflicts        []domain.Conflict
	SpacingViolation bool
	PreviousTime     *domain.ClockTime
	Time             domain.ClockTime
	MinSpacingHours  float64
	Overdose         bool
	NearLimit        bool
	Load             OrganLoad
	NSAIDStacking    bool
	Primary          string
	Age              *float64
	Weight           *float64
}

// GenerateGuidance returns the ordered advice for the verdict. A block yields
// exactly one message.
func GenerateGuidance(in GuidanceInput) []string {
	if in.AbsoluteBlock {
		for _, c := range in.Conflicts {
			if c.Category == domain.CategoryInfant {
				return []string{c.Risk}
			}
		}
		return []string{GuidanceBlocked}
	}

	var guidance []string

	if in.SpacingViolation && in.PreviousTime != nil {
		if msg := waitMessage(RemainingWait(*in.PreviousTime, in.Time, in.MinSpacingHours)); msg != "" {
			guidance = append(guidance, msg)
		}
	}

	if in.Overdose {
		guidance = append(guidance, GuidanceOverdose)
	} else if in.NearLimit {
		guidance = append(guidance, GuidanceNearLimit)
	}

	if in.Load.Liver >= liverGuidanceThreshold {
		guidance = append(guidance, GuidanceLiver)
	}
	if in.Load.Kidney >= kidneyGuidanceThreshold {
		guidance = append(guidance, GuidanceKidney)
	}
	if in.Load.Stomach >= stomachGuidanceThreshold {
		guidance = append(guidance, GuidanceStomach)
	}
	if in.NSAIDStacking {
		guidance = append(guidance, GuidanceNSAID)
	}

	if len(guidance) > 0 {
		return guidance
	}

	switch in.RiskLevel {
	case domain.RiskSafe:
		switch {
		case in.Age != nil && *in.Age < adultAgeYears && in.Weight != nil:
			return []string{GuidancePediatricSafe}
		case in.Primary == paracetamol:
			return []string{GuidanceParacetamolSafe}
		default:
			return []string{GuidanceGenericSafe}
		}
	case domain.RiskHigh:
		return []string{GuidanceHighRiskFallback}
	}

	return []string{}
}

func waitMessage(remaining float64) string {
	switch {
	case remaining >= 1:
		return fmt.Sprintf("Wait about %.1f hour(s) before the next dose.", remaining)
	case remaining > 0:
		return fmt.Sprintf("Wait about %d minutes before the next dose.", int(remaining*60))
	default:
		return ""
	}
}
