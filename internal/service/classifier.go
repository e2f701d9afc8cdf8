package service

import (
	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

const (
	safeScoreCeiling    = 25.0
	cautionScoreCeiling = 60.0
)

// ClassifierInput holds the signals used for the final risk level.
type ClassifierInput struct {
	AbsoluteBlock bool
	Overdose      bool
	NearLimit     bool
	Score         float64
}

// ScoreBand maps a score to a level using the score thresholds alone.
func ScoreBand(score float64) domain.RiskLevel {
	switch {
	case score <= safeScoreCeiling:
		return domain.RiskSafe
	case score <= cautionScoreCeiling:
		return domain.RiskCaution
	default:
		return domain.RiskHigh
	}
}

// ClassifyRisk derives the final level. Blocks and overdose always yield
// HIGH RISK; near-limit is at least CAUTION.
func ClassifyRisk(in ClassifierInput) domain.RiskLevel {
	switch {
	case in.AbsoluteBlock, in.Overdose:
		return domain.RiskHigh
	case in.NearLimit:
		return domain.RiskCaution
	default:
		return ScoreBand(in.Score)
	}
}
