package service

import (
	"fmt"
	"strconv"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

const (
	overdoseWeight     = 50.0
	spacingWeight      = 30.0
	severityWeight     = 10.0
	alcoholWeight      = 25.0
	liverLoadWeight    = 5.0
	kidneyStressWeight = 20.0
	maxPublishedScore  = 100

	liverIssueThreshold = 3.0
)

// ScoreInput holds the signals that contribute to the risk score.
type ScoreInput struct {
	Overdose         bool
	SpacingViolation bool
	Alcohol          bool
	Conflicts        []domain.Conflict
	Load             OrganLoad
}

// Score is the raw risk score together with the human-readable issues.
type Score struct {
	Raw    float64
	Issues []string
}

// Published returns the score clamped to 0..100 as an integer.
func (s Score) Published() int {
	if s.Raw >= maxPublishedScore {
		return maxPublishedScore
	}
	if s.Raw <= 0 {
		return 0
	}
	return int(s.Raw)
}

// ComputeScore adds up the weighted contributions. The raw value is not
// clamped; classification uses it as is.
func ComputeScore(in ScoreInput) Score {
	var s Score

	if in.Overdose {
		s.Raw += overdoseWeight
		s.Issues = append(s.Issues, "Overdose risk detected")
	}
	if in.SpacingViolation {
		s.Raw += spacingWeight
		s.Issues = append(s.Issues, "Dose taken too soon")
	}
	for _, c := range in.Conflicts {
		s.Raw += float64(c.Severity) * severityWeight
		s.Issues = append(s.Issues, "Interaction risk: "+c.Risk)
	}
	if in.Alcohol {
		s.Raw += alcoholWeight
		s.Issues = append(s.Issues, "Alcohol interaction risk")
	}
	if in.Load.Liver > 0 {
		s.Raw += in.Load.Liver * liverLoadWeight
	}
	if in.Load.Liver >= liverIssueThreshold {
		s.Issues = append(s.Issues, fmt.Sprintf("Liver load score is %s", strconv.FormatFloat(in.Load.Liver, 'f', -1, 64)))
	}
	if in.Load.Kidney >= severeKidneyLoad {
		s.Raw += kidneyStressWeight
		s.Issues = append(s.Issues, "High kidney stress detected")
	}

	return s
}
