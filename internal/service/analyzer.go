// Package service implements the dose evaluation pipeline. Every check is a
// pure function of the normalized event and the immutable reference tables;
// Analyzer wires them together in a fixed order.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// Analyzer evaluates dose requests against the reference tables. It holds no
// per-request state and is safe for concurrent use.
type Analyzer struct {
	logger    *logrus.Logger
	ref       domain.ReferenceData
	validator *InputValidator
	resolver  *BrandResolver
	cache     domain.VerdictCache
	observer  domain.AnalysisObserver
}

var _ domain.DoseAnalyzer = (*Analyzer)(nil)

// AnalyzerOption configures an Analyzer
type AnalyzerOption func(*Analyzer)

// WithCache memoizes verdicts in the given cache.
func WithCache(cache domain.VerdictCache) AnalyzerOption {
	return func(a *Analyzer) {
		a.cache = cache
	}
}

// WithObserver reports outcomes to the given observer.
func WithObserver(observer domain.AnalysisObserver) AnalyzerOption {
	return func(a *Analyzer) {
		a.observer = observer
	}
}

// NewAnalyzer creates a new analyzer over the given reference data
func NewAnalyzer(ref domain.ReferenceData, logger *logrus.Logger, opts ...AnalyzerOption) *Analyzer {
	if logger == nil {
		logger = logrus.New()
	}
	a := &Analyzer{
		logger:    logger,
		ref:       ref,
		validator: NewInputValidator(),
		resolver:  NewBrandResolver(ref),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze validates the request and returns its verdict. Validation failures
// are returned as *domain.ValidationError.
func (a *Analyzer) Analyze(ctx context.Context, req *domain.DoseRequest) (*domain.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("dose request is nil")
	}
	start := time.Now()

	event, early, err := a.validator.Validate(req)
	if err != nil {
		a.recordValidationFailure(err)
		return nil, err
	}

	key := ""
	if a.cache != nil {
		if key, err = VerdictKey(event, a.ref.Fingerprint()); err != nil {
			a.logger.WithError(err).Warn("Failed to compute verdict key, evaluating without cache")
		} else if cached, ok := a.cache.Get(ctx, key); ok {
			a.logger.WithFields(logrus.Fields(cached.LogFields())).Debug("Verdict served from cache")
			a.observe(cached, start)
			return cached, nil
		}
	}

	result, err := a.Evaluate(event, early)
	if err != nil {
		a.recordValidationFailure(err)
		return nil, err
	}

	if a.cache != nil && key != "" {
		a.cache.Set(ctx, key, result)
	}

	a.logger.WithFields(logrus.Fields(result.LogFields())).Info("Dose analysis completed")
	a.observe(result, start)

	return result, nil
}

// Evaluate runs the pipeline over a validated event. early holds the
// conflicts raised during validation.
func (a *Analyzer) Evaluate(event domain.DoseEvent, early []Finding) (*domain.AnalysisResult, error) {
	// Step 1: Resolve brands and look up the primary rule
	res, err := a.resolver.Resolve(event)
	if err != nil {
		return nil, err
	}
	rule, _ := a.ref.Rule(res.Primary)

	var findings findingSet
	findings.add(early...)

	// Step 2: Spacing and dose totals
	spacingViolation := false
	if event.PreviousTime != nil {
		spacingViolation = SpacingViolation(*event.PreviousTime, event.Time, rule.MinSpacingHours)
	}
	totals := CheckOverdose(event.DoseHistory, rule)
	nearLimit := NearLimit(res.Primary, totals, rule.MaxDailyDose)

	// Step 3: Conflict checks, in emission order
	findings.add(DetectInteractions(res.All, a.ref.Interactions())...)

	weightFindings, dosePerKg := CheckWeightDosing(res.Primary, event.Dose, totals.Total, event.Weight)
	findings.add(weightFindings...)

	findings.add(CheckContraindications(res.PrimaryIngredients, a.ref, event.Pregnant, event.Age)...)

	duplicateFindings, duplicateStacking := DetectDuplicates(res.Sources, a.ref)
	findings.add(duplicateFindings...)

	load := AccumulateOrganLoad(res.All, a.ref)
	findings.add(load.Escalations()...)

	nsaidFindings, nsaidStacking := CheckNSAIDStacking(res.All)
	findings.add(nsaidFindings...)

	findings.add(CheckAlcoholSynergy(event.Alcohol, res.Primary)...)

	// Step 4: Deduplicate, score and classify
	conflicts := DeduplicateConflicts(findings.conflicts)
	score := ComputeScore(ScoreInput{
		Overdose:         totals.Overdose(),
		SpacingViolation: spacingViolation,
		Alcohol:          event.Alcohol,
		Conflicts:        conflicts,
		Load:             load,
	})
	level := ClassifyRisk(ClassifierInput{
		AbsoluteBlock: findings.absoluteBlock,
		Overdose:      totals.Overdose(),
		NearLimit:     nearLimit,
		Score:         score.Raw,
	})

	// Step 5: Guidance
	guidance := GenerateGuidance(GuidanceInput{
		RiskLevel:        level,
		AbsoluteBlock:    findings.absoluteBlock,
		Conflicts:        conflicts,
		SpacingViolation: spacingViolation,
		PreviousTime:     event.PreviousTime,
		Time:             event.Time,
		MinSpacingHours:  rule.MinSpacingHours,
		Overdose:         totals.Overdose(),
		NearLimit:        nearLimit,
		Load:             load,
		NSAIDStacking:    nsaidStacking,
		Primary:          res.Primary,
		Age:              event.Age,
		Weight:           event.Weight,
	})

	issues := score.Issues
	if issues == nil {
		issues = []string{}
	}

	return &domain.AnalysisResult{
		Score:             score.Published(),
		RiskLevel:         level,
		Issues:            issues,
		Conflicts:         conflicts,
		Guidance:          guidance,
		LiverLoad:         load.Liver,
		KidneyLoad:        load.Kidney,
		StomachRisk:       load.Stomach,
		NSAIDStacking:     nsaidStacking,
		DuplicateStacking: duplicateStacking,
		TotalDose:         totals.Total,
		MinSpacing:        rule.MinSpacingHours,
		Medicine:          res.Primary,
		Signals: domain.Signals{
			AbsoluteBlock:    findings.absoluteBlock,
			Overdose:         totals.Overdose(),
			NearLimit:        nearLimit,
			SpacingViolation: spacingViolation,
			RawScore:         score.Raw,
			DosePerKg:        dosePerKg,
		},
	}, nil
}

// VerdictKey digests a normalized event together with the reference
// fingerprint. Equal keys always map to equal verdicts.
func VerdictKey(event domain.DoseEvent, fingerprint string) (string, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("encoding dose event: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (a *Analyzer) recordValidationFailure(err error) {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	a.logger.WithFields(logrus.Fields{
		"field": verr.Field,
		"error": verr.Message,
	}).Debug("Dose request rejected")
	if a.observer != nil {
		a.observer.ObserveValidationFailure(verr.Field)
	}
}

func (a *Analyzer) observe(result *domain.AnalysisResult, start time.Time) {
	if a.observer != nil {
		a.observer.ObserveAnalysis(result, time.Since(start).Seconds())
	}
}
