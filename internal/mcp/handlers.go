package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
	"github.com/saravanapriyaa21/take-it-right/internal/explain"
)

// AnalyzeDoseParams defines parameters for the analyze_dose tool
type AnalyzeDoseParams struct {
	Medicine     string    `json:"medicine" jsonschema:"medicine or brand name, for example crocin or ibuprofen"`
	Dose         float64   `json:"dose" jsonschema:"dose about to be taken, in milligrams"`
	DoseHistory  []float64 `json:"dose_history,omitempty" jsonschema:"doses taken today in milligrams including this one; defaults to the single dose"`
	Time         string    `json:"time" jsonschema:"time of this dose as HH:MM"`
	PreviousTime string    `json:"previous_time,omitempty" jsonschema:"time of the previous dose as HH:MM"`
	OtherMeds    []string  `json:"other_meds,omitempty" jsonschema:"other medicines taken alongside"`
	Alcohol      bool      `json:"alcohol,omitempty" jsonschema:"whether alcohol was consumed"`
	Age          *float64  `json:"age,omitempty" jsonschema:"age in years"`
	Weight       *float64  `json:"weight,omitempty" jsonschema:"body weight in kilograms"`
	Pregnant     bool      `json:"pregnant,omitempty" jsonschema:"whether the person is pregnant"`
}

// ExplainVerdictParams defines parameters for the explain_verdict tool
type ExplainVerdictParams struct {
	AnalyzeDoseParams
	Mode     string `json:"mode,omitempty" jsonschema:"tone: reassuring, standard or firm"`
	Detail   string `json:"detail,omitempty" jsonschema:"detail: low, medium or high"`
	Strength string `json:"strength,omitempty" jsonschema:"closing strength: soft, normal or strict"`
	Audience string `json:"audience,omitempty" jsonschema:"audience: general or clinical"`
}

// ExplainVerdictResult is the verdict together with its prose
type ExplainVerdictResult struct {
	Result      *domain.AnalysisResult `json:"result"`
	Explanation string                 `json:"explanation"`
}

// ListMedicinesParams takes no arguments
type ListMedicinesParams struct{}

// ListMedicinesResult lists canonical ingredients and brand expansions
type ListMedicinesResult struct {
	Ingredients []string            `json:"ingredients"`
	Brands      map[string][]string `json:"brands"`
}

// handleAnalyzeDose handles the analyze_dose tool invocation
func (s *Server) handleAnalyzeDose(ctx context.Context, req *mcp.CallToolRequest, params AnalyzeDoseParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "analyze_dose").Debug("Tool invoked")

	result, errResult, err := s.analyze(ctx, params.request())
	if errResult != nil || err != nil {
		return errResult, nil, err
	}

	return s.createJSONResult(result)
}

// handleExplainVerdict handles the explain_verdict tool invocation
func (s *Server) handleExplainVerdict(ctx context.Context, req *mcp.CallToolRequest, params ExplainVerdictParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "explain_verdict").Debug("Tool invoked")

	result, errResult, err := s.analyze(ctx, params.request())
	if errResult != nil || err != nil {
		return errResult, nil, err
	}

	explanation := explain.Explain(result, domain.Style{
		Mode:     params.Mode,
		Detail:   params.Detail,
		Strength: params.Strength,
		Audience: params.Audience,
	})
	return s.createJSONResult(ExplainVerdictResult{Result: result, Explanation: explanation})
}

// handleListMedicines handles the list_medicines tool invocation
func (s *Server) handleListMedicines(ctx context.Context, req *mcp.CallToolRequest, params ListMedicinesParams) (*mcp.CallToolResult, any, error) {
	return s.createJSONResult(s.medicines())
}

func (s *Server) medicines() ListMedicinesResult {
	brands := make(map[string][]string)
	for _, alias := range s.reference.Brands() {
		brands[alias] = s.reference.Expand(alias)
	}
	return ListMedicinesResult{
		Ingredients: s.reference.Ingredients(),
		Brands:      brands,
	}
}

// analyze runs the analyzer. Validation failures become a tool error result
// the model can read and correct; anything else is returned as an error.
func (s *Server) analyze(ctx context.Context, req *domain.DoseRequest) (*domain.AnalysisResult, *mcp.CallToolResult, error) {
	result, err := s.analyzer.Analyze(ctx, req)
	if err == nil {
		return result, nil, nil
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return nil, s.createErrorResult("Invalid input", validationErr), nil
	}

	s.logger.WithError(err).Error("Dose analysis failed")
	return nil, nil, fmt.Errorf("dose analysis failed: %w", err)
}

// createJSONResult returns output both as text content and as the
// structured result
func (s *Server) createJSONResult(output any) (*mcp.CallToolResult, any, error) {
	payload, err := json.Marshal(output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(payload)},
		},
	}, output, nil
}

// createErrorResult creates an error result for tool calls
func (s *Server) createErrorResult(message string, err error) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s", message)
	if err != nil {
		errorText += fmt.Sprintf(" - %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: errorText},
		},
		IsError: true,
	}
}

// request converts typed tool parameters into the raw request the analyzer
// validates, so both transports share one validation path.
func (p AnalyzeDoseParams) request() *domain.DoseRequest {
	req := &domain.DoseRequest{
		Medicine:     p.Medicine,
		Dose:         domain.Number(p.Dose),
		Time:         p.Time,
		PreviousTime: p.PreviousTime,
		OtherMeds:    p.OtherMeds,
		Alcohol:      p.Alcohol,
		Pregnant:     p.Pregnant,
	}
	if p.DoseHistory != nil {
		req.DoseHistory = domain.Numbers(p.DoseHistory...)
	}
	if p.Age != nil {
		req.Age = domain.Number(*p.Age)
	}
	if p.Weight != nil {
		req.Weight = domain.Number(*p.Weight)
	}
	return req
}
