package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	medicinesResourceURI = "take-it-right://reference/medicines"
	doseCheckPromptName  = "dose_check"
)

// registerResources exposes the reference listing as a readable resource
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         medicinesResourceURI,
		Name:        "medicines",
		Description: "Known ingredients and the brand names that expand to them",
		MIMEType:    "application/json",
	}, s.handleReadMedicines)
}

// registerPrompts registers prompt templates for clients that surface them
func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(&mcp.Prompt{
		Name:        doseCheckPromptName,
		Description: "Ask whether a dose is safe to take now, using the analyze_dose tool",
		Arguments: []*mcp.PromptArgument{
			{Name: "medicine", Description: "medicine or brand name", Required: true},
			{Name: "dose", Description: "dose in milligrams", Required: true},
			{Name: "time", Description: "time of the dose as HH:MM", Required: true},
			{Name: "previous_time", Description: "time of the previous dose as HH:MM"},
			{Name: "other_meds", Description: "comma-separated list of other medicines"},
		},
	}, s.handleDoseCheckPrompt)
}

func (s *Server) handleReadMedicines(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	payload, err := json.Marshal(s.medicines())
	if err != nil {
		return nil, fmt.Errorf("failed to encode medicines: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      medicinesResourceURI,
			MIMEType: "application/json",
			Text:     string(payload),
		}},
	}, nil
}

func (s *Server) handleDoseCheckPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	var args map[string]string
	if req != nil && req.Params != nil {
		args = req.Params.Arguments
	}
	return renderDoseCheck(args)
}

// renderDoseCheck builds the dose_check prompt. medicine, dose and time are
// required.
func renderDoseCheck(args map[string]string) (*mcp.GetPromptResult, error) {
	for _, name := range []string{"medicine", "dose", "time"} {
		if strings.TrimSpace(args[name]) == "" {
			return nil, fmt.Errorf("missing required argument %q", name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I am about to take %s mg of %s at %s.", args["dose"], args["medicine"], args["time"])
	if prev := strings.TrimSpace(args["previous_time"]); prev != "" {
		fmt.Fprintf(&b, " My previous dose was at %s.", prev)
	}
	if others := strings.TrimSpace(args["other_meds"]); others != "" {
		fmt.Fprintf(&b, " I am also taking %s.", others)
	}
	b.WriteString(" Use the analyze_dose tool to check whether this is safe, then explain the risk level and guidance in plain language.")

	return &mcp.GetPromptResult{
		Description: "Dose safety check",
		Messages: []*mcp.PromptMessage{{
			Role:    "user",
			Content: &mcp.TextContent{Text: b.String()},
		}},
	}, nil
}
