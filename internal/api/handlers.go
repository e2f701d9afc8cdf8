package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
	"github.com/saravanapriyaa21/take-it-right/internal/explain"
	"github.com/saravanapriyaa21/take-it-right/internal/middleware"
)

const (
	msgNotJSON          = "Request must be JSON"
	msgNotObject        = "Request must be a JSON object"
	msgBodyTooLarge     = "Request body too large"
	msgInternal         = "Internal server error"
	msgResultRequired   = "result is required"
	healthStatusRunning = "API running"
)

// AnalyzeRequest is the input contract plus optional explanation style
type AnalyzeRequest struct {
	domain.DoseRequest
	domain.Style
}

// AnalyzeResponse is the output contract plus the rendered explanation
type AnalyzeResponse struct {
	*domain.AnalysisResult
	Explanation string `json:"explanation"`
	RequestID   string `json:"request_id,omitempty"`
}

// ExplainRequest asks for prose over an existing verdict
type ExplainRequest struct {
	Result *domain.AnalysisResult `json:"result"`
	Style  domain.Style           `json:"style"`
}

// MedicinesResponse lists the known names
type MedicinesResponse struct {
	Ingredients []string            `json:"ingredients"`
	Brands      map[string][]string `json:"brands"`
	Fingerprint string              `json:"fingerprint"`
}

// errorBody is the client-facing error shape of the output contract
type errorBody struct {
	Error string `json:"error"`
}

// handleHealth handles liveness checks
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    healthStatusRunning,
		"version":   s.version,
		"timestamp": time.Now().UTC(),
	})
}

// handleReady reports the loaded tables and dependency states. The tables
// are loaded before the server is built, so reaching here means ready.
func (s *Server) handleReady(c *gin.Context) {
	components := make(map[string]interface{}, len(s.probes))
	for name, probe := range s.probes {
		components[name] = probe(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"reference": gin.H{
			"fingerprint": s.reference.Fingerprint(),
			"ingredients": len(s.reference.Ingredients()),
			"brands":      len(s.reference.Brands()),
		},
		"components": components,
	})
}

// handleAnalyze evaluates one dosing event
func (s *Server) handleAnalyze(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.respondReadError(c, err)
		return
	}

	status, body := s.analyze(c.Request.Context(), raw, middleware.GetCorrelationID(c))
	c.JSON(status, body)
}

// handleExplain renders prose for a verdict supplied by the caller
func (s *Server) handleExplain(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.respondReadError(c, err)
		return
	}

	var req ExplainRequest
	if msg := decodeObject(raw, &req); msg != "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: msg})
		return
	}
	if req.Result == nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: msgResultRequired})
		return
	}

	c.JSON(http.StatusOK, gin.H{"explanation": explain.Explain(req.Result, req.Style)})
}

// handleMedicines lists canonical ingredients and brand expansions
func (s *Server) handleMedicines(c *gin.Context) {
	brands := make(map[string][]string)
	for _, alias := range s.reference.Brands() {
		brands[alias] = s.reference.Expand(alias)
	}

	c.JSON(http.StatusOK, MedicinesResponse{
		Ingredients: s.reference.Ingredients(),
		Brands:      brands,
		Fingerprint: s.reference.Fingerprint(),
	})
}

// analyze decodes raw as an AnalyzeRequest and returns the status and body
// to send. The HTTP and stream handlers share it.
func (s *Server) analyze(ctx context.Context, raw []byte, requestID string) (int, interface{}) {
	var req AnalyzeRequest
	if msg := decodeObject(raw, &req); msg != "" {
		return http.StatusBadRequest, errorBody{Error: msg}
	}

	result, err := s.analyzer.Analyze(ctx, &req.DoseRequest)
	if err != nil {
		return s.analyzeError(err, requestID)
	}

	return http.StatusOK, AnalyzeResponse{
		AnalysisResult: result,
		Explanation:    explain.Explain(result, req.Style),
		RequestID:      requestID,
	}
}

func (s *Server) analyzeError(err error, requestID string) (int, interface{}) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, errorBody{Error: validationErr.Error()}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, domain.NewAPIError(domain.ErrRequestTimeout, "Request timeout", "", requestID)
	default:
		s.logger.WithFields(logrus.Fields{
			"correlation_id": requestID,
			"error":          err.Error(),
		}).Error("Dose analysis failed")
		return http.StatusInternalServerError, errorBody{Error: msgInternal}
	}
}

func (s *Server) respondReadError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, errorBody{Error: msgBodyTooLarge})
		return
	}
	s.logger.WithError(err).Warn("Failed to read request body")
	c.JSON(http.StatusBadRequest, errorBody{Error: msgNotJSON})
}

// decodeObject unmarshals a JSON object into v and returns a client-facing
// message on failure, or "" on success.
func decodeObject(raw []byte, v interface{}) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !json.Valid(raw) {
		return msgNotJSON
	}
	if raw[0] != '{' {
		return msgNotObject
	}
	if err := json.Unmarshal(raw, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			// Fields of embedded structs are reported as "DoseRequest.medicine"
			field := typeErr.Field[strings.LastIndex(typeErr.Field, ".")+1:]
			return fmt.Sprintf("Invalid %s format", field)
		}
		return msgNotObject
	}
	return ""
}
