package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/wellness-advisor-server/internal/domain"
	"github.com/wellness-advisor-server/internal/feedback"
	"github.com/wellness-advisor-server/internal/metrics"
)

// handleEvaluateProfile handles the evaluate_profile tool invocation
func (s *Server) handleEvaluateProfile(ctx context.Context, req *mcp.CallToolRequest, params EvaluateProfileParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "evaluate_profile").Info("Tool invoked")

	assessment, err := s.advisor.Analyze(ctx, params.FormInput())
	metrics.RecordToolCall("evaluate_profile", err)
	if err != nil {
		return s.createErrorResult("Evaluation failed", err), nil, nil
	}

	return textResult(renderAssessment(assessment)), assessment, nil
}

// handleListRules handles the list_rules tool invocation
func (s *Server) handleListRules(ctx context.Context, req *mcp.CallToolRequest, params ListRulesParams) (*mcp.CallToolResult, any, error) {
	result := ListRulesResult{
		Rules:    s.advisor.Rules(),
		MaxScore: s.advisor.MaxScore(),
	}
	metrics.RecordToolCall("list_rules", nil)

	var b strings.Builder
	fmt.Fprintf(&b, "%d rules, maximum score %d\n", len(result.Rules), result.MaxScore)
	for _, r := range result.Rules {
		fmt.Fprintf(&b, "- %s [%s, weight %d] %s (%s)\n", r.ID, r.Level, r.Weight, r.Title, r.Citation)
	}

	return textResult(b.String()), result, nil
}

// handleRiskTier handles the risk_tier tool invocation
func (s *Server) handleRiskTier(ctx context.Context, req *mcp.CallToolRequest, params RiskTierParams) (*mcp.CallToolResult, any, error) {
	if params.Score < 0 {
		err := fmt.Errorf("score must be non-negative, got %d", params.Score)
		metrics.RecordToolCall("risk_tier", err)
		return s.createErrorResult("Invalid parameter", err), nil, nil
	}

	risk := s.advisor.AssessRisk(params.Score)
	metrics.RecordToolCall("risk_tier", nil)

	return textResult(fmt.Sprintf("Score %d/%d: %s (%d%%)",
		risk.Score, risk.MaxScore, risk.Tier, risk.Percentage)), risk, nil
}

// handleSubmitFeedback handles the submit_feedback tool invocation
func (s *Server) handleSubmitFeedback(ctx context.Context, req *mcp.CallToolRequest, params SubmitFeedbackParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithFields(logrus.Fields{
		"tool":          "submit_feedback",
		"assessment_id": params.AssessmentID,
		"rule_id":       params.RuleID,
	}).Info("Tool invoked")

	fb := &feedback.Feedback{
		AssessmentID: params.AssessmentID,
		RuleID:       params.RuleID,
		Helpful:      params.Helpful,
		Notes:        params.Notes,
	}
	err := s.feedback.Save(ctx, fb)
	metrics.RecordToolCall("submit_feedback", err)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return s.createErrorResult("Invalid feedback", err), nil, nil
		}
		return s.createErrorResult("Failed to save feedback", err), nil, nil
	}

	verdict := "not helpful"
	if fb.Helpful {
		verdict = "helpful"
	}
	return textResult(fmt.Sprintf("Recorded feedback #%d: %s marked %s for assessment %s",
		fb.ID, fb.RuleID, verdict, fb.AssessmentID)), SubmitFeedbackResult{Feedback: fb}, nil
}

// handleExportFeedback handles the export_feedback tool invocation
func (s *Server) handleExportFeedback(ctx context.Context, req *mcp.CallToolRequest, params ExportFeedbackParams) (*mcp.CallToolResult, any, error) {
	name := params.Filename
	if name == "" {
		name = fmt.Sprintf("feedback-%s.json", time.Now().UTC().Format("20060102-150405"))
	}
	path := s.exportPath(name)

	result, err := s.exportTo(ctx, path)
	metrics.RecordToolCall("export_feedback", err)
	if err != nil {
		return s.createErrorResult("Export failed", err), nil, nil
	}

	return textResult(fmt.Sprintf("Exported %d feedback entries to %s", result.Count, result.Path)), result, nil
}

// exportPath resolves name inside the export directory. Exports never leave it.
func (s *Server) exportPath(name string) string {
	name = filepath.Base(name)
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return filepath.Join(s.config.ExportDir(), name)
}

func (s *Server) exportTo(ctx context.Context, path string) (result *ExportFeedbackResult, err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			result, err = nil, fmt.Errorf("closing export file: %w", cerr)
		}
	}()

	written, err := s.feedback.ExportJSON(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ExportFeedbackResult{Path: path, Count: int64(written)}, nil
}

// handleQueryFeedback handles the query_feedback tool invocation
func (s *Server) handleQueryFeedback(ctx context.Context, req *mcp.CallToolRequest, params QueryFeedbackParams) (*mcp.CallToolResult, any, error) {
	fb, err := s.feedback.Get(ctx, params.AssessmentID, params.RuleID)
	metrics.RecordToolCall("query_feedback", err)
	if err != nil {
		return s.createErrorResult("Feedback lookup failed", err), nil, nil
	}

	if fb == nil {
		return textResult(fmt.Sprintf("No feedback recorded for %s on assessment %s",
			params.RuleID, params.AssessmentID)), QueryFeedbackResult{}, nil
	}

	verdict := "not helpful"
	if fb.Helpful {
		verdict = "helpful"
	}
	text := fmt.Sprintf("%s on assessment %s was marked %s", fb.RuleID, fb.AssessmentID, verdict)
	if fb.Notes != "" {
		text += ": " + fb.Notes
	}
	return textResult(text), QueryFeedbackResult{Found: true, Feedback: fb}, nil
}

// handleImportFeedback handles the import_feedback tool invocation
func (s *Server) handleImportFeedback(ctx context.Context, req *mcp.CallToolRequest, params ImportFeedbackParams) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.Filename) == "" {
		err := errors.New("filename is required")
		metrics.RecordToolCall("import_feedback", err)
		return s.createErrorResult("Invalid parameter", err), nil, nil
	}
	path := s.exportPath(params.Filename)

	f, err := os.Open(path)
	if err != nil {
		metrics.RecordToolCall("import_feedback", err)
		return s.createErrorResult("Failed to open import file", err), nil, nil
	}
	defer f.Close()

	imported, skipped, err := s.feedback.ImportJSON(ctx, f)
	metrics.RecordToolCall("import_feedback", err)
	if err != nil {
		return s.createErrorResult("Import failed", err), nil, nil
	}

	s.logger.WithFields(logrus.Fields{
		"tool":     "import_feedback",
		"path":     path,
		"imported": imported,
		"skipped":  skipped,
	}).Info("Imported feedback")

	return textResult(fmt.Sprintf("Imported %d feedback entries from %s (%d skipped)", imported, path, skipped)),
		ImportFeedbackResult{Path: path, Imported: imported, Skipped: skipped}, nil
}

func (s *Server) createErrorResult(message string, err error) *mcp.CallToolResult {
	s.logger.WithError(err).Warn(message)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%s: %v", message, err)},
		},
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// renderAssessment formats an assessment as the cards a user would see.
func renderAssessment(a *domain.Assessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assessment %s\n", a.ID)
	fmt.Fprintf(&b, "Risk: %s (score %d/%d, %d%%)\n\n", a.Risk.Tier, a.Score, a.Risk.MaxScore, a.Risk.Percentage)

	if a.AllClear {
		b.WriteString("All Clear! ")
		b.WriteString(a.Summary)
		return b.String()
	}

	for _, alert := range a.Alerts {
		fmt.Fprintf(&b, "%s %s: %s [%s]\n", alert.Icon, alert.Level, alert.Title, alert.RuleID)
		fmt.Fprintf(&b, "%s\n", alert.Message)
		fmt.Fprintf(&b, "Source: %s\n\n", alert.Citation)
	}
	b.WriteString(a.Summary)
	return b.String()
}
