package mcp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/wellness-advisor-server/internal/domain"
	"github.com/wellness-advisor-server/internal/feedback"
)

// EvaluateProfileParams defines parameters for the evaluate_profile tool.
// Field names match the intake form.
type EvaluateProfileParams struct {
	CYP2D6Status     string           `json:"cyp2d6_status,omitempty"`
	CurrentMeds      string           `json:"current_meds,omitempty"`
	CYP1A2Status     string           `json:"cyp1a2_status,omitempty"`
	// Clients send the amount as a string or a number.
	CaffeinePost12PM domain.FormValue `json:"caffeine_post_12pm,omitempty"`
	MTHFRStatus      string           `json:"mthfr_status,omitempty"`
	ADH1BStatus      string           `json:"adh1b_status,omitempty"`
}

// evaluateProfileSchema is the schema inferred from EvaluateProfileParams with the
// caffeine amount widened to the string, number or null a form serializer may send.
func evaluateProfileSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[EvaluateProfileParams](&jsonschema.ForOptions{})
	if err != nil {
		return nil, err
	}
	caffeine, ok := schema.Properties["caffeine_post_12pm"]
	if !ok {
		return nil, fmt.Errorf("caffeine_post_12pm missing from inferred schema")
	}
	caffeine.Type = ""
	caffeine.Types = []string{"string", "number", "null"}
	caffeine.Description = "Caffeine consumed after 12 PM, in mg"
	return schema, nil
}

// FormInput converts the tool arguments into the advisor's form input.
func (p EvaluateProfileParams) FormInput() domain.FormInput {
	return domain.FormInput{
		CYP2D6Status:     domain.FormValue(p.CYP2D6Status),
		CurrentMeds:      domain.FormValue(p.CurrentMeds),
		CYP1A2Status:     domain.FormValue(p.CYP1A2Status),
		CaffeinePost12PM: p.CaffeinePost12PM,
		MTHFRStatus:      domain.FormValue(p.MTHFRStatus),
		ADH1BStatus:      domain.FormValue(p.ADH1BStatus),
	}
}

// ListRulesParams is empty; list_rules takes no arguments.
type ListRulesParams struct{}

// ListRulesResult is the structured output of list_rules.
type ListRulesResult struct {
	Rules    []domain.Rule `json:"rules"`
	MaxScore int           `json:"max_score"`
}

// RiskTierParams defines parameters for the risk_tier tool.
type RiskTierParams struct {
	Score int `json:"score"`
}

// SubmitFeedbackParams defines parameters for the submit_feedback tool.
type SubmitFeedbackParams struct {
	AssessmentID string `json:"assessment_id"`
	RuleID       string `json:"rule_id"`
	Helpful      bool   `json:"helpful"`
	Notes        string `json:"notes,omitempty"`
}

// ExportFeedbackParams defines parameters for the export_feedback tool.
type ExportFeedbackParams struct {
	Filename string `json:"filename,omitempty"`
}

// ExportFeedbackResult is the structured output of export_feedback.
type ExportFeedbackResult struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// SubmitFeedbackResult is the structured output of submit_feedback.
type SubmitFeedbackResult struct {
	Feedback *feedback.Feedback `json:"feedback"`
}

// QueryFeedbackParams defines parameters for the query_feedback tool.
type QueryFeedbackParams struct {
	AssessmentID string `json:"assessment_id"`
	RuleID       string `json:"rule_id"`
}

// QueryFeedbackResult is the structured output of query_feedback.
type QueryFeedbackResult struct {
	Found    bool               `json:"found"`
	Feedback *feedback.Feedback `json:"feedback,omitempty"`
}

// ImportFeedbackParams defines parameters for the import_feedback tool.
// Filename names a file in the export directory.
type ImportFeedbackParams struct {
	Filename string `json:"filename"`
}

// ImportFeedbackResult is the structured output of import_feedback.
type ImportFeedbackResult struct {
	Path     string `json:"path"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}
