package domain

import (
	"time"
)

// RiskTier is the qualitative risk category derived from a total score.
type RiskTier string

const (
	TierHighPriority RiskTier = "High Priority Action Required"
	TierModerate     RiskTier = "Moderate Wellness Focus"
	TierLow          RiskTier = "Low Risk, Optimization Recommended"
	TierNominal      RiskTier = "Nominal Risk Profile"
)

// IsValid validates the risk tier.
func (t RiskTier) IsValid() bool {
	switch t {
	case TierHighPriority, TierModerate, TierLow, TierNominal:
		return true
	default:
		return false
	}
}

// String returns the tier label.
func (t RiskTier) String() string {
	return string(t)
}

// RiskAssessment is the gauge reading for a score.
type RiskAssessment struct {
	Score         int      `json:"score"`
	MaxScore      int      `json:"max_score"`
	Tier          RiskTier `json:"tier"`
	SeverityClass string   `json:"severity_class"`
	Percentage    int      `json:"percentage"`
	Color         string   `json:"color"`
}

// EvaluationResult is the evaluator output: matched rules in catalog order and their summed weight.
type EvaluationResult struct {
	Matches []Rule         `json:"matches"`
	Score   int            `json:"score"`
	Risk    RiskAssessment `json:"risk"`
}

// MatchedIDs returns the IDs of the matched rules in order.
func (r *EvaluationResult) MatchedIDs() []string {
	ids := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		ids = append(ids, m.ID)
	}
	return ids
}

// Alert is one result card for a matched rule.
type Alert struct {
	RuleID       string     `json:"rule_id"`
	Level        AlertLevel `json:"level"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	Citation     string     `json:"citation"`
	Weight       int        `json:"weight"`
	DisplayClass string     `json:"display_class"`
	Icon         string     `json:"icon"`
}

// NewAlert builds the card for a matched rule.
func NewAlert(rule Rule) Alert {
	return Alert{
		RuleID:       rule.ID,
		Level:        rule.Level,
		Title:        rule.Title,
		Message:      rule.Message,
		Citation:     rule.Citation,
		Weight:       rule.Weight,
		DisplayClass: rule.Level.DisplayClass(),
		Icon:         rule.Level.Icon(),
	}
}

// Assessment is what a presenter renders for one submission.
type Assessment struct {
	ID          string         `json:"id"`
	Snapshot    InputSnapshot  `json:"snapshot"`
	Alerts      []Alert        `json:"alerts"`
	Score       int            `json:"score"`
	Risk        RiskAssessment `json:"risk"`
	AllClear    bool           `json:"all_clear"`
	Summary     string         `json:"summary"`
	Engine      string         `json:"engine"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// AllClearSummary is shown when no rule matched.
const AllClearSummary = "Based on the simulated genetic and lifestyle data, no critical or high-priority alerts were identified. Excellent wellness profile!"
