package service

import (
	"math"

	"github.com/wellness-advisor-server/internal/domain"
)

// Tier thresholds on the total score
const (
	highPriorityThreshold = 100
	moderateThreshold     = 50
)

// RiskScorer maps scores onto the four-tier gauge against a fixed maximum.
type RiskScorer struct {
	maxScore int
}

// NewRiskScorer creates a scorer for the given maximum score.
func NewRiskScorer(maxScore int) *RiskScorer {
	return &RiskScorer{maxScore: maxScore}
}

// AssessRisk implements domain.RiskScorer.
func (s *RiskScorer) AssessRisk(score int) domain.RiskAssessment {
	return AssessRisk(score, s.maxScore)
}

// AssessRisk classifies a total score. Tiers are checked high to low; negative scores
// cannot come from the catalog and fall through to Nominal.
func AssessRisk(score, maxScore int) domain.RiskAssessment {
	assessment := domain.RiskAssessment{
		Score:      score,
		MaxScore:   maxScore,
		Percentage: Percentage(score, maxScore),
	}

	switch {
	case score >= highPriorityThreshold:
		assessment.Tier = domain.TierHighPriority
		assessment.SeverityClass = "danger"
		assessment.Color = "#dc3545"
	case score >= moderateThreshold:
		assessment.Tier = domain.TierModerate
		assessment.SeverityClass = "warning"
		assessment.Color = "#ffc107"
	case score > 0:
		assessment.Tier = domain.TierLow
		assessment.SeverityClass = "info"
		assessment.Color = "#0dcaf0"
	default:
		assessment.Tier = domain.TierNominal
		assessment.SeverityClass = "success"
		assessment.Color = "#198754"
	}

	return assessment
}

// Percentage is the gauge fill, score/maxScore rounded to the nearest integer and
// clamped to [0, 100]. A non-positive maximum yields 0.
func Percentage(score, maxScore int) int {
	if maxScore <= 0 || score <= 0 {
		return 0
	}
	pct := int(math.Round(float64(score) / float64(maxScore) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}
