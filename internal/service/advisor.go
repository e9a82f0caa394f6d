package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wellness-advisor-server/internal/domain"
	"github.com/wellness-advisor-server/internal/metrics"
)

// EngineName identifies the evaluator that produced an assessment.
const EngineName = "rule-based"

// AdvisorService runs a full submission: parse the form, evaluate the rules and build
// the result cards and gauge reading a presenter renders.
type AdvisorService struct {
	logger    *logrus.Logger
	parser    *InputParser
	evaluator domain.RuleEvaluator
	now       func() time.Time
}

// NewAdvisorService creates an advisor over the built-in rule catalog.
func NewAdvisorService(logger *logrus.Logger) *AdvisorService {
	return NewAdvisorServiceWithEvaluator(logger, NewRuleEngine(logger))
}

// NewAdvisorServiceWithEvaluator creates an advisor over a custom evaluator.
func NewAdvisorServiceWithEvaluator(logger *logrus.Logger, evaluator domain.RuleEvaluator) *AdvisorService {
	if logger == nil {
		logger = logrus.New()
	}
	return &AdvisorService{
		logger:    logger,
		parser:    NewInputParser(),
		evaluator: evaluator,
		now:       time.Now,
	}
}

// Analyze implements domain.Advisor.
func (a *AdvisorService) Analyze(ctx context.Context, input domain.FormInput) (*domain.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyze profile: %w", err)
	}

	startTime := a.now()
	snapshot := a.parser.Parse(input)
	result := a.evaluator.Evaluate(snapshot)

	assessment := &domain.Assessment{
		ID:          uuid.New().String(),
		Snapshot:    snapshot,
		Alerts:      make([]domain.Alert, 0, len(result.Matches)),
		Score:       result.Score,
		Risk:        result.Risk,
		AllClear:    len(result.Matches) == 0,
		Engine:      EngineName,
		GeneratedAt: startTime.UTC(),
	}

	for _, rule := range result.Matches {
		assessment.Alerts = append(assessment.Alerts, domain.NewAlert(rule))
		metrics.RecordRuleMatch(rule.ID, rule.Level.String())
	}

	if assessment.AllClear {
		assessment.Summary = domain.AllClearSummary
	} else {
		assessment.Summary = fmt.Sprintf("%d alert(s) identified. Overall risk: %s (%d/%d).",
			len(assessment.Alerts), result.Risk.Tier, result.Score, result.Risk.MaxScore)
	}

	metrics.RecordAssessment(result.Risk.Tier.String(), result.Score)

	a.logger.WithFields(logrus.Fields{
		"assessment_id": assessment.ID,
		"matched_rules": result.MatchedIDs(),
		"score":         result.Score,
		"tier":          result.Risk.Tier.String(),
		"percentage":    result.Risk.Percentage,
		"duration_ms":   time.Since(startTime).Milliseconds(),
	}).Info("Completed profile assessment")

	return assessment, nil
}

// Rules returns the catalog the advisor evaluates against.
func (a *AdvisorService) Rules() []domain.Rule {
	return a.evaluator.Rules()
}

// MaxScore returns the evaluator's maximum score.
func (a *AdvisorService) MaxScore() int {
	return a.evaluator.MaxScore()
}

// AssessRisk maps an arbitrary score onto the gauge using the evaluator's maximum.
func (a *AdvisorService) AssessRisk(score int) domain.RiskAssessment {
	return NewRiskScorer(a.evaluator.MaxScore()).AssessRisk(score)
}
