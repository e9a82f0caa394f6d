package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wellness-advisor-server/internal/domain"
)

// RuleEngine evaluates an input snapshot against the rule catalog.
// Rules are independent; every matching rule fires and the score is the sum of their weights.
type RuleEngine struct {
	logger   *logrus.Logger
	rules    []domain.Rule
	maxScore int
}

// NewRuleEngine creates an engine over the built-in catalog.
func NewRuleEngine(logger *logrus.Logger) *RuleEngine {
	return NewRuleEngineWithRules(logger, Catalog())
}

// NewRuleEngineWithRules creates an engine over an explicit rule list, used by tests
// that need a catalog of a different shape.
func NewRuleEngineWithRules(logger *logrus.Logger, rules []domain.Rule) *RuleEngine {
	if logger == nil {
		logger = logrus.New()
	}
	return &RuleEngine{
		logger:   logger,
		rules:    rules,
		maxScore: sumWeights(rules),
	}
}

// Evaluate returns the matched rules in catalog order, their total weight and the risk reading.
func (e *RuleEngine) Evaluate(snapshot domain.InputSnapshot) *domain.EvaluationResult {
	result := &domain.EvaluationResult{
		Matches: make([]domain.Rule, 0, len(e.rules)),
	}

	for _, rule := range e.rules {
		if !e.matches(rule.Condition, snapshot) {
			continue
		}
		result.Matches = append(result.Matches, rule)
		result.Score += rule.Weight

		e.logger.WithFields(logrus.Fields{
			"rule_id": rule.ID,
			"gene":    rule.Condition.Gene,
			"weight":  rule.Weight,
		}).WithFields(logrus.Fields(rule.Level.LogFields())).Debug("Rule matched")
	}

	result.Risk = AssessRisk(result.Score, e.maxScore)

	e.logger.WithFields(logrus.Fields{
		"total_rules":   len(e.rules),
		"matched_rules": len(result.Matches),
		"score":         result.Score,
		"tier":          result.Risk.Tier.String(),
	}).Debug("Completed rule evaluation")

	return result
}

// Rules returns a copy of the rules this engine evaluates.
func (e *RuleEngine) Rules() []domain.Rule {
	rules := make([]domain.Rule, len(e.rules))
	copy(rules, e.rules)
	return rules
}

// MaxScore returns the score reached when every rule matches.
func (e *RuleEngine) MaxScore() int {
	return e.maxScore
}

func (e *RuleEngine) matches(c domain.Condition, s domain.InputSnapshot) bool {
	switch c.Kind {
	case domain.ALLELE_DRUG:
		return matchAlleleDrug(c, s)
	case domain.ALLELE_THRESHOLD:
		return matchAlleleThreshold(c, s)
	case domain.ALLELE_ONLY:
		return matchAllele(c, s)
	default:
		e.logger.WithField("kind", c.Kind).Warn("Skipping condition of unknown kind")
		return false
	}
}

// Status comparison is exact and case-sensitive.
func matchAllele(c domain.Condition, s domain.InputSnapshot) bool {
	return s.Status(c.Gene) == c.Allele
}

// The drug is a case-insensitive substring of the medication text.
func matchAlleleDrug(c domain.Condition, s domain.InputSnapshot) bool {
	if !matchAllele(c, s) {
		return false
	}
	return strings.Contains(strings.ToLower(s.Medications), strings.ToLower(c.Drug))
}

func matchAlleleThreshold(c domain.Condition, s domain.InputSnapshot) bool {
	if !matchAllele(c, s) {
		return false
	}
	return s.Numeric(c.Field).AtLeast(c.Threshold)
}
