package domain

import (
	"context"
)

// RuleEvaluator matches an input snapshot against the rule catalog
type RuleEvaluator interface {
	Evaluate(snapshot InputSnapshot) *EvaluationResult
	Rules() []Rule
	MaxScore() int
}

// RiskScorer maps a total score onto the risk gauge
type RiskScorer interface {
	AssessRisk(score int) RiskAssessment
}

// Advisor runs a full submission: parse, evaluate, score, and build the result cards
type Advisor interface {
	Analyze(ctx context.Context, input FormInput) (*Assessment, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetDatabaseConfig() *DatabaseConfig
	GetFeedbackConfig() *FeedbackConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	GetDatabaseURL() string
	IsProduction() bool
	IsDevelopment() bool
}
