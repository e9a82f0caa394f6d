// Package metrics exposes the Prometheus collectors shared by the HTTP and MCP surfaces.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wellness_advisor"

var (
	assessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "assessments_total",
			Help:      "Total profile assessments by resulting risk tier",
		},
		[]string{"tier"},
	)

	ruleMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "rule_matches_total",
			Help:      "Total rule matches by rule and alert level",
		},
		[]string{"rule_id", "level"},
	)

	assessmentScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "assessment_score",
			Help:      "Distribution of total assessment scores",
			Buckets:   []float64{0, 15, 30, 50, 75, 100, 120},
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	rateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total requests rejected by the per-client rate limiter",
		},
	)

	feedbackOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feedback",
			Name:      "operations_total",
			Help:      "Feedback store operations by backend and outcome",
		},
		[]string{"backend", "operation", "result"},
	)

	mcpToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mcp",
			Name:      "tool_calls_total",
			Help:      "MCP tool invocations by tool and outcome",
		},
		[]string{"tool", "result"},
	)
)

// RecordAssessment records one completed assessment.
func RecordAssessment(tier string, score int) {
	assessmentsTotal.WithLabelValues(tier).Inc()
	assessmentScore.Observe(float64(score))
}

// RecordRuleMatch records a matched rule.
func RecordRuleMatch(ruleID, level string) {
	ruleMatchesTotal.WithLabelValues(ruleID, level).Inc()
}

// RecordHTTPRequest records a served request against its route template.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordRateLimited records a rejected request.
func RecordRateLimited() {
	rateLimitedTotal.Inc()
}

// RecordFeedbackOp records a feedback store call.
func RecordFeedbackOp(backend, operation string, err error) {
	feedbackOpsTotal.WithLabelValues(backend, operation, outcome(err)).Inc()
}

// RecordToolCall records an MCP tool invocation.
func RecordToolCall(tool string, err error) {
	mcpToolCallsTotal.WithLabelValues(tool, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
