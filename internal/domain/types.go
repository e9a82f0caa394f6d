// Package domain contains core business entities for the genomic wellness advisor:
// pharmacogenomic and lifestyle alert rules, the user's input snapshot, and the
// evaluation result produced for it.
//
// Rule content follows CPIC/PharmGKB pharmacogenomic guidance and published
// nutrigenomics literature; each rule carries its own citation.
package domain

import (
	"errors"
	"strings"
)

// AlertLevel represents the severity of an alert produced by a matched rule.
type AlertLevel string

const (
	CRITICAL          AlertLevel = "CRITICAL"
	HIGH_PRIORITY     AlertLevel = "HIGH_PRIORITY"
	LIFESTYLE_INSIGHT AlertLevel = "LIFESTYLE_INSIGHT"
)

// Gene identifies a tracked biomarker on the intake form.
type Gene string

const (
	CYP2D6 Gene = "CYP2D6"
	CYP1A2 Gene = "CYP1A2"
	MTHFR  Gene = "MTHFR"
	ADH1B  Gene = "ADH1B"
)

// TrackedGenes lists every biomarker the snapshot carries a status for, in form order.
var TrackedGenes = []Gene{CYP2D6, CYP1A2, MTHFR, ADH1B}

// Validation errors for rule and input integrity
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidAlertLevel = errors.New("invalid alert level")
	ErrUnknownRule       = errors.New("unknown rule")
	ErrStoreUnavailable  = errors.New("feedback store unavailable")
)

// IsValid reports whether the level is one of the fixed enumeration values.
func (l AlertLevel) IsValid() bool {
	switch l {
	case CRITICAL, HIGH_PRIORITY, LIFESTYLE_INSIGHT:
		return true
	default:
		return false
	}
}

// String returns the string representation of the alert level.
func (l AlertLevel) String() string {
	return string(l)
}

// LogFields returns structured logging fields for audit trails.
func (l AlertLevel) LogFields() map[string]any {
	return map[string]any{
		"alert_level":     string(l),
		"is_valid":        l.IsValid(),
		"display_class":   l.DisplayClass(),
		"requires_action": l.RequiresAction(),
	}
}

// DisplayClass returns the card style class a presenter should use for the level.
func (l AlertLevel) DisplayClass() string {
	switch l {
	case CRITICAL:
		return "alert-danger"
	case HIGH_PRIORITY:
		return "alert-warning"
	case LIFESTYLE_INSIGHT:
		return "alert-info"
	default:
		return ""
	}
}

// Icon returns the glyph shown in the card heading.
func (l AlertLevel) Icon() string {
	switch l {
	case CRITICAL:
		return "⚠️"
	case HIGH_PRIORITY:
		return "🚨"
	case LIFESTYLE_INSIGHT:
		return "💡"
	default:
		return ""
	}
}

// RequiresAction reports whether the alert asks the user to change a medication or habit now.
func (l AlertLevel) RequiresAction() bool {
	switch l {
	case CRITICAL, HIGH_PRIORITY:
		return true
	default:
		return false
	}
}

// IsValid reports whether the gene is one of the tracked biomarkers.
func (g Gene) IsValid() bool {
	for _, tracked := range TrackedGenes {
		if g == tracked {
			return true
		}
	}
	return false
}

// FormField returns the intake form field carrying the gene's status.
func (g Gene) FormField() string {
	return strings.ToLower(string(g)) + "_status"
}
