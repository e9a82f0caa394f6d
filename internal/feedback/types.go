// Package feedback stores user ratings of the alerts produced by an assessment.
// Each assessment/rule pair holds at most one rating; saving again updates it.
package feedback

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/wellness-advisor-server/internal/domain"
	"github.com/wellness-advisor-server/internal/service"
)

// Feedback represents a user's rating of one alert card.
type Feedback struct {
	ID           int64     `json:"id,omitempty"`
	AssessmentID string    `json:"assessment_id"`
	RuleID       string    `json:"rule_id"`
	Helpful      bool      `json:"helpful"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ErrMalformedExport is returned by ImportJSON when the input is not an export document.
var ErrMalformedExport = errors.New("malformed feedback export")

// maxNotesLength bounds free-text notes.
const maxNotesLength = 2000

// Validate checks that the feedback refers to a catalog rule and an assessment.
func (f *Feedback) Validate() error {
	if strings.TrimSpace(f.AssessmentID) == "" {
		return domain.NewValidationError("assessment_id", "assessment ID is required", f.AssessmentID)
	}
	if _, err := service.LookupRule(f.RuleID); err != nil {
		return domain.NewValidationError("rule_id", "unknown rule", f.RuleID)
	}
	if len(f.Notes) > maxNotesLength {
		return domain.NewValidationError("notes", "notes exceed maximum length", len(f.Notes))
	}
	return nil
}

// Store defines the interface for feedback storage operations.
type Store interface {
	// Save stores or updates feedback. An existing entry for the same
	// assessment and rule is updated in place.
	Save(ctx context.Context, feedback *Feedback) error

	// Get retrieves the feedback for an assessment's alert, or nil when none exists.
	Get(ctx context.Context, assessmentID, ruleID string) (*Feedback, error)

	// List returns feedback entries, newest first.
	List(ctx context.Context, limit, offset int) ([]*Feedback, error)

	// Count returns the total number of feedback entries.
	Count(ctx context.Context) (int64, error)

	// Delete removes a feedback entry by ID. Returns domain.ErrNotFound if no entry matched.
	Delete(ctx context.Context, id int64) error

	// ExportJSON exports all feedback to a JSON writer and returns how many entries it wrote.
	ExportJSON(ctx context.Context, writer io.Writer) (int, error)

	// ImportJSON imports feedback from a JSON reader, skipping entries that already exist.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close closes the store and releases resources.
	Close() error
}

// FeedbackExport represents the JSON export format.
type FeedbackExport struct {
	Version    string      `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Count      int         `json:"count"`
	Feedback   []*Feedback `json:"feedback"`
}

// exportVersion is written into every export document.
const exportVersion = "1.0"

// maxExportLimit is the maximum number of entries to export at once.
const maxExportLimit = 1000000
