package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wellness-advisor-server/internal/domain"
)

// writeExport lists every entry from store and encodes the export document.
// It returns the number of entries written.
func writeExport(ctx context.Context, store Store, writer io.Writer) (int, error) {
	all, err := store.List(ctx, maxExportLimit, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list feedback: %w", err)
	}
	if all == nil {
		all = []*Feedback{}
	}

	export := &FeedbackExport{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC(),
		Count:      len(all),
		Feedback:   all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return 0, fmt.Errorf("failed to encode export: %w", err)
	}
	return export.Count, nil
}

// readImport decodes an export document and saves entries that do not exist yet.
// Entries that fail validation are counted as skipped.
func readImport(ctx context.Context, store Store, reader io.Reader) (imported int, skipped int, err error) {
	var export FeedbackExport
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrMalformedExport, err)
	}

	for _, fb := range export.Feedback {
		if fb == nil {
			continue
		}
		existing, err := store.Get(ctx, fb.AssessmentID, fb.RuleID)
		if err != nil {
			return imported, skipped, fmt.Errorf("failed to check existing: %w", err)
		}
		if existing != nil {
			skipped++
			continue
		}

		fb.ID = 0
		if err := store.Save(ctx, fb); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				skipped++
				continue
			}
			return imported, skipped, fmt.Errorf("failed to save: %w", err)
		}
		imported++
	}

	return imported, skipped, nil
}
