package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellness-advisor-server/internal/domain"
)

func TestNewSQLiteStore(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "feedback-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)

	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")
	assert.Equal(t, dbPath, store.Path())
	assert.NoError(t, store.Ping(context.Background()))
}

func TestSQLiteStore_Save(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	fb := &Feedback{
		AssessmentID: "a-1",
		RuleID:       "PGx-001",
		Helpful:      true,
		Notes:        "Switched to ibuprofen",
	}

	err := store.Save(context.Background(), fb)

	require.NoError(t, err)
	assert.NotZero(t, fb.ID, "ID should be assigned")
	assert.False(t, fb.CreatedAt.IsZero(), "CreatedAt should be set")
	assert.False(t, fb.UpdatedAt.IsZero(), "UpdatedAt should be set")
}

func TestSQLiteStore_Save_Update(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	first := &Feedback{AssessmentID: "a-1", RuleID: "WL-002", Helpful: false}
	require.NoError(t, store.Save(ctx, first))
	originalID := first.ID

	time.Sleep(10 * time.Millisecond)

	second := &Feedback{AssessmentID: "a-1", RuleID: "WL-002", Helpful: true, Notes: "Moved coffee to mornings"}
	require.NoError(t, store.Save(ctx, second))

	assert.Equal(t, originalID, second.ID, "Upsert should keep the original ID")

	got, err := store.Get(ctx, "a-1", "WL-002")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Helpful)
	assert.Equal(t, "Moved coffee to mornings", got.Notes)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSQLiteStore_Save_Validation(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	tests := []struct {
		name  string
		fb    *Feedback
		field string
	}{
		{"unknown rule", &Feedback{AssessmentID: "a-1", RuleID: "XX-999"}, "rule_id"},
		{"missing assessment", &Feedback{RuleID: "WL-003"}, "assessment_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Save(ctx, tt.fb)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLiteStore_Get_NotFound(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	got, err := store.Get(context.Background(), "missing", "PGx-001")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_List_Pagination(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	for _, ruleID := range []string{"PGx-001", "WL-002", "WL-003", "WL-004"} {
		require.NoError(t, store.Save(ctx, &Feedback{AssessmentID: "a-1", RuleID: ruleID, Helpful: true}))
	}

	page1, err := store.List(ctx, 2, 0)
	require.NoError(t, err)
	page2, err := store.List(ctx, 2, 2)
	require.NoError(t, err)

	assert.Len(t, page1, 2)
	assert.Len(t, page2, 2)

	seen := map[string]bool{}
	for _, fb := range append(page1, page2...) {
		seen[fb.RuleID] = true
	}
	assert.Len(t, seen, 4, "pages should not overlap")
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	fb := &Feedback{AssessmentID: "a-1", RuleID: "WL-004"}
	require.NoError(t, store.Save(ctx, fb))

	require.NoError(t, store.Delete(ctx, fb.ID))

	got, err := store.Get(ctx, "a-1", "WL-004")
	require.NoError(t, err)
	assert.Nil(t, got)

	err = store.Delete(ctx, fb.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteStore_ExportJSON(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Feedback{AssessmentID: "a-1", RuleID: "PGx-001", Helpful: true}))
	require.NoError(t, store.Save(ctx, &Feedback{AssessmentID: "a-2", RuleID: "WL-003"}))

	var buf bytes.Buffer
	written, err := store.ExportJSON(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	var export FeedbackExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &export))
	assert.Equal(t, "1.0", export.Version)
	assert.Equal(t, 2, export.Count)
	assert.Len(t, export.Feedback, 2)
}

func TestSQLiteStore_ExportJSON_Empty(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	var buf bytes.Buffer
	written, err := store.ExportJSON(context.Background(), &buf)
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Contains(t, buf.String(), `"feedback": []`)
}

func TestSQLiteStore_ImportJSON_SkipDuplicates(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Feedback{AssessmentID: "a-1", RuleID: "PGx-001", Helpful: true}))

	jsonData := `{
		"version": "1.0",
		"count": 3,
		"feedback": [
			{"assessment_id": "a-1", "rule_id": "PGx-001", "helpful": false},
			{"assessment_id": "a-2", "rule_id": "WL-002", "helpful": true, "notes": "imported"},
			{"assessment_id": "a-3", "rule_id": "NOPE-1", "helpful": true}
		]
	}`

	imported, skipped, err := store.ImportJSON(ctx, bytes.NewReader([]byte(jsonData)))

	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 2, skipped)

	existing, err := store.Get(ctx, "a-1", "PGx-001")
	require.NoError(t, err)
	assert.True(t, existing.Helpful, "Existing should not be overwritten")

	added, err := store.Get(ctx, "a-2", "WL-002")
	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, "imported", added.Notes)
}

func TestSQLiteStore_ImportJSON_InvalidDocument(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	_, _, err := store.ImportJSON(context.Background(), bytes.NewReader([]byte("not json")))
	assert.ErrorIs(t, err, ErrMalformedExport)
}

// Helper function to create a test store
func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "feedback-test-*")
	require.NoError(t, err)

	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	return store
}
