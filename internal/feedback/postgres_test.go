package feedback

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellness-advisor-server/internal/database/dbtest"
	"github.com/wellness-advisor-server/internal/domain"
)

func TestPostgresStore_Lifecycle(t *testing.T) {
	db := dbtest.StartTestPostgres(t)
	ctx := context.Background()

	store, err := NewPostgresStore(ctx, db.Pool)
	require.NoError(t, err)

	fb := &Feedback{AssessmentID: "a-1", RuleID: "PGx-001", Helpful: false}
	require.NoError(t, store.Save(ctx, fb))
	assert.NotZero(t, fb.ID)
	originalID := fb.ID

	update := &Feedback{AssessmentID: "a-1", RuleID: "PGx-001", Helpful: true, Notes: "asked pharmacist"}
	require.NoError(t, store.Save(ctx, update))
	assert.Equal(t, originalID, update.ID, "Upsert should keep the original ID")

	got, err := store.Get(ctx, "a-1", "PGx-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Helpful)
	assert.Equal(t, "asked pharmacist", got.Notes)

	missing, err := store.Get(ctx, "a-1", "WL-004")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Save(ctx, &Feedback{AssessmentID: "a-2", RuleID: "WL-004"}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	entries, err := store.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	var buf bytes.Buffer
	_, err = store.ExportJSON(ctx, &buf)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, originalID))
	assert.ErrorIs(t, store.Delete(ctx, originalID), domain.ErrNotFound)

	imported, skipped, err := store.ImportJSON(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)
}

func TestPostgresStore_RejectsUnknownRule(t *testing.T) {
	db := dbtest.StartTestPostgres(t)
	ctx := context.Background()

	store, err := NewPostgresStore(ctx, db.Pool)
	require.NoError(t, err)

	err = store.Save(ctx, &Feedback{AssessmentID: "a-1", RuleID: "XX-1"})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestNewPostgresStore_NilPool(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), nil)
	assert.Error(t, err)
}
