package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &SQLiteStore{db: db, dbPath: "mock"}, mock
}

func TestSQLiteStore_Save_CheckExistingFails(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT id, created_at FROM alert_feedback").
		WithArgs("a-1", "WL-003").
		WillReturnError(errors.New("database is locked"))

	err := store.Save(context.Background(), &Feedback{AssessmentID: "a-1", RuleID: "WL-003"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check existing")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_Save_InsertFails(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT id, created_at FROM alert_feedback").
		WithArgs("a-1", "WL-003").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))
	mock.ExpectExec("INSERT INTO alert_feedback").
		WillReturnError(errors.New("disk I/O error"))

	err := store.Save(context.Background(), &Feedback{AssessmentID: "a-1", RuleID: "WL-003"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_List_QueryFails(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM alert_feedback ORDER BY").
		WithArgs(10, 0).
		WillReturnError(errors.New("no such table"))

	entries, err := store.List(context.Background(), 10, 0)

	assert.Nil(t, entries)
	assert.ErrorContains(t, err, "failed to query")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_Delete_ExecFails(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectExec("DELETE FROM alert_feedback").
		WithArgs(int64(7)).
		WillReturnError(errors.New("readonly database"))

	err := store.Delete(context.Background(), 7)

	assert.ErrorContains(t, err, "failed to delete")
	assert.NoError(t, mock.ExpectationsWereMet())
}
