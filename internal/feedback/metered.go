package feedback

import (
	"context"
	"io"

	"github.com/wellness-advisor-server/internal/metrics"
)

// MeteredStore records an operation counter for every call to the wrapped store.
type MeteredStore struct {
	next    Store
	backend string
}

// NewMeteredStore wraps next, labelling its metrics with backend.
func NewMeteredStore(next Store, backend string) *MeteredStore {
	return &MeteredStore{next: next, backend: backend}
}

func (m *MeteredStore) record(op string, err error) {
	metrics.RecordFeedbackOp(m.backend, op, err)
}

// Save implements Store.
func (m *MeteredStore) Save(ctx context.Context, feedback *Feedback) error {
	err := m.next.Save(ctx, feedback)
	m.record("save", err)
	return err
}

// Get implements Store.
func (m *MeteredStore) Get(ctx context.Context, assessmentID, ruleID string) (*Feedback, error) {
	fb, err := m.next.Get(ctx, assessmentID, ruleID)
	m.record("get", err)
	return fb, err
}

// List implements Store.
func (m *MeteredStore) List(ctx context.Context, limit, offset int) ([]*Feedback, error) {
	entries, err := m.next.List(ctx, limit, offset)
	m.record("list", err)
	return entries, err
}

// Count implements Store.
func (m *MeteredStore) Count(ctx context.Context) (int64, error) {
	n, err := m.next.Count(ctx)
	m.record("count", err)
	return n, err
}

// Delete implements Store.
func (m *MeteredStore) Delete(ctx context.Context, id int64) error {
	err := m.next.Delete(ctx, id)
	m.record("delete", err)
	return err
}

// ExportJSON implements Store.
func (m *MeteredStore) ExportJSON(ctx context.Context, writer io.Writer) (int, error) {
	n, err := m.next.ExportJSON(ctx, writer)
	m.record("export", err)
	return n, err
}

// ImportJSON implements Store.
func (m *MeteredStore) ImportJSON(ctx context.Context, reader io.Reader) (int, int, error) {
	imported, skipped, err := m.next.ImportJSON(ctx, reader)
	m.record("import", err)
	return imported, skipped, err
}

// Ping implements Store.
func (m *MeteredStore) Ping(ctx context.Context) error {
	return m.next.Ping(ctx)
}

// Close implements Store.
func (m *MeteredStore) Close() error {
	return m.next.Close()
}
