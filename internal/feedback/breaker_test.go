package feedback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wellness-advisor-server/internal/domain"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, fb *Feedback) error {
	return m.Called(ctx, fb).Error(0)
}

func (m *mockStore) Get(ctx context.Context, assessmentID, ruleID string) (*Feedback, error) {
	args := m.Called(ctx, assessmentID, ruleID)
	fb, _ := args.Get(0).(*Feedback)
	return fb, args.Error(1)
}

func (m *mockStore) List(ctx context.Context, limit, offset int) ([]*Feedback, error) {
	args := m.Called(ctx, limit, offset)
	entries, _ := args.Get(0).([]*Feedback)
	return entries, args.Error(1)
}

func (m *mockStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) ExportJSON(ctx context.Context, w io.Writer) (int, error) {
	args := m.Called(ctx, w)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) ImportJSON(ctx context.Context, r io.Reader) (int, int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

func TestBreakerStore_TripsOnConsecutiveFailures(t *testing.T) {
	inner := new(mockStore)
	inner.On("Count", mock.Anything).Return(int64(0), errors.New("connection refused"))

	logger, hook := test.NewNullLogger()
	store := NewBreakerStore(inner, BreakerSettings{
		ConsecutiveFailures: 2,
		Timeout:             time.Minute,
	}, logger)

	ctx := context.Background()
	_, err := store.Count(ctx)
	assert.EqualError(t, err, "connection refused")
	_, err = store.Count(ctx)
	assert.EqualError(t, err, "connection refused")

	assert.Equal(t, gobreaker.StateOpen, store.State())

	_, err = store.Count(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	inner.AssertNumberOfCalls(t, "Count", 2)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Feedback store circuit breaker changed state", hook.LastEntry().Message)
}

func TestBreakerStore_ValidationErrorsDoNotTrip(t *testing.T) {
	inner := new(mockStore)
	verr := domain.NewValidationError("rule_id", "unknown rule", "XX-1")
	inner.On("Save", mock.Anything, mock.Anything).Return(verr)
	inner.On("Delete", mock.Anything, int64(9)).Return(domain.ErrNotFound)

	store := NewBreakerStore(inner, BreakerSettings{ConsecutiveFailures: 1}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := store.Save(ctx, &Feedback{})
		var got *domain.ValidationError
		assert.ErrorAs(t, err, &got)
		assert.ErrorIs(t, store.Delete(ctx, 9), domain.ErrNotFound)
	}

	assert.Equal(t, gobreaker.StateClosed, store.State())
}

func TestBreakerStore_CallerCancellationDoesNotTrip(t *testing.T) {
	inner := new(mockStore)
	inner.On("Count", mock.Anything).Return(int64(0), fmt.Errorf("count feedback: %w", context.Canceled)).Once()
	inner.On("Count", mock.Anything).Return(int64(0), context.DeadlineExceeded)

	store := NewBreakerStore(inner, BreakerSettings{ConsecutiveFailures: 1, Timeout: time.Minute}, nil)
	ctx := context.Background()

	_, err := store.Count(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	for i := 0; i < 3; i++ {
		_, err = store.Count(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}

	assert.Equal(t, gobreaker.StateClosed, store.State())
	inner.AssertNumberOfCalls(t, "Count", 4)
}

func TestBreakerStore_PassesResultsThrough(t *testing.T) {
	inner := new(mockStore)
	want := &Feedback{ID: 3, AssessmentID: "a-1", RuleID: "WL-003"}
	inner.On("Get", mock.Anything, "a-1", "WL-003").Return(want, nil)
	inner.On("Get", mock.Anything, "a-1", "WL-004").Return(nil, nil)
	inner.On("List", mock.Anything, 5, 0).Return([]*Feedback{want}, nil)
	inner.On("Count", mock.Anything).Return(int64(1), nil)
	inner.On("Ping", mock.Anything).Return(nil)
	inner.On("Close").Return(nil)

	store := NewBreakerStore(inner, BreakerSettings{}, nil)
	ctx := context.Background()

	got, err := store.Get(ctx, "a-1", "WL-003")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	missing, err := store.Get(ctx, "a-1", "WL-004")
	require.NoError(t, err)
	assert.Nil(t, missing)

	entries, err := store.List(ctx, 5, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.NoError(t, store.Ping(ctx))
	assert.NoError(t, store.Close())
	inner.AssertExpectations(t)
}
