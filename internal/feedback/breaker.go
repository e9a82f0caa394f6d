package feedback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/wellness-advisor-server/internal/domain"
)

// BreakerSettings tunes the circuit breaker around a store.
type BreakerSettings struct {
	Name string
	// MaxRequests allowed through while half-open
	MaxRequests uint32
	// Interval clears the failure counts while closed
	Interval time.Duration
	// Timeout is how long the breaker stays open
	Timeout time.Duration
	// ConsecutiveFailures trips the breaker
	ConsecutiveFailures uint32
}

// BreakerStore fails fast with domain.ErrStoreUnavailable once the wrapped store has
// failed repeatedly. Validation errors and missing entries do not count as failures.
type BreakerStore struct {
	next   Store
	cb     *gobreaker.CircuitBreaker
	logger *logrus.Logger
}

// NewBreakerStore wraps next with a circuit breaker.
func NewBreakerStore(next Store, settings BreakerSettings, logger *logrus.Logger) *BreakerStore {
	if logger == nil {
		logger = logrus.New()
	}
	if settings.Name == "" {
		settings.Name = "feedback-store"
	}
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 5
	}

	threshold := settings.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Feedback store circuit breaker changed state")
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Caller-side outcomes say nothing about backend health.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return true
			}
			var verr *domain.ValidationError
			return errors.As(err, &verr) || errors.Is(err, domain.ErrNotFound)
		},
	})

	return &BreakerStore{next: next, cb: cb, logger: logger}
}

// State reports the breaker state.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return result, err
}

// Save implements Store.
func (b *BreakerStore) Save(ctx context.Context, feedback *Feedback) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.next.Save(ctx, feedback)
	})
	return err
}

// Get implements Store.
func (b *BreakerStore) Get(ctx context.Context, assessmentID, ruleID string) (*Feedback, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.next.Get(ctx, assessmentID, ruleID)
	})
	if err != nil {
		return nil, err
	}
	fb, _ := result.(*Feedback)
	return fb, nil
}

// List implements Store.
func (b *BreakerStore) List(ctx context.Context, limit, offset int) ([]*Feedback, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.next.List(ctx, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	entries, _ := result.([]*Feedback)
	return entries, nil
}

// Count implements Store.
func (b *BreakerStore) Count(ctx context.Context) (int64, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.next.Count(ctx)
	})
	if err != nil {
		return 0, err
	}
	count, _ := result.(int64)
	return count, nil
}

// Delete implements Store.
func (b *BreakerStore) Delete(ctx context.Context, id int64) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.next.Delete(ctx, id)
	})
	return err
}

// ExportJSON implements Store.
func (b *BreakerStore) ExportJSON(ctx context.Context, writer io.Writer) (int, error) {
	return writeExport(ctx, b, writer)
}

// ImportJSON implements Store.
func (b *BreakerStore) ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error) {
	return readImport(ctx, b, reader)
}

// Ping implements Store.
func (b *BreakerStore) Ping(ctx context.Context) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.next.Ping(ctx)
	})
	return err
}

// Close closes the wrapped store.
func (b *BreakerStore) Close() error {
	return b.next.Close()
}
