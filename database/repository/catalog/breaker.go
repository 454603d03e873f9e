package catalogRepo

import (
	"context"
	"errors"
	"time"

	"booknest/services/session"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("Catalog is temporarily unavailable. Please try again shortly.")

// BreakerSettings configures Breaker.
type BreakerSettings struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Breaker stops calling a failing catalog for a while instead of letting
// every session wait on it.
type Breaker struct {
	next session.DataGateway
	cb   *gobreaker.CircuitBreaker
}

var _ session.DataGateway = (*Breaker)(nil)

func NewBreaker(next session.DataGateway, s BreakerSettings, logger *zap.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// A bad path or a cancelled session says nothing about the backend.
			return err == nil || errors.Is(err, ErrBadPath) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *Breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	res, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return res, err
}

func records(res interface{}, err error) ([]session.Record, error) {
	if err != nil {
		return nil, err
	}
	return res.([]session.Record), nil
}

func (b *Breaker) GetCollection(ctx context.Context, path string) ([]session.Record, error) {
	return records(b.execute(func() (interface{}, error) {
		return b.next.GetCollection(ctx, path)
	}))
}

func (b *Breaker) GetFiltered(ctx context.Context, path, field, equals string) ([]session.Record, error) {
	return records(b.execute(func() (interface{}, error) {
		return b.next.GetFiltered(ctx, path, field, equals)
	}))
}

func (b *Breaker) GetDocument(ctx context.Context, path, id string) (session.Record, error) {
	res, err := b.execute(func() (interface{}, error) {
		return b.next.GetDocument(ctx, path, id)
	})
	if err != nil || res == nil {
		return nil, err
	}
	return res.(session.Record), nil
}

// State reports the breaker state for health checks.
func (b *Breaker) State() string {
	return b.cb.State().String()
}
