// Package reliability decorates the overlay store with retry and
// circuit-breaker protection so a flaky backend degrades the session
// instead of hanging it.
package reliability

import (
	"context"
	"errors"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"
	"streamlay/pkg/circuitbreaker"
	"streamlay/pkg/retry"

	"go.uber.org/zap"
)

// ResilientStore wraps an OverlayStore with retry logic and a circuit
// breaker. Validation and not-found outcomes pass through untouched;
// only availability failures trip the breaker or trigger retries.
type ResilientStore struct {
	store  ports.OverlayStore
	logger *zap.SugaredLogger

	retryConfig    retry.Config
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewResilientStore creates a wrapper around the given store.
func NewResilientStore(
	store ports.OverlayStore,
	retryConfig retry.Config,
	cbConfig circuitbreaker.Config,
	logger *zap.SugaredLogger,
) *ResilientStore {
	wrapper := &ResilientStore{
		store:          store,
		logger:         logger,
		retryConfig:    retryConfig,
		circuitBreaker: circuitbreaker.New(cbConfig),
	}

	wrapper.circuitBreaker.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Infow("overlay store circuit breaker state changed",
			"from", from.String(),
			"to", to.String(),
		)
	})

	return wrapper
}

func (w *ResilientStore) List(ctx context.Context, ref domain.StreamRef) ([]domain.Overlay, error) {
	return execWithResult(ctx, w, func() ([]domain.Overlay, error) {
		return w.store.List(ctx, ref)
	})
}

func (w *ResilientStore) Create(ctx context.Context, draft domain.Draft) (domain.Overlay, error) {
	return execWithResult(ctx, w, func() (domain.Overlay, error) {
		return w.store.Create(ctx, draft)
	})
}

func (w *ResilientStore) Update(ctx context.Context, id domain.OverlayID, overlay domain.Overlay) (domain.Overlay, error) {
	return execWithResult(ctx, w, func() (domain.Overlay, error) {
		return w.store.Update(ctx, id, overlay)
	})
}

func (w *ResilientStore) Delete(ctx context.Context, id domain.OverlayID) error {
	if !w.retryConfig.Enabled {
		return w.store.Delete(ctx, id)
	}

	return retry.Retry(ctx, w.retryConfig, func() error {
		return w.execute(ctx, func() error {
			return w.store.Delete(ctx, id)
		})
	})
}

// execute runs fn through the circuit breaker, but keeps terminal
// outcomes out of the failure count: a rejected draft or a missing
// overlay says nothing about the store's health.
func (w *ResilientStore) execute(ctx context.Context, fn func() error) error {
	var terminal error
	err := w.circuitBreaker.Execute(ctx, func() error {
		if err := fn(); err != nil {
			if isTerminal(err) {
				terminal = err
				return nil
			}
			return err
		}
		return nil
	})
	if terminal != nil {
		return terminal
	}
	return err
}

func execWithResult[T any](ctx context.Context, w *ResilientStore, fn func() (T, error)) (T, error) {
	if !w.retryConfig.Enabled {
		return fn()
	}

	return retry.RetryWithResult(ctx, w.retryConfig, func() (T, error) {
		var out T
		err := w.execute(ctx, func() error {
			var innerErr error
			out, innerErr = fn()
			return innerErr
		})
		return out, err
	})
}

func isTerminal(err error) bool {
	return errors.Is(err, domain.ErrValidationRejected) ||
		errors.Is(err, domain.ErrOverlayNotFound)
}
