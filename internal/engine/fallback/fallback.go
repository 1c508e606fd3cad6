// Package fallback evaluates an ordered list of strategies and keeps the first success.
package fallback

import (
	"context"
	"errors"

	"go.trai.ch/zerr"
)

// ErrNoStrategySucceeded is returned when every strategy failed.
var ErrNoStrategySucceeded = zerr.New("no strategy succeeded")

// Strategy is one way of producing a T.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// First runs strategies in order and returns the first successful result
// together with the name of the strategy that produced it.
// A cancelled context stops evaluation before the next strategy starts.
func First[T any](ctx context.Context, strategies ...Strategy[T]) (T, string, error) {
	var zero T
	var errs []error

	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}

		v, err := s.Run(ctx)
		if err == nil {
			return v, s.Name, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return zero, "", err
		}
		errs = append(errs, zerr.With(err, "strategy", s.Name))
	}

	return zero, "", errors.Join(append([]error{ErrNoStrategySucceeded}, errs...)...)
}
