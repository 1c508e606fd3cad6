package fallback_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/firecast/internal/engine/fallback"
)

func constant(name, v string, err error, calls *[]string) fallback.Strategy[string] {
	return fallback.Strategy[string]{
		Name: name,
		Run: func(_ context.Context) (string, error) {
			*calls = append(*calls, name)
			return v, err
		},
	}
}

func TestFirst_FirstSuccessWins(t *testing.T) {
	var calls []string
	v, name, err := fallback.First(context.Background(),
		constant("cache", "", errors.New("miss"), &calls),
		constant("export", "raster", nil, &calls),
		constant("never", "other", nil, &calls),
	)

	require.NoError(t, err)
	assert.Equal(t, "raster", v)
	assert.Equal(t, "export", name)
	assert.Equal(t, []string{"cache", "export"}, calls)
}

func TestFirst_AllFail(t *testing.T) {
	var calls []string
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	_, name, err := fallback.First(context.Background(),
		constant("a", "", errA, &calls),
		constant("b", "", errB, &calls),
	)

	require.Error(t, err)
	assert.Empty(t, name)
	assert.ErrorIs(t, err, fallback.ErrNoStrategySucceeded)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestFirst_NoStrategies(t *testing.T) {
	_, _, err := fallback.First[int](context.Background())
	assert.ErrorIs(t, err, fallback.ErrNoStrategySucceeded)
}

func TestFirst_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls []string

	first := fallback.Strategy[string]{
		Name: "first",
		Run: func(ctx context.Context) (string, error) {
			calls = append(calls, "first")
			cancel()
			return "", ctx.Err()
		},
	}

	_, _, err := fallback.First(ctx, first, constant("second", "x", nil, &calls))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, fallback.ErrNoStrategySucceeded)
	assert.Equal(t, []string{"first"}, calls)
}
