package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/firecast/internal/adapters/storage"
	"go.trai.ch/firecast/internal/adapters/telemetry"
	"go.trai.ch/firecast/internal/app"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func provide(application *app.App, logger *mocks.MockLogger) ComponentProvider {
	return func(_ context.Context) (*app.Components, func(), error) {
		return app.NewComponents(application, logger), func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	application := app.New(app.Deps{Settings: domain.DefaultSettings(), Logger: logger})

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provide(application, logger))
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that unexpected failures are logged and exit with 1.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Error(gomock.Any()).Times(1)
	application := app.New(app.Deps{Settings: domain.DefaultSettings(), Logger: logger})

	missing := filepath.Join(t.TempDir(), "missing.geojson")
	exitCode := run(context.Background(),
		[]string{"resolve", "Maricopa", "AZ", "--geometry", missing},
		new(bytes.Buffer), provide(application, logger))

	assert.Equal(t, 1, exitCode)
}

// TestRun_NotifiedFailureIsNotLoggedAgain verifies that failures already shown to the user exit quietly.
func TestRun_NotifiedFailureIsNotLoggedAgain(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	analytics := mocks.NewMockAnalytics(ctrl)

	dir := t.TempDir()
	notifier.EXPECT().Notify("No frames found below "+dir, true)
	analytics.EXPECT().Close().Return(nil)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	application := app.New(app.Deps{
		Settings:  domain.DefaultSettings(),
		Logger:    logger,
		Store:     storage.FileStore{},
		Notifier:  notifier,
		Tracer:    telemetry.NewOTelTracer("test"),
		Analytics: analytics,
	})

	exitCode := run(context.Background(), []string{"play", dir}, new(bytes.Buffer), provide(application, logger))
	assert.Equal(t, 1, exitCode)
}
