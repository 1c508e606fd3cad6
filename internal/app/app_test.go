package app_test

import (
	"context"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/firecast/internal/adapters/analytics"
	"go.trai.ch/firecast/internal/adapters/jobserver"
	"go.trai.ch/firecast/internal/adapters/render"
	"go.trai.ch/firecast/internal/adapters/storage"
	"go.trai.ch/firecast/internal/adapters/telemetry"
	"go.trai.ch/firecast/internal/app"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/firecast/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const geometryJSON = `{"type":"Feature","properties":{"name":"Maricopa"},"geometry":{"type":"Polygon","coordinates":[[[-112.3,33.2],[-111.9,33.2],[-111.9,33.6],[-112.3,33.2]]]}}`

type fakeMetrics struct {
	mu     sync.Mutex
	served []string
}

func (*fakeMetrics) PollObserved(domain.PollOutcome)                             {}
func (*fakeMetrics) ResolutionObserved(domain.ResolutionOutcome, time.Duration) {}
func (*fakeMetrics) FramesDiscovered(int)                                        {}
func (*fakeMetrics) FrameRevealed()                                              {}

func (m *fakeMetrics) Serve(ctx context.Context, addr string) error {
	m.mu.Lock()
	m.served = append(m.served, addr)
	m.mu.Unlock()
	<-ctx.Done()
	return nil
}

type fakeServer struct {
	addr string
}

func (s *fakeServer) Serve(_ context.Context, addr string) error {
	s.addr = addr
	return nil
}

type fixture struct {
	settings  *domain.Settings
	jobs      *mocks.MockJobService
	previews  *mocks.MockPreviewSource
	store     *mocks.MockRasterStore
	notifier  *mocks.MockNotifier
	analytics *mocks.MockAnalytics
	metrics   *fakeMetrics
	server    *fakeServer
	surface   *render.Surface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	settings := domain.DefaultSettings()
	settings.Poll.Interval = time.Second
	settings.Poll.MaxAttempts = 3
	settings.Playback.Interval = time.Second

	return &fixture{
		settings:  settings,
		jobs:      mocks.NewMockJobService(ctrl),
		previews:  mocks.NewMockPreviewSource(ctrl),
		store:     mocks.NewMockRasterStore(ctrl),
		notifier:  mocks.NewMockNotifier(ctrl),
		analytics: mocks.NewMockAnalytics(ctrl),
		metrics:   &fakeMetrics{},
		server:    &fakeServer{},
		surface:   render.NewSurface(16),
	}
}

func (f *fixture) app(t *testing.T, store ports.RasterStore) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	if store == nil {
		store = f.store
	}
	return app.New(app.Deps{
		Settings:  f.settings,
		Logger:    logger,
		Jobs:      f.jobs,
		Previews:  f.previews,
		Store:     store,
		Canvas:    f.surface,
		Notifier:  f.notifier,
		Tracer:    telemetry.NewOTelTracer("test"),
		Metrics:   f.metrics,
		Analytics: f.analytics,
		Server:    f.server,
	})
}

func writeGeometry(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "maricopa.geojson")
	require.NoError(t, os.WriteFile(path, []byte(geometryJSON), domain.FilePerm))
	return path
}

func raster(t *testing.T, seed string) []byte {
	t.Helper()
	data, err := jobserver.Synthesize(seed, 8)
	require.NoError(t, err)
	return data
}

func TestApp_ResolveCached(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		snapshot := filepath.Join(t.TempDir(), "maricopa.png")

		f.jobs.EXPECT().ProbeExists(gomock.Any(), "/exports/Maricopa_AZ.tif").Return(true)
		f.store.EXPECT().Fetch(gomock.Any(), "/exports/Maricopa_AZ.tif").Return(raster(t, "Maricopa_AZ"), nil)
		f.notifier.EXPECT().Notify("Loaded cached forest cover for Maricopa_AZ", false)
		f.analytics.EXPECT().Capture(analytics.EventExportResolved, map[string]any{
			"entity":        "Maricopa_AZ",
			"outcome":       "cached",
			"attempts":      0,
			"preview_shown": false,
		})
		f.analytics.EXPECT().Close().Return(nil)

		err := f.app(t, nil).Resolve(context.Background(), app.ResolveOptions{
			Region:       "Maricopa",
			Code:         "az",
			GeometryPath: writeGeometry(t),
			SnapshotPath: snapshot,
		})
		require.NoError(t, err)

		file, err := os.Open(snapshot)
		require.NoError(t, err)
		defer file.Close()
		_, err = png.Decode(file)
		require.NoError(t, err)
	})
}

func TestApp_ResolveTimeoutIsReported(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)

		f.jobs.EXPECT().ProbeExists(gomock.Any(), gomock.Any()).Return(false)
		f.jobs.EXPECT().StartExport(gomock.Any(), domain.EntityKey("Maricopa_AZ"), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.EntityKey, g domain.Geometry) (domain.StartResponse, error) {
				assert.Equal(t, "Polygon", g.Type)
				return domain.StartResponse{Status: "PROCESSING", JobID: "T1"}, nil
			})
		f.jobs.EXPECT().CheckStatus(gomock.Any(), "T1", domain.EntityKey("Maricopa_AZ")).
			Return(domain.StatusResponse{Status: "PROCESSING"}, nil).Times(3)
		f.previews.EXPECT().FetchPreview(gomock.Any(), gomock.Any()).Return("", nil)
		f.notifier.EXPECT().Notify("Export for Maricopa_AZ timed out after 3 attempts", true)
		f.analytics.EXPECT().Capture(analytics.EventExportResolved, gomock.Any())
		f.analytics.EXPECT().Close().Return(nil)

		err := f.app(t, nil).Resolve(context.Background(), app.ResolveOptions{
			Region:       "Maricopa",
			Code:         "AZ",
			GeometryPath: writeGeometry(t),
		})
		require.ErrorIs(t, err, domain.ErrResolutionFailed)
		require.ErrorIs(t, err, domain.ErrExportTimeout)
	})
}

func TestApp_ResolveRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	a := f.app(t, nil)

	err := a.Resolve(context.Background(), app.ResolveOptions{Region: "", Code: "AZ"})
	require.ErrorIs(t, err, domain.ErrInvalidEntityKey)

	err = a.Resolve(context.Background(), app.ResolveOptions{Region: "Maricopa", Code: "AZ"})
	require.ErrorIs(t, err, domain.ErrMissingGeometry)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"type":"Polygon","coordinates":null}`), domain.FilePerm))
	err = a.Resolve(context.Background(), app.ResolveOptions{Region: "Maricopa", Code: "AZ", GeometryPath: empty})
	require.ErrorIs(t, err, domain.ErrMissingGeometry)
}

func TestApp_Play(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		dir := t.TempDir()
		for i := range 3 {
			path := domain.FrameAddress(dir, i)
			require.NoError(t, os.WriteFile(path, raster(t, path), domain.FilePerm))
		}

		f.notifier.EXPECT().Notify("Playback finished after 3 frames", false)
		f.analytics.EXPECT().Capture(analytics.EventPlaybackCompleted, map[string]any{
			"base_dir": dir,
			"frames":   3,
		})
		f.analytics.EXPECT().Close().Return(nil)

		started := time.Now()
		err := f.app(t, storage.FileStore{}).Play(context.Background(), app.PlayOptions{BaseDir: dir})
		require.NoError(t, err)
		assert.Equal(t, 3*time.Second, time.Since(started))
		assert.Equal(t, 0, f.surface.Layers())
	})
}

func TestApp_PlayWithoutFrames(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		dir := t.TempDir()

		f.notifier.EXPECT().Notify("No frames found below "+dir, true)
		f.analytics.EXPECT().Close().Return(nil)

		err := f.app(t, storage.FileStore{}).Play(context.Background(), app.PlayOptions{BaseDir: dir})
		require.ErrorIs(t, err, domain.ErrPlaybackFailed)
		require.ErrorIs(t, err, domain.ErrEmptyResult)
	})
}

func TestApp_PlayStopsOnCancel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		dir := t.TempDir()
		for i := range 5 {
			path := domain.FrameAddress(dir, i)
			require.NoError(t, os.WriteFile(path, raster(t, path), domain.FilePerm))
		}
		f.analytics.EXPECT().Close().Return(nil)

		ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
		defer cancel()

		err := f.app(t, storage.FileStore{}).Play(ctx, app.PlayOptions{BaseDir: dir, Interval: time.Second})
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestApp_ServeUsesConfiguredAddress(t *testing.T) {
	f := newFixture(t)
	f.analytics.EXPECT().Close().Return(nil).Times(2)
	a := f.app(t, nil)

	require.NoError(t, a.Serve(context.Background(), app.ServeOptions{}))
	assert.Equal(t, domain.DefaultServerAddr, f.server.addr)

	require.NoError(t, a.Serve(context.Background(), app.ServeOptions{Addr: ":6000"}))
	assert.Equal(t, ":6000", f.server.addr)
}

func TestApp_MetricsServedAlongside(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.settings.Metrics.Addr = ":9464"
		f.analytics.EXPECT().Close().Return(nil)

		require.NoError(t, f.app(t, nil).Serve(context.Background(), app.ServeOptions{}))
		assert.Equal(t, []string{":9464"}, f.metrics.served)
	})
}

type recordingLogger struct {
	ports.Logger
	json, debug bool
}

func (l *recordingLogger) SetJSON(v bool)  { l.json = v }
func (l *recordingLogger) SetDebug(v bool) { l.debug = v }

func TestApp_ConfigureLogging(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Log.Debug = true
	log := &recordingLogger{}

	a := app.New(app.Deps{Settings: settings, Logger: log})
	a.ConfigureLogging(true, false)

	assert.True(t, log.json)
	assert.True(t, log.debug)
}

func TestGeometryFixtureIsValid(t *testing.T) {
	var doc struct {
		Geometry domain.Geometry `json:"geometry"`
	}
	require.NoError(t, json.Unmarshal([]byte(geometryJSON), &doc))
	require.NoError(t, doc.Geometry.Validate())
}
