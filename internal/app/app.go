// Package app implements the application layer for firecast.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.trai.ch/firecast/internal/adapters/analytics"
	"go.trai.ch/firecast/internal/adapters/telemetry"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/firecast/internal/engine/resolver"
	"go.trai.ch/firecast/internal/engine/sequencer"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Canvas is a renderer whose surface can be written out as an image.
type Canvas interface {
	ports.Renderer
	Snapshot(w io.Writer) error
}

// MetricsServer records engine metrics and serves them over HTTP.
type MetricsServer interface {
	ports.Metrics
	Serve(ctx context.Context, addr string) error
}

// JobServer is the development job service.
type JobServer interface {
	Serve(ctx context.Context, addr string) error
}

// Deps are the collaborators of an App.
type Deps struct {
	Settings  *domain.Settings
	Logger    ports.Logger
	Jobs      ports.JobService
	Previews  ports.PreviewSource
	Store     ports.RasterStore
	Canvas    Canvas
	Notifier  ports.Notifier
	Tracer    ports.Tracer
	Metrics   MetricsServer
	Analytics ports.Analytics
	Server    JobServer
}

// App represents the main application logic.
type App struct {
	deps      Deps
	telemetry func(context.Context, domain.TelemetrySettings) (telemetry.Shutdown, error)
}

// New creates a new App instance.
func New(deps Deps) *App {
	return &App{
		deps:      deps,
		telemetry: telemetry.Setup,
	}
}

// logConfigurer is implemented by loggers whose format and level can change at runtime.
type logConfigurer interface {
	SetJSON(enable bool)
	SetDebug(enable bool)
}

// ConfigureLogging switches the logger to JSON or debug output.
// Flags only ever enable what the settings left off.
func (a *App) ConfigureLogging(jsonOutput, debug bool) {
	lc, ok := a.deps.Logger.(logConfigurer)
	if !ok {
		return
	}
	lc.SetJSON(jsonOutput || a.deps.Settings.Log.JSON)
	lc.SetDebug(debug || a.deps.Settings.Log.Debug)
}

// ResolveOptions configuration for the Resolve method.
type ResolveOptions struct {
	Region       string
	Code         string
	GeometryPath string
	SnapshotPath string
}

// Resolve shows the forest-cover raster of one region.
func (a *App) Resolve(ctx context.Context, opts ResolveOptions) error {
	key, err := domain.NewEntityKey(opts.Region, opts.Code)
	if err != nil {
		return err
	}
	geometry, err := readGeometry(opts.GeometryPath)
	if err != nil {
		return err
	}

	return a.instrument(ctx, func(ctx context.Context) error {
		r := resolver.New(resolver.Deps{
			Jobs:     a.deps.Jobs,
			Previews: a.deps.Previews,
			Store:    a.deps.Store,
			Renderer: a.deps.Canvas,
			Notifier: a.deps.Notifier,
			Logger:   a.deps.Logger,
			Tracer:   a.deps.Tracer,
			Metrics:  a.deps.Metrics,
		}, resolver.Options{
			PollInterval: a.deps.Settings.Poll.Interval,
			MaxAttempts:  a.deps.Settings.Poll.MaxAttempts,
			Opacity:      a.deps.Settings.Playback.Opacity,
		})
		defer r.Teardown()

		res, err := r.Resolve(ctx, key, geometry)
		if err != nil && !errors.Is(err, domain.ErrExportFailed) && !errors.Is(err, domain.ErrExportTimeout) {
			return err
		}
		a.deps.Analytics.Capture(analytics.EventExportResolved, map[string]any{
			"entity":        key.String(),
			"outcome":       string(res.Outcome),
			"attempts":      res.Attempts,
			"preview_shown": res.PreviewShown,
		})
		if err != nil {
			return errors.Join(domain.ErrResolutionFailed, err)
		}

		a.deps.Logger.Info(fmt.Sprintf("%s resolved as %s at %s", key, res.Outcome, res.Address))
		return a.snapshot(opts.SnapshotPath)
	})
}

// PlayOptions configuration for the Play method.
// Zero values fall back to the configured playback settings.
type PlayOptions struct {
	BaseDir      string
	Interval     time.Duration
	FrameCap     int
	Opacity      float64
	SnapshotPath string
}

// Play discovers the frames below BaseDir and animates them once.
func (a *App) Play(ctx context.Context, opts PlayOptions) error {
	playback := a.deps.Settings.Playback
	if opts.Interval > 0 {
		playback.Interval = opts.Interval
	}
	if opts.FrameCap > 0 {
		playback.FrameCap = opts.FrameCap
	}
	if opts.Opacity > 0 {
		playback.Opacity = opts.Opacity
	}

	return a.instrument(ctx, func(ctx context.Context) error {
		seq := sequencer.New(sequencer.Deps{
			Store:    a.deps.Store,
			Renderer: a.deps.Canvas,
			Notifier: a.deps.Notifier,
			Logger:   a.deps.Logger,
			Tracer:   a.deps.Tracer,
			Metrics:  a.deps.Metrics,
		}, sequencer.Options{
			Interval: playback.Interval,
			FrameCap: playback.FrameCap,
			Opacity:  playback.Opacity,
			Mirrors:  playback.Mirrors,
		})
		defer seq.Reset()

		set, err := seq.Discover(ctx, opts.BaseDir)
		if err != nil {
			if errors.Is(err, domain.ErrEmptyResult) {
				a.deps.Notifier.Notify(fmt.Sprintf("No frames found below %s", opts.BaseDir), true)
				return errors.Join(domain.ErrPlaybackFailed, err)
			}
			return err
		}

		if err := seq.Play(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			seq.Stop()
			return ctx.Err()
		case <-seq.Done():
		}

		a.deps.Analytics.Capture(analytics.EventPlaybackCompleted, map[string]any{
			"base_dir": opts.BaseDir,
			"frames":   set.Len(),
		})
		return a.snapshot(opts.SnapshotPath)
	})
}

// ServeOptions configuration for the Serve method.
type ServeOptions struct {
	Addr string
}

// Serve runs the development job service until ctx is cancelled.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	addr := opts.Addr
	if addr == "" {
		addr = a.deps.Settings.Server.Addr
	}
	return a.instrument(ctx, func(ctx context.Context) error {
		return a.deps.Server.Serve(ctx, addr)
	})
}

// instrument runs fn with tracing installed and, when configured, the metrics endpoint served alongside.
func (a *App) instrument(ctx context.Context, fn func(context.Context) error) (err error) {
	shutdown, err := a.telemetry(ctx, a.deps.Settings.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, shutdown(context.WithoutCancel(ctx)), a.deps.Analytics.Close())
	}()

	addr := a.deps.Settings.Metrics.Addr
	if addr == "" {
		return fn(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	metricsCtx, stopMetrics := context.WithCancel(gctx)
	g.Go(func() error {
		return a.deps.Metrics.Serve(metricsCtx, addr)
	})
	g.Go(func() error {
		defer stopMetrics()
		return fn(gctx)
	})
	return g.Wait()
}

func (a *App) snapshot(path string) error {
	if path == "" {
		return nil
	}
	a.deps.Canvas.Redraw()

	f, err := os.Create(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create snapshot"), "path", path)
	}
	if err := a.deps.Canvas.Snapshot(f); err != nil {
		_ = f.Close()
		return zerr.With(err, "path", path)
	}
	if err := f.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write snapshot"), "path", path)
	}
	a.deps.Logger.Info("snapshot written to " + path)
	return nil
}

// readGeometry reads a GeoJSON geometry, or the geometry of a GeoJSON feature, from path.
func readGeometry(path string) (domain.Geometry, error) {
	if path == "" {
		return domain.Geometry{}, zerr.Wrap(domain.ErrMissingGeometry, "no geometry file given")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Geometry{}, zerr.With(zerr.Wrap(err, "failed to read geometry"), "path", path)
	}

	var doc struct {
		Type        string           `json:"type"`
		Coordinates json.RawMessage  `json:"coordinates"`
		Geometry    *domain.Geometry `json:"geometry"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Geometry{}, zerr.With(errors.Join(domain.ErrMissingGeometry, err), "path", path)
	}

	g := domain.Geometry{Type: doc.Type, Coordinates: doc.Coordinates}
	if doc.Type == "Feature" && doc.Geometry != nil {
		g = *doc.Geometry
	}
	if err := g.Validate(); err != nil {
		return domain.Geometry{}, zerr.With(zerr.Wrap(err, "geometry has no shape"), "path", path)
	}
	return g, nil
}
