// Package metrics exposes engine counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/zerr"
)

const shutdownTimeout = 5 * time.Second

// Prometheus implements ports.Metrics on a private registry.
type Prometheus struct {
	registry    *prometheus.Registry
	polls       *prometheus.CounterVec
	resolutions *prometheus.HistogramVec
	frames      prometheus.Gauge
	reveals     prometheus.Counter
}

// New creates the collectors and registers them with a fresh registry.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		polls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "firecast_poll_checks_total",
			Help: "Status checks issued by the poll loop, by outcome",
		}, []string{"outcome"}),
		resolutions: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "firecast_resolution_duration_seconds",
			Help:    "Time from selection to a terminal resolution, by outcome",
			Buckets: []float64{0.1, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"outcome"}),
		frames: factory.NewGauge(prometheus.GaugeOpts{
			Name: "firecast_frames_discovered",
			Help: "Frames found by the last discovery run",
		}),
		reveals: factory.NewCounter(prometheus.CounterOpts{
			Name: "firecast_frames_revealed_total",
			Help: "Frames revealed during playback",
		}),
	}
}

// Registry returns the registry holding the collectors.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// PollObserved counts one status check.
func (p *Prometheus) PollObserved(outcome domain.PollOutcome) {
	p.polls.WithLabelValues(string(outcome)).Inc()
}

// ResolutionObserved records a terminal resolution.
func (p *Prometheus) ResolutionObserved(outcome domain.ResolutionOutcome, elapsed time.Duration) {
	p.resolutions.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
}

// FramesDiscovered records the size of a frame set.
func (p *Prometheus) FramesDiscovered(n int) {
	p.frames.Set(float64(n))
}

// FrameRevealed counts one reveal.
func (p *Prometheus) FrameRevealed() {
	p.reveals.Inc()
}

// Handler serves /metrics and /healthz.
func (p *Prometheus) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Serve listens on addr until ctx is cancelled.
func (p *Prometheus) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           p.Handler(),
		ReadHeaderTimeout: shutdownTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return zerr.With(zerr.Wrap(err, "metrics server stopped"), "addr", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return zerr.Wrap(err, "metrics server shutdown")
		}
		return nil
	}
}
