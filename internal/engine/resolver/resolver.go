// Package resolver makes an entity's raster visible as fast as possible.
// A cached raster is shown directly; otherwise an export is started and
// polled while a low-fidelity preview stands in for it.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/firecast/internal/engine/fallback"
	"go.trai.ch/firecast/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// Deps are the collaborators of a Resolver.
type Deps struct {
	Jobs     ports.JobService
	Previews ports.PreviewSource
	Store    ports.RasterStore
	Renderer ports.Renderer
	Notifier ports.Notifier
	Logger   ports.Logger
	Tracer   ports.Tracer
	Metrics  ports.Metrics
}

// Options tune the poll loop and the displayed layers.
type Options struct {
	PollInterval time.Duration
	MaxAttempts  int
	Opacity      float64
	Style        domain.Style
}

// Resolver owns the layers displayed for the current entity selection.
// It never holds more than one final and one preview layer.
type Resolver struct {
	deps Deps
	opts Options

	mu  sync.Mutex
	run *run
}

// run is the state of one resolution, bound to a token.
// Results arriving for a run that is no longer current are discarded.
type run struct {
	token   string
	key     domain.EntityKey
	cancel  context.CancelFunc
	sealed  bool
	final   ports.Layer
	preview ports.Layer
}

// New creates a Resolver.
func New(deps Deps, opts Options) *Resolver {
	if opts.Style == nil {
		opts.Style = domain.ClassStyle(domain.FirePalette)
	}
	if opts.Opacity <= 0 {
		opts.Opacity = domain.DefaultOpacity
	}
	return &Resolver{
		deps: deps,
		opts: opts,
	}
}

// Resolve shows the raster for key, superseding any resolution in progress.
// Hard failures (no layer could be shown) return ErrExportFailed or ErrExportTimeout
// alongside the resolution; a resolution cancelled by a newer one returns ErrSuperseded.
func (r *Resolver) Resolve(ctx context.Context, key domain.EntityKey, geometry domain.Geometry) (domain.Resolution, error) {
	started := time.Now()

	ctx, span := r.deps.Tracer.Start(ctx, "resolver.resolve", ports.WithAttribute("entity", key.String()))
	defer span.End()

	parent := ctx
	ctx, cur := r.begin(ctx, key)
	defer cur.cancel()

	res, source, err := fallback.First(ctx,
		fallback.Strategy[domain.Resolution]{
			Name: "cache",
			Run: func(ctx context.Context) (domain.Resolution, error) {
				return r.fromCache(ctx, cur)
			},
		},
		fallback.Strategy[domain.Resolution]{
			Name: "export",
			Run: func(ctx context.Context) (domain.Resolution, error) {
				return r.fromExport(ctx, cur, geometry)
			},
		},
	)
	if err != nil {
		if parent.Err() != nil {
			return domain.Resolution{EntityKey: key}, parent.Err()
		}
		if ctx.Err() != nil {
			return domain.Resolution{EntityKey: key}, r.superseded(cur)
		}
		span.RecordError(err)
		return domain.Resolution{EntityKey: key}, err
	}
	span.SetAttribute("source", source)

	res, err = r.settle(ctx, cur, res)
	span.SetAttribute("outcome", string(res.Outcome))
	span.SetAttribute("attempts", res.Attempts)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrSuperseded) {
			return res, err
		}
	}
	r.deps.Metrics.ResolutionObserved(res.Outcome, time.Since(started))
	return res, err
}

// Teardown cancels the current resolution and removes its layers.
func (r *Resolver) Teardown() {
	r.mu.Lock()
	cur := r.run
	r.run = nil
	r.mu.Unlock()

	if cur != nil {
		cur.cancel()
		r.release(cur)
	}
}

// begin supersedes the previous run and installs a fresh one for key.
func (r *Resolver) begin(ctx context.Context, key domain.EntityKey) (context.Context, *run) {
	ctx, cancel := context.WithCancel(ctx)
	cur := &run{
		token:  uuid.NewString(),
		key:    key,
		cancel: cancel,
	}

	r.mu.Lock()
	prev := r.run
	r.run = cur
	r.mu.Unlock()

	if prev != nil {
		prev.cancel()
		r.release(prev)
		r.deps.Logger.Debug(fmt.Sprintf("resolution %s for %s superseded by %s", prev.token, prev.key, cur.token))
	}
	return ctx, cur
}

// release removes every layer a run displayed and seals it against late results.
func (r *Resolver) release(cur *run) {
	r.mu.Lock()
	cur.sealed = true
	layers := []ports.Layer{cur.preview, cur.final}
	cur.preview, cur.final = nil, nil
	r.mu.Unlock()

	removed := false
	for _, l := range layers {
		if l != nil {
			l.Remove()
			removed = true
		}
	}
	if removed {
		r.deps.Renderer.Redraw()
	}
}

func (r *Resolver) superseded(cur *run) error {
	return zerr.With(zerr.Wrap(domain.ErrSuperseded, "resolution cancelled"), "entity", cur.key.String())
}

// fromCache shows the served raster when it already exists.
func (r *Resolver) fromCache(ctx context.Context, cur *run) (domain.Resolution, error) {
	address := domain.ServedAddress(cur.key)
	if !r.deps.Jobs.ProbeExists(ctx, address) {
		return domain.Resolution{}, zerr.With(zerr.Wrap(domain.ErrNotCached, "cache probe"), "address", address)
	}
	if err := r.showFinal(ctx, cur, address); err != nil {
		r.deps.Logger.Debug(fmt.Sprintf("cached raster %s could not be shown: %v", address, err))
		return domain.Resolution{}, err
	}
	return domain.Resolution{
		EntityKey: cur.key,
		Outcome:   domain.OutcomeCached,
		Address:   address,
	}, nil
}

// fromExport starts an export, shows a preview while it runs and polls it to an outcome.
// The returned resolution is not applied yet; see settle.
func (r *Resolver) fromExport(ctx context.Context, cur *run, geometry domain.Geometry) (domain.Resolution, error) {
	res := domain.Resolution{EntityKey: cur.key}
	orch := orchestrator.New(r.deps.Jobs, r.deps.Logger)

	previewCtx, stopPreview := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Go(func() {
		r.loadPreview(previewCtx, cur, geometry)
	})
	defer func() {
		stopPreview()
		wg.Wait()
	}()

	task, err := orch.StartExport(ctx, cur.key, geometry)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		r.deps.Logger.Warn(fmt.Sprintf("export for %s could not start: %v", cur.key, err))
		res.Outcome = domain.OutcomeFailed
		return res, nil
	}
	if task.Status == domain.StatusCompleted {
		res.Outcome = domain.OutcomeCompleted
		res.Address = task.ResolvedAddress
		return res, nil
	}

	outcome, attempts, err := r.poll(ctx, orch)
	if err != nil {
		return res, err
	}
	res.Outcome = outcome
	res.Attempts = attempts
	if outcome == domain.OutcomeCompleted {
		res.Address = orch.Task().ResolvedAddress
	}
	return res, nil
}

// poll checks the task once per interval until it is terminal or the attempt budget is spent.
// Requests never overlap: the next one is issued only after the previous answer.
func (r *Resolver) poll(ctx context.Context, orch *orchestrator.Orchestrator) (domain.ResolutionOutcome, int, error) {
	ctx, span := r.deps.Tracer.Start(ctx, "resolver.poll")
	defer span.End()

	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= r.opts.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", attempt - 1, ctx.Err()
		case <-ticker.C:
		}

		outcome, err := orch.CheckStatus(ctx)
		if ctx.Err() != nil {
			return "", attempt, ctx.Err()
		}
		r.deps.Metrics.PollObserved(outcome)
		span.SetAttribute("attempts", attempt)

		if !outcome.Terminal() {
			if err != nil {
				r.deps.Logger.Debug(fmt.Sprintf("poll attempt %d: %v", attempt, err))
			}
			continue
		}
		if outcome == domain.PollCompleted {
			return domain.OutcomeCompleted, attempt, nil
		}
		if err != nil {
			span.RecordError(err)
			r.deps.Logger.Warn(fmt.Sprintf("export failed: %v", err))
		}
		return domain.OutcomeFailed, attempt, nil
	}
	return domain.OutcomeTimeout, r.opts.MaxAttempts, nil
}

// loadPreview fetches and shows the preview unless the run moved on in the meantime.
func (r *Resolver) loadPreview(ctx context.Context, cur *run, geometry domain.Geometry) {
	address, err := r.deps.Previews.FetchPreview(ctx, geometry)
	if ctx.Err() != nil {
		return
	}
	if err != nil || address == "" {
		if err != nil {
			r.deps.Logger.Debug(fmt.Sprintf("no preview for %s: %v", cur.key, err))
		}
		return
	}

	data, err := r.deps.Store.Fetch(ctx, address)
	if err != nil {
		if ctx.Err() == nil {
			r.deps.Logger.Debug(fmt.Sprintf("preview %s could not be fetched: %v", address, err))
		}
		return
	}

	layer, err := r.deps.Renderer.Register(ctx, data, r.opts.Style)
	if err != nil {
		r.deps.Logger.Debug(fmt.Sprintf("preview %s could not be rendered: %v", address, err))
		return
	}

	r.mu.Lock()
	if r.run != cur || cur.sealed || ctx.Err() != nil || cur.preview != nil {
		r.mu.Unlock()
		layer.Remove()
		return
	}
	cur.preview = layer
	layer.SetOpacity(r.opts.Opacity)
	r.mu.Unlock()

	r.deps.Renderer.Redraw()
}

// showFinal fetches the raster at address and installs it as the run's final layer.
// When address is not the served address, the served address is tried next.
func (r *Resolver) showFinal(ctx context.Context, cur *run, address string) error {
	candidates := []fallback.Strategy[[]byte]{r.fetch(address)}
	if served := domain.ServedAddress(cur.key); served != address {
		candidates = append(candidates, r.fetch(served))
	}

	data, _, err := fallback.First(ctx, candidates...)
	if err != nil {
		return err
	}

	layer, err := r.deps.Renderer.Register(ctx, data, r.opts.Style)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.run != cur || cur.sealed {
		r.mu.Unlock()
		layer.Remove()
		return r.superseded(cur)
	}
	cur.final = layer
	layer.SetOpacity(r.opts.Opacity)
	r.mu.Unlock()

	r.deps.Renderer.Redraw()
	return nil
}

func (r *Resolver) fetch(address string) fallback.Strategy[[]byte] {
	return fallback.Strategy[[]byte]{
		Name: address,
		Run: func(ctx context.Context) ([]byte, error) {
			return r.deps.Store.Fetch(ctx, address)
		},
	}
}

// settle applies the resolution table: it shows the final raster on completion,
// decides the fate of the preview and emits the single user notification.
func (r *Resolver) settle(ctx context.Context, cur *run, res domain.Resolution) (domain.Resolution, error) {
	if res.Outcome == domain.OutcomeCompleted {
		if err := r.showFinal(ctx, cur, res.Address); err != nil {
			if ctx.Err() != nil || errors.Is(err, domain.ErrSuperseded) {
				return res, r.superseded(cur)
			}
			r.deps.Logger.Warn(fmt.Sprintf("finished raster %s could not be shown: %v", res.Address, err))
			res.Outcome = domain.OutcomeFailed
		}
	}

	r.mu.Lock()
	if r.run != cur {
		r.mu.Unlock()
		return res, r.superseded(cur)
	}
	cur.sealed = true
	res.PreviewShown = cur.preview != nil

	var drop ports.Layer
	if res.Outcome == domain.OutcomeCompleted || res.Outcome == domain.OutcomeCached {
		drop, cur.preview = cur.preview, nil
	}

	msg, isError, err := verdict(res)
	r.deps.Notifier.Notify(msg, isError)
	r.mu.Unlock()

	if drop != nil {
		drop.Remove()
		r.deps.Renderer.Redraw()
	}
	return res, err
}

// verdict maps a resolution to its user message and, for hard failures, its error.
func verdict(res domain.Resolution) (string, bool, error) {
	key := res.EntityKey.String()
	switch res.Outcome {
	case domain.OutcomeCached:
		return fmt.Sprintf("Loaded cached forest cover for %s", key), false, nil
	case domain.OutcomeCompleted:
		return fmt.Sprintf("Forest cover for %s is ready", key), false, nil
	case domain.OutcomeFailed:
		if res.PreviewShown {
			return fmt.Sprintf("Export failed for %s, showing preview", key), false, nil
		}
		return fmt.Sprintf("Export failed for %s", key), true,
			zerr.With(zerr.Wrap(domain.ErrExportFailed, "no layer to show"), "entity", key)
	default:
		if res.PreviewShown {
			return fmt.Sprintf("Slow export for %s, preview shown", key), false, nil
		}
		return fmt.Sprintf("Export for %s timed out after %d attempts", key, res.Attempts), true,
			zerr.With(zerr.Wrap(domain.ErrExportTimeout, "no layer to show"), "entity", key)
	}
}
