// Package sequencer discovers per-timestep raster frames and plays them back in order.
package sequencer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/firecast/internal/engine/fallback"
	"go.trai.ch/zerr"
)

// Deps are the collaborators of a Sequencer.
type Deps struct {
	Store    ports.RasterStore
	Renderer ports.Renderer
	Notifier ports.Notifier
	Logger   ports.Logger
	Tracer   ports.Tracer
	Metrics  ports.Metrics
}

// Options tune discovery and playback.
type Options struct {
	Interval time.Duration
	FrameCap int
	Opacity  float64
	Mirrors  []string
	Style    domain.Style
}

// Sequencer owns one frame set and at most one playback run over it.
type Sequencer struct {
	deps Deps
	opts Options

	mu      sync.Mutex
	gen     uint64
	set     domain.FrameSet
	layers  []ports.Layer
	current int
	run     *playback
}

// playback is one run of the reveal loop.
type playback struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an empty Sequencer.
func New(deps Deps, opts Options) *Sequencer {
	if opts.Interval <= 0 {
		opts.Interval = domain.DefaultFrameInterval
	}
	if opts.FrameCap <= 0 {
		opts.FrameCap = domain.DefaultFrameCap
	}
	if opts.Opacity <= 0 {
		opts.Opacity = domain.DefaultOpacity
	}
	if opts.Style == nil {
		opts.Style = domain.ClassStyle(domain.FirePalette)
	}
	return &Sequencer{
		deps:    deps,
		opts:    opts,
		current: -1,
	}
}

// Discover resets the sequencer and registers every frame found below baseDir.
// Frames are probed from index 0 up to the frame cap; the first absent or
// undecodable frame ends discovery. Every frame starts hidden.
func (s *Sequencer) Discover(ctx context.Context, baseDir string) (domain.FrameSet, error) {
	s.Reset()

	ctx, span := s.deps.Tracer.Start(ctx, "sequencer.discover", ports.WithAttribute("base_dir", baseDir))
	defer span.End()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	set := domain.FrameSet{BaseDir: baseDir}
	var layers []ports.Layer
	discard := func() {
		for _, l := range layers {
			l.Remove()
		}
	}

	for i := range s.opts.FrameCap {
		data, address, err := fallback.First(ctx, s.frameSources(baseDir, i)...)
		if err != nil {
			if ctx.Err() != nil {
				discard()
				return domain.FrameSet{}, ctx.Err()
			}
			s.deps.Logger.Debug(fmt.Sprintf("discovery stopped at frame %d: %v", i, err))
			break
		}

		layer, err := s.deps.Renderer.Register(ctx, data, s.opts.Style)
		if err != nil {
			s.deps.Logger.Debug(fmt.Sprintf("frame %s could not be decoded: %v", address, err))
			break
		}

		frame := domain.NewFrame(i, address)
		layer.SetOpacity(0)
		layer.OnLoaded(frame.MarkReady)

		set.Frames = append(set.Frames, frame)
		layers = append(layers, layer)
	}
	span.SetAttribute("frames", set.Len())

	if set.Len() == 0 {
		err := zerr.With(zerr.Wrap(domain.ErrEmptyResult, "no frames discovered"), "base_dir", baseDir)
		span.RecordError(err)
		return set, err
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		discard()
		return domain.FrameSet{}, zerr.With(zerr.Wrap(domain.ErrSuperseded, "discovery replaced"), "base_dir", baseDir)
	}
	s.set = set
	s.layers = layers
	s.mu.Unlock()

	s.deps.Metrics.FramesDiscovered(set.Len())
	s.deps.Logger.Info(fmt.Sprintf("discovered %d frames below %s", set.Len(), baseDir))
	return set, nil
}

// frameSources lists the places frame i may live, the base directory first.
func (s *Sequencer) frameSources(baseDir string, i int) []fallback.Strategy[[]byte] {
	dirs := append([]string{baseDir}, s.opts.Mirrors...)
	sources := make([]fallback.Strategy[[]byte], 0, len(dirs))
	for _, dir := range dirs {
		address := domain.FrameAddress(dir, i)
		sources = append(sources, fallback.Strategy[[]byte]{
			Name: address,
			Run: func(ctx context.Context) ([]byte, error) {
				if !s.deps.Store.Exists(ctx, address) {
					return nil, zerr.With(zerr.Wrap(domain.ErrRasterNotFound, "frame absent"), "address", address)
				}
				return s.deps.Store.Fetch(ctx, address)
			},
		})
	}
	return sources
}

// Play starts revealing the discovered frames from index 0.
// A run already in progress is stopped first.
func (s *Sequencer) Play(ctx context.Context) error {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.layers) == 0 {
		return zerr.Wrap(domain.ErrEmptyResult, "nothing to play")
	}
	if s.run != nil {
		// A concurrent Play won the race; its loop re-checks ownership before every reveal.
		s.run.cancel()
	}

	for _, l := range s.layers {
		l.SetOpacity(0)
	}
	s.current = -1

	runCtx, cancel := context.WithCancel(ctx)
	p := &playback{cancel: cancel, done: make(chan struct{})}
	s.run = p

	frames := s.set.Frames
	go s.loop(runCtx, p, frames)
	return nil
}

// loop reveals each frame once it is ready and keeps it on screen for one interval
// before moving on. The run ends one interval after the last reveal.
func (s *Sequencer) loop(ctx context.Context, p *playback, frames []*domain.Frame) {
	defer close(p.done)

	ctx, span := s.deps.Tracer.Start(ctx, "sequencer.play", ports.WithAttribute("frames", len(frames)))
	defer span.End()

	hold := time.NewTimer(s.opts.Interval)
	hold.Stop()
	defer hold.Stop()

	for i, frame := range frames {
		select {
		case <-ctx.Done():
			return
		case <-frame.Ready():
		}

		if !s.reveal(ctx, p, i) {
			return
		}

		hold.Reset(s.opts.Interval)
		select {
		case <-ctx.Done():
			return
		case <-hold.C:
		}
	}
	s.finish(ctx, p, len(frames))
}

// reveal hides frame i-1 and shows frame i. It reports false when the run no longer owns the surface.
func (s *Sequencer) reveal(ctx context.Context, p *playback, i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run != p || ctx.Err() != nil {
		return false
	}

	if i > 0 {
		s.layers[i-1].SetOpacity(0)
	}
	s.layers[i].SetOpacity(s.opts.Opacity)
	s.current = i
	s.deps.Renderer.Redraw()
	s.deps.Metrics.FrameRevealed()
	return true
}

func (s *Sequencer) finish(ctx context.Context, p *playback, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run != p || ctx.Err() != nil {
		return
	}
	s.deps.Notifier.Notify(fmt.Sprintf("Playback finished after %d frames", n), false)
}

// Done returns a channel closed when the current run ended, by completion or by Stop.
// Without a run the channel is already closed.
func (s *Sequencer) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return s.run.done
}

// Current returns the index of the visible frame, or -1 before the first reveal.
func (s *Sequencer) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Frames returns the discovered frame set.
func (s *Sequencer) Frames() domain.FrameSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// Stop cancels the current run. No reveal happens after Stop returns.
// The last revealed frame stays visible.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	p := s.run
	s.run = nil
	s.mu.Unlock()

	if p == nil {
		return
	}
	p.cancel()
	<-p.done
}

// Reset stops playback and releases every render handle.
func (s *Sequencer) Reset() {
	s.Stop()

	s.mu.Lock()
	layers := s.layers
	s.layers = nil
	s.set = domain.FrameSet{}
	s.current = -1
	s.gen++
	s.mu.Unlock()

	for _, l := range layers {
		l.Remove()
	}
	if len(layers) > 0 {
		s.deps.Renderer.Redraw()
	}
}
