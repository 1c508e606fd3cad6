package sequencer_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/firecast/internal/core/ports/mocks"
	"go.trai.ch/firecast/internal/engine/sequencer"
	"go.uber.org/mock/gomock"
)

const (
	baseDir  = "wildfire_output/run1"
	interval = time.Second
	opacity  = 0.8
)

// surface is an in-memory renderer that records reveals and checks that
// at most one layer is visible whenever the surface is redrawn.
type surface struct {
	t *testing.T

	mu       sync.Mutex
	layers   []*layer
	reveals  []int
	redraws  int
	autoLoad bool
}

type layer struct {
	s       *surface
	index   int
	opacity float64
	loaded  bool
	removed bool
	onLoad  func()
}

func newSurface(t *testing.T, autoLoad bool) *surface {
	return &surface{t: t, autoLoad: autoLoad}
}

func (s *surface) Register(_ context.Context, raster []byte, _ domain.Style) (ports.Layer, error) {
	if string(raster) == "corrupt" {
		return nil, domain.ErrRasterDecode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &layer{s: s, index: len(s.layers), loaded: s.autoLoad}
	s.layers = append(s.layers, l)
	return l, nil
}

func (s *surface) Redraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redraws++
	visible := 0
	for _, l := range s.layers {
		if !l.removed && l.opacity > 0 {
			visible++
		}
	}
	assert.LessOrEqual(s.t, visible, 1, "more than one frame visible after redraw")
}

// load fires the loaded callback of layer i.
func (s *surface) load(i int) {
	s.mu.Lock()
	l := s.layers[i]
	l.loaded = true
	fn := l.onLoad
	l.onLoad = nil
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *surface) revealed() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.reveals...)
}

func (l *layer) ID() string { return fmt.Sprintf("layer-%d", l.index) }

func (l *layer) SetOpacity(v float64) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if v > 0 && l.opacity == 0 {
		l.s.reveals = append(l.s.reveals, l.index)
	}
	l.opacity = v
}

func (l *layer) OnLoaded(fn func()) {
	l.s.mu.Lock()
	if !l.loaded {
		l.onLoad = fn
		l.s.mu.Unlock()
		return
	}
	l.s.mu.Unlock()
	go fn()
}

func (l *layer) Remove() {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.removed = true
}

type fixture struct {
	store    *mocks.MockRasterStore
	notifier *mocks.MockNotifier
	surface  *surface
}

// setupSequencer wires a sequencer to mocked storage and an in-memory surface.
func setupSequencer(t *testing.T, opts sequencer.Options, autoLoad bool) (*sequencer.Sequencer, fixture) {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := fixture{
		store:    mocks.NewMockRasterStore(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		surface:  newSurface(t, autoLoad),
	}

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()

	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().FramesDiscovered(gomock.Any()).AnyTimes()
	metrics.EXPECT().FrameRevealed().AnyTimes()

	if opts.Interval == 0 {
		opts.Interval = interval
	}
	if opts.Opacity == 0 {
		opts.Opacity = opacity
	}

	s := sequencer.New(sequencer.Deps{
		Store:    f.store,
		Renderer: f.surface,
		Notifier: f.notifier,
		Logger:   logger,
		Tracer:   tracer,
		Metrics:  metrics,
	}, opts)
	return s, f
}

// frames makes frames 0..n-1 present below dir and frame n absent.
func (f fixture) frames(dir string, n int) {
	for i := range n {
		address := domain.FrameAddress(dir, i)
		f.store.EXPECT().Exists(gomock.Any(), address).Return(true)
		f.store.EXPECT().Fetch(gomock.Any(), address).Return([]byte(address), nil)
	}
	f.store.EXPECT().Exists(gomock.Any(), domain.FrameAddress(dir, n)).Return(false)
}

func TestDiscover_StopsAtFirstAbsence(t *testing.T) {
	s, f := setupSequencer(t, sequencer.Options{}, true)
	f.frames(baseDir, 5)

	set, err := s.Discover(context.Background(), baseDir)
	require.NoError(t, err)

	require.Equal(t, 5, set.Len())
	assert.True(t, set.Contiguous())
	for i, frame := range set.Frames {
		assert.Equal(t, i, frame.Index)
		assert.Equal(t, fmt.Sprintf("%s/wildfire_t_%03d.tif", baseDir, i), frame.SourceAddress)
	}
	for _, l := range f.surface.layers {
		assert.Zero(t, l.opacity, "discovered frames start hidden")
	}
	assert.Equal(t, -1, s.Current())
}

func TestDiscover_RespectsFrameCap(t *testing.T) {
	s, f := setupSequencer(t, sequencer.Options{FrameCap: 3}, true)
	for i := range 3 {
		address := domain.FrameAddress(baseDir, i)
		f.store.EXPECT().Exists(gomock.Any(), address).Return(true)
		f.store.EXPECT().Fetch(gomock.Any(), address).Return([]byte(address), nil)
	}

	set, err := s.Discover(context.Background(), baseDir)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
}

func TestDiscover_FallsBackToMirror(t *testing.T) {
	const mirror = "s3://sims/run1"
	s, f := setupSequencer(t, sequencer.Options{FrameCap: 2, Mirrors: []string{mirror}}, true)

	f.store.EXPECT().Exists(gomock.Any(), domain.FrameAddress(baseDir, 0)).Return(true)
	f.store.EXPECT().Fetch(gomock.Any(), domain.FrameAddress(baseDir, 0)).Return([]byte("f0"), nil)
	f.store.EXPECT().Exists(gomock.Any(), domain.FrameAddress(baseDir, 1)).Return(false)
	f.store.EXPECT().Exists(gomock.Any(), domain.FrameAddress(mirror, 1)).Return(true)
	f.store.EXPECT().Fetch(gomock.Any(), domain.FrameAddress(mirror, 1)).Return([]byte("f1"), nil)

	set, err := s.Discover(context.Background(), baseDir)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	assert.Equal(t, "s3://sims/run1/wildfire_t_001.tif", set.Frames[1].SourceAddress)
}

func TestDiscover_FetchOrDecodeFailureEndsDiscovery(t *testing.T) {
	t.Run("fetch", func(t *testing.T) {
		s, f := setupSequencer(t, sequencer.Options{}, true)
		f.store.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(true).Times(2)
		f.store.EXPECT().Fetch(gomock.Any(), domain.FrameAddress(baseDir, 0)).Return([]byte("f0"), nil)
		f.store.EXPECT().Fetch(gomock.Any(), domain.FrameAddress(baseDir, 1)).Return(nil, domain.ErrRasterFetch)

		set, err := s.Discover(context.Background(), baseDir)
		require.NoError(t, err)
		assert.Equal(t, 1, set.Len())
	})

	t.Run("decode", func(t *testing.T) {
		s, f := setupSequencer(t, sequencer.Options{}, true)
		f.store.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(true).Times(3)
		f.store.EXPECT().Fetch(gomock.Any(), domain.FrameAddress(baseDir, 0)).Return([]byte("f0"), nil)
		f.store.EXPECT().Fetch(gomock.Any(), domain.FrameAddress(baseDir, 1)).Return([]byte("f1"), nil)
		f.store.EXPECT().Fetch(gomock.Any(), domain.FrameAddress(baseDir, 2)).Return([]byte("corrupt"), nil)

		set, err := s.Discover(context.Background(), baseDir)
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
	})
}

func TestDiscover_EmptyResult(t *testing.T) {
	s, f := setupSequencer(t, sequencer.Options{}, true)
	f.frames(baseDir, 0)

	_, err := s.Discover(context.Background(), baseDir)
	require.ErrorIs(t, err, domain.ErrEmptyResult)
	assert.Empty(t, f.surface.layers)

	assert.ErrorIs(t, s.Play(context.Background()), domain.ErrEmptyResult)
}

func TestDiscover_ResetsPreviousRun(t *testing.T) {
	s, f := setupSequencer(t, sequencer.Options{}, true)
	f.frames(baseDir, 2)
	f.frames("wildfire_output/run2", 1)

	_, err := s.Discover(context.Background(), baseDir)
	require.NoError(t, err)
	_, err = s.Discover(context.Background(), "wildfire_output/run2")
	require.NoError(t, err)

	require.Len(t, f.surface.layers, 3)
	assert.True(t, f.surface.layers[0].removed)
	assert.True(t, f.surface.layers[1].removed)
	assert.False(t, f.surface.layers[2].removed)
	assert.Equal(t, "wildfire_output/run2", s.Frames().BaseDir)
}

func TestPlay_RevealsInOrderThenCompletes(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, f := setupSequencer(t, sequencer.Options{}, true)
		f.frames(baseDir, 5)
		f.notifier.EXPECT().Notify("Playback finished after 5 frames", false)

		_, err := s.Discover(context.Background(), baseDir)
		require.NoError(t, err)

		start := time.Now()
		require.NoError(t, s.Play(context.Background()))
		<-s.Done()

		assert.Equal(t, []int{0, 1, 2, 3, 4}, f.surface.revealed())
		assert.Equal(t, 5*interval, time.Since(start), "the run ends one interval after the last frame")
		assert.Equal(t, 4, s.Current())
	})
}

func TestPlay_WaitsForReadiness(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, f := setupSequencer(t, sequencer.Options{}, false)
		f.frames(baseDir, 3)
		f.notifier.EXPECT().Notify("Playback finished after 3 frames", false)

		_, err := s.Discover(context.Background(), baseDir)
		require.NoError(t, err)

		f.surface.load(0)
		f.surface.load(1)
		require.NoError(t, s.Play(context.Background()))

		time.Sleep(5 * interval)
		synctest.Wait()
		assert.Equal(t, []int{0, 1}, f.surface.revealed(), "frame 2 must not be revealed before it loaded")
		assert.Equal(t, 1, s.Current())

		f.surface.load(2)
		synctest.Wait()
		assert.Equal(t, []int{0, 1, 2}, f.surface.revealed())

		<-s.Done()
	})
}

func TestPlay_LateFrameKeepsFullInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, f := setupSequencer(t, sequencer.Options{}, false)
		f.frames(baseDir, 3)
		f.notifier.EXPECT().Notify("Playback finished after 3 frames", false)

		_, err := s.Discover(context.Background(), baseDir)
		require.NoError(t, err)

		f.surface.load(1)
		f.surface.load(2)
		start := time.Now()
		require.NoError(t, s.Play(context.Background()))

		time.Sleep(3 * interval)
		f.surface.load(0)
		synctest.Wait()
		assert.Equal(t, []int{0}, f.surface.revealed(), "the next frame waits a full interval after a late reveal")
		assert.Equal(t, 0, s.Current())

		time.Sleep(interval)
		synctest.Wait()
		assert.Equal(t, []int{0, 1}, f.surface.revealed())

		<-s.Done()
		assert.Equal(t, []int{0, 1, 2}, f.surface.revealed())
		assert.Equal(t, 6*interval, time.Since(start), "the last frame is shown for a full interval")
	})
}

func TestStop_NoRevealAfterReturn(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, f := setupSequencer(t, sequencer.Options{}, true)
		f.frames(baseDir, 5)
		// No completion notification is expected for a stopped run.

		_, err := s.Discover(context.Background(), baseDir)
		require.NoError(t, err)
		require.NoError(t, s.Play(context.Background()))

		// Stop exactly when the next tick is due.
		time.Sleep(2 * interval)
		s.Stop()
		seen := f.surface.revealed()

		time.Sleep(10 * interval)
		synctest.Wait()
		assert.Equal(t, seen, f.surface.revealed())
		assert.LessOrEqual(t, len(seen), 3)

		select {
		case <-s.Done():
		default:
			t.Fatal("Done must be closed after Stop")
		}
	})
}

func TestPlay_RestartsFromFirstFrame(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, f := setupSequencer(t, sequencer.Options{}, true)
		f.frames(baseDir, 3)
		f.notifier.EXPECT().Notify("Playback finished after 3 frames", false)

		_, err := s.Discover(context.Background(), baseDir)
		require.NoError(t, err)

		require.NoError(t, s.Play(context.Background()))
		time.Sleep(interval)
		synctest.Wait()
		require.Equal(t, 1, s.Current())

		require.NoError(t, s.Play(context.Background()))
		<-s.Done()
		assert.Equal(t, []int{0, 1, 0, 1, 2}, f.surface.revealed())
	})
}

func TestReset_ReleasesEveryHandle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, f := setupSequencer(t, sequencer.Options{}, true)
		f.frames(baseDir, 3)

		_, err := s.Discover(context.Background(), baseDir)
		require.NoError(t, err)
		require.NoError(t, s.Play(context.Background()))
		time.Sleep(interval)

		s.Reset()
		for _, l := range f.surface.layers {
			assert.True(t, l.removed)
		}
		assert.Equal(t, -1, s.Current())
		assert.Zero(t, s.Frames().Len())
		assert.ErrorIs(t, s.Play(context.Background()), domain.ErrEmptyResult)
	})
}
