// Package render implements a headless rendering surface.
// Layers are composited in registration order onto an in-memory canvas
// that can be written out as PNG.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// DefaultSize is the canvas edge used when no size is configured.
const DefaultSize = 256

// Surface is a headless ports.Renderer.
type Surface struct {
	size int

	mu      sync.Mutex
	next    int
	layers  []*Layer
	canvas  *image.NRGBA
	redraws int
}

var _ ports.Renderer = (*Surface)(nil)

// NewSurface creates an empty size×size surface.
func NewSurface(size int) *Surface {
	if size <= 0 {
		size = DefaultSize
	}
	return &Surface{
		size:   size,
		canvas: image.NewNRGBA(image.Rect(0, 0, size, size)),
	}
}

// Register decodes a TIFF raster and adds it as a hidden-until-shown layer.
// Styling runs in the background; OnLoaded callbacks fire once it finished.
func (s *Surface) Register(ctx context.Context, raster []byte, style domain.Style) (ports.Layer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := tiff.Decode(bytes.NewReader(raster))
	if err != nil {
		return nil, errors.Join(domain.ErrRasterDecode, err)
	}

	s.mu.Lock()
	s.next++
	l := &Layer{
		id:      fmt.Sprintf("layer-%d", s.next),
		surface: s,
		loaded:  make(chan struct{}),
	}
	s.layers = append(s.layers, l)
	s.mu.Unlock()

	go func() {
		img := styled(src, style)
		s.mu.Lock()
		l.img = img
		s.mu.Unlock()
		close(l.loaded)
	}()
	return l, nil
}

// styled maps every sample of src through style.
func styled(src image.Image, style domain.Style) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, style(g.Y))
		}
	}
	return dst
}

// Redraw composites every loaded, visible layer onto a fresh canvas.
func (s *Surface) Redraw() {
	s.mu.Lock()
	defer s.mu.Unlock()

	canvas := image.NewNRGBA(image.Rect(0, 0, s.size, s.size))
	for _, l := range s.layers {
		if l.img == nil || l.opacity <= 0 {
			continue
		}
		mask := image.NewUniform(color.Alpha{A: uint8(l.opacity*0xff + 0.5)})
		draw.NearestNeighbor.Scale(canvas, canvas.Bounds(), l.img, l.img.Bounds(), draw.Over, &draw.Options{SrcMask: mask})
	}
	s.canvas = canvas
	s.redraws++
}

// Snapshot writes the canvas of the last Redraw as PNG.
func (s *Surface) Snapshot(w io.Writer) error {
	s.mu.Lock()
	canvas := s.canvas
	s.mu.Unlock()

	if err := png.Encode(w, canvas); err != nil {
		return zerr.Wrap(err, "failed to encode snapshot")
	}
	return nil
}

// At returns the canvas colour at x, y.
func (s *Surface) At(x, y int) color.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.NRGBAAt(x, y)
}

// Layers returns the number of live layers.
func (s *Surface) Layers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layers)
}

// Visible returns the ids of live layers with a positive opacity.
func (s *Surface) Visible() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, l := range s.layers {
		if l.opacity > 0 {
			ids = append(ids, l.id)
		}
	}
	return ids
}

// Redraws returns how often the surface was repainted.
func (s *Surface) Redraws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redraws
}

func (s *Surface) remove(l *Layer) {
	for i, cur := range s.layers {
		if cur == l {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			return
		}
	}
}

// Layer is one raster on a Surface.
type Layer struct {
	id      string
	surface *Surface
	opacity float64
	removed bool
	img     *image.NRGBA
	loaded  chan struct{}
}

var _ ports.Layer = (*Layer)(nil)

// ID returns the layer id.
func (l *Layer) ID() string {
	return l.id
}

// SetOpacity clamps v to [0, 1]. It does not repaint; call Redraw.
func (l *Layer) SetOpacity(v float64) {
	v = max(0, min(1, v))

	l.surface.mu.Lock()
	defer l.surface.mu.Unlock()
	if !l.removed {
		l.opacity = v
	}
}

// Opacity returns the current opacity.
func (l *Layer) Opacity() float64 {
	l.surface.mu.Lock()
	defer l.surface.mu.Unlock()
	return l.opacity
}

// OnLoaded runs fn on its own goroutine once styling finished.
func (l *Layer) OnLoaded(fn func()) {
	go func() {
		<-l.loaded
		fn()
	}()
}

// Remove detaches the layer from its surface.
func (l *Layer) Remove() {
	l.surface.mu.Lock()
	defer l.surface.mu.Unlock()

	if l.removed {
		return
	}
	l.removed = true
	l.opacity = 0
	l.surface.remove(l)
}
