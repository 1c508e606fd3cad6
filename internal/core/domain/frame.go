package domain

import "sync"

// Frame is one ordinal raster of a playback run.
type Frame struct {
	Index         int
	SourceAddress string

	once  sync.Once
	ready chan struct{}
}

// NewFrame creates a frame that is not ready yet.
func NewFrame(index int, address string) *Frame {
	return &Frame{
		Index:         index,
		SourceAddress: address,
		ready:         make(chan struct{}),
	}
}

// MarkReady latches the readiness signal. Later calls are no-ops.
func (f *Frame) MarkReady() {
	f.once.Do(func() {
		close(f.ready)
	})
}

// Ready returns a channel closed once the renderer finished loading the frame.
func (f *Frame) Ready() <-chan struct{} {
	return f.ready
}

// IsReady reports whether the readiness signal has fired.
func (f *Frame) IsReady() bool {
	select {
	case <-f.ready:
		return true
	default:
		return false
	}
}

// FrameSet is the ordered run of frames discovered below BaseDir.
type FrameSet struct {
	BaseDir string
	Frames  []*Frame
}

// Len returns the number of frames.
func (s FrameSet) Len() int {
	return len(s.Frames)
}

// Contiguous reports whether the frames are indexed 0..n-1 without gaps.
func (s FrameSet) Contiguous() bool {
	for i, f := range s.Frames {
		if f.Index != i {
			return false
		}
	}
	return true
}
