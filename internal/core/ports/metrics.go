package ports

import (
	"time"

	"go.trai.ch/firecast/internal/core/domain"
)

// Metrics records engine counters.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// PollObserved counts one status check by outcome.
	PollObserved(outcome domain.PollOutcome)
	// ResolutionObserved records how a resolution ended and how long it took.
	ResolutionObserved(outcome domain.ResolutionOutcome, elapsed time.Duration)
	// FramesDiscovered records the size of a discovered frame set.
	FramesDiscovered(n int)
	// FrameRevealed counts one reveal.
	FrameRevealed()
}
