package domain

// PollOutcome is the result of one status check.
type PollOutcome string

const (
	// PollProcessing means the job is still running.
	PollProcessing PollOutcome = "processing"
	// PollCompleted means the job finished and the task has an address.
	PollCompleted PollOutcome = "completed"
	// PollFailed means the task is terminally failed.
	PollFailed PollOutcome = "failed"
	// PollUnknown means the service reported a status this client does not know.
	PollUnknown PollOutcome = "unknown"
	// PollUnavailable means the service could not be reached.
	PollUnavailable PollOutcome = "unavailable"
	// PollIdle means no request was made because the task is not processing.
	PollIdle PollOutcome = "idle"
)

// Terminal reports whether the outcome ends a poll loop.
func (o PollOutcome) Terminal() bool {
	return o == PollCompleted || o == PollFailed
}

// OutcomeOf maps a task status to the outcome a poll would report for it.
func OutcomeOf(s ExportStatus) PollOutcome {
	switch s {
	case StatusCompleted:
		return PollCompleted
	case StatusFailed:
		return PollFailed
	case StatusProcessing:
		return PollProcessing
	default:
		return PollIdle
	}
}

// ResolutionOutcome is how a layer resolution ended.
type ResolutionOutcome string

const (
	// OutcomeCached means the served raster already existed.
	OutcomeCached ResolutionOutcome = "cached"
	// OutcomeCompleted means an export finished within the poll budget.
	OutcomeCompleted ResolutionOutcome = "completed"
	// OutcomeFailed means the export failed.
	OutcomeFailed ResolutionOutcome = "failed"
	// OutcomeTimeout means the poll budget ran out first.
	OutcomeTimeout ResolutionOutcome = "timeout"
)

// Resolution describes the final state of one layer resolution.
type Resolution struct {
	EntityKey    EntityKey
	Outcome      ResolutionOutcome
	Address      string
	PreviewShown bool
	Attempts     int
}
