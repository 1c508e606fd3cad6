// Package orchestrator owns the lifecycle of one export task.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/zerr"
)

// Orchestrator drives a single export task through start and status checks.
// It holds at most one live task; StartExport replaces it with a fresh record.
type Orchestrator struct {
	jobs   ports.JobService
	logger ports.Logger

	mu   sync.Mutex
	task *domain.ExportTask
}

// New creates an Orchestrator without a task.
func New(jobs ports.JobService, logger ports.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:   jobs,
		logger: logger,
	}
}

// Task returns a snapshot of the current task. Without a task it reports StatusNone.
func (o *Orchestrator) Task() domain.ExportTask {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.task == nil {
		return domain.ExportTask{Status: domain.StatusNone}
	}
	return *o.task
}

// StartExport installs a fresh PENDING task for key and asks the job service to start it.
// A response that already reports COMPLETED resolves the task without polling.
func (o *Orchestrator) StartExport(
	ctx context.Context,
	key domain.EntityKey,
	geometry domain.Geometry,
) (domain.ExportTask, error) {
	task := domain.NewExportTask(key)
	task.MarkPending()

	o.mu.Lock()
	o.task = task
	o.mu.Unlock()

	resp, err := o.jobs.StartExport(ctx, key, geometry)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.task != task {
		// A newer StartExport replaced this record while the request was in flight.
		return *task, zerr.With(zerr.Wrap(domain.ErrSuperseded, "start export"), "entity", key.String())
	}

	if err != nil {
		task.MarkFailed(err.Error())
		if errors.Is(err, domain.ErrServiceUnavailable) {
			return *task, err
		}
		return *task, invalid(err)
	}

	task.FilenameKey = resp.FilenameKey

	switch domain.ExportStatus(resp.Status) {
	case domain.StatusCompleted:
		task.MarkCompleted(domain.ResolveAddress(resp.URL, resp.LocalPath, task.FilenameKey, key))
		o.logger.Debug(fmt.Sprintf("export for %s already available at %s", key, task.ResolvedAddress))
		return *task, nil

	case domain.StatusProcessing, domain.StatusPending:
		if !task.MarkProcessing(resp.JobID) {
			task.MarkFailed("start response without job id")
			return *task, zerr.With(zerr.Wrap(domain.ErrInvalidResponse, "processing response without job id"), "entity", key.String())
		}
		o.logger.Debug(fmt.Sprintf("export for %s accepted as job %s", key, resp.JobID))
		return *task, nil

	default:
		reason := "unexpected start status " + fmt.Sprintf("%q", resp.Status)
		if resp.Error != "" {
			reason += ": " + resp.Error
		}
		task.MarkFailed(reason)
		return *task, zerr.With(zerr.Wrap(domain.ErrInvalidResponse, reason), "entity", key.String())
	}
}

// CheckStatus polls the job service once for the current task.
// Only a PROCESSING task issues a request; every other state returns its outcome unchanged.
// Unknown statuses and unavailability are reported without mutating the task.
func (o *Orchestrator) CheckStatus(ctx context.Context) (domain.PollOutcome, error) {
	o.mu.Lock()
	task := o.task
	if task == nil || task.Status != domain.StatusProcessing {
		var status domain.ExportStatus = domain.StatusNone
		if task != nil {
			status = task.Status
		}
		o.mu.Unlock()
		return domain.OutcomeOf(status), nil
	}
	if task.JobID == "" {
		task.MarkFailed("processing task has no job id")
		o.mu.Unlock()
		return domain.PollFailed, zerr.With(zerr.Wrap(domain.ErrProtocolError, "processing task has no job id"), "entity", task.EntityKey.String())
	}
	jobID, key, filenameKey := task.JobID, task.EntityKey, task.FilenameKey
	o.mu.Unlock()

	resp, err := o.jobs.CheckStatus(ctx, jobID, key)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.task != task {
		return domain.PollIdle, zerr.With(zerr.Wrap(domain.ErrSuperseded, "check status"), "job", jobID)
	}

	if err != nil {
		if errors.Is(err, domain.ErrServiceUnavailable) {
			return domain.PollUnavailable, err
		}
		task.MarkFailed(err.Error())
		return domain.PollFailed, invalid(err)
	}

	switch domain.ExportStatus(resp.Status) {
	case domain.StatusCompleted:
		task.MarkCompleted(domain.ResolveAddress(resp.URL, resp.LocalPath, filenameKey, key))
		return domain.PollCompleted, nil
	case domain.StatusProcessing:
		return domain.PollProcessing, nil
	case domain.StatusFailed:
		task.MarkFailed(resp.Error)
		return domain.PollFailed, nil
	default:
		o.logger.Debug(fmt.Sprintf("job %s reported unknown status %q", jobID, resp.Status))
		return domain.PollUnknown, nil
	}
}

// invalid normalises a client error into ErrInvalidResponse.
func invalid(err error) error {
	if errors.Is(err, domain.ErrInvalidResponse) {
		return err
	}
	return errors.Join(domain.ErrInvalidResponse, err)
}
