package orchestrator

import "go.trai.ch/firecast/internal/core/domain"

// InstallTask replaces the current task, bypassing StartExport.
func (o *Orchestrator) InstallTask(task *domain.ExportTask) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.task = task
}
