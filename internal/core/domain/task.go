package domain

// ExportStatus is the lifecycle state of one export task.
type ExportStatus string

const (
	// StatusNone is the state of a task that was never started.
	StatusNone ExportStatus = "NONE"
	// StatusPending is set the instant a start request is issued.
	StatusPending ExportStatus = "PENDING"
	// StatusProcessing means the job service accepted the job.
	StatusProcessing ExportStatus = "PROCESSING"
	// StatusCompleted means the raster is available at ResolvedAddress.
	StatusCompleted ExportStatus = "COMPLETED"
	// StatusFailed means the export can no longer succeed.
	StatusFailed ExportStatus = "FAILED"
)

// ExportTask is the lifecycle record of one export job.
type ExportTask struct {
	JobID           string
	EntityKey       EntityKey
	Status          ExportStatus
	ResolvedAddress string
	Error           string
	// FilenameKey is the export file name the service announced at start, if any.
	FilenameKey string
}

// NewExportTask creates a task for key in StatusNone.
func NewExportTask(key EntityKey) *ExportTask {
	return &ExportTask{
		EntityKey: key,
		Status:    StatusNone,
	}
}

// IsTerminal reports whether the task reached COMPLETED or FAILED.
func (t *ExportTask) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

// MarkPending records that a start request was issued.
func (t *ExportTask) MarkPending() {
	t.Status = StatusPending
}

// MarkProcessing records that the job service accepted jobID.
// It returns false and leaves the task untouched when jobID is empty.
func (t *ExportTask) MarkProcessing(jobID string) bool {
	if jobID == "" {
		return false
	}
	t.JobID = jobID
	t.Status = StatusProcessing
	return true
}

// MarkCompleted records the address of the finished raster.
func (t *ExportTask) MarkCompleted(address string) {
	t.Status = StatusCompleted
	t.ResolvedAddress = address
	t.Error = ""
}

// MarkFailed records a terminal failure.
func (t *ExportTask) MarkFailed(reason string) {
	t.Status = StatusFailed
	t.ResolvedAddress = ""
	t.Error = reason
}

// StartResponse is the job service answer to a start-export request.
type StartResponse struct {
	Status      string `json:"status,omitempty"`
	JobID       string `json:"task_id,omitempty"`
	FilenameKey string `json:"filename_key,omitempty"`
	URL         string `json:"url,omitempty"`
	LocalPath   string `json:"local_path,omitempty"`
	Error       string `json:"error,omitempty"`
}

// StatusResponse is the job service answer to a check-status request.
type StatusResponse struct {
	Status    string `json:"status,omitempty"`
	URL       string `json:"url,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
	Error     string `json:"error,omitempty"`
}

// PreviewResponse is the job service answer to a preview request.
type PreviewResponse struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}
