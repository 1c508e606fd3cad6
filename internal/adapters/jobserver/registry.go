package jobserver

import (
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/firecast/internal/core/domain"
)

// State is the internal state of a job, before mapping to the wire status.
type State string

// Job states. RUNNING and READY both surface as PROCESSING.
const (
	StateReady   State = "READY"
	StateRunning State = "RUNNING"
	StateDone    State = "COMPLETED"
	StateFailed  State = "FAILED"
)

// Job is one export tracked by the server.
type Job struct {
	ID    string
	Key   domain.EntityKey
	State State
	Path  string
	Error string
}

// Registry holds the jobs of one server. The zero value is not usable; use NewRegistry.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create registers a READY job for key and returns its snapshot.
func (r *Registry) Create(key domain.EntityKey) Job {
	j := &Job{ID: uuid.NewString(), Key: key, State: StateReady}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.ID] = j
	return *j
}

// Get returns a snapshot of job id.
func (r *Registry) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// Update applies fn to job id under the registry lock.
func (r *Registry) Update(id string, fn func(*Job)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return false
	}
	fn(j)
	return true
}

// Len returns the number of tracked jobs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
