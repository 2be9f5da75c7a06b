package repos

import (
	"sync"

	"github.com/google/uuid"
)

// JobLocks serializes merge writes per job so two concurrent merges to the
// same record cannot lose each other's fields. Locks are scoped to one
// read-merge-write and never held across provider calls.
type JobLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewJobLocks() *JobLocks {
	return &JobLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Acquire locks the given job and returns the unlock func.
func (j *JobLocks) Acquire(jobID uuid.UUID) func() {
	j.mu.Lock()
	l, ok := j.locks[jobID]
	if !ok {
		l = &sync.Mutex{}
		j.locks[jobID] = l
	}
	j.mu.Unlock()
	l.Lock()
	return l.Unlock
}
