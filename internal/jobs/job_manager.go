package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	dispatchJob *TaskDispatchJob
	reaperJob   *TaskReaperJob
}

// NewJobManager creates a new job manager over the dispatch and reaper jobs.
func NewJobManager(dispatchJob *TaskDispatchJob, reaperJob *TaskReaperJob) *JobManager {
	return &JobManager{
		dispatchJob: dispatchJob,
		reaperJob:   reaperJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.reaperJob.Start(); err != nil {
		return fmt.Errorf("failed to start task reaper job: %w", err)
	}

	if err := jm.dispatchJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.reaperJob.Stop()
		return fmt.Errorf("failed to start task dispatch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.dispatchJob.Stop()
	jm.reaperJob.Stop()
}
