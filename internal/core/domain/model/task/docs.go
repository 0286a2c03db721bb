// Package task describes the delayed work handed to the scheduler gateway.
//
// A ScheduledTask runs at or after RunAt, at least once. Among pending tasks
// of the same Name, DedupeKey is unique: a second request with the same key
// collapses into the first.
package task
