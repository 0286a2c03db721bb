package commands

import (
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/transition"
)

// EntryReport is the outcome of one drained entry. Reason is set for
// Rejected entries with the error returned by the status registry or store.
type EntryReport struct {
	Entry   transition.PendingTransition
	Outcome transition.Outcome
	Reason  error
}

// ProcessReport summarizes one drain pass.
type ProcessReport struct {
	OrderID kernel.UUID
	Attempt int

	// Deferred is set when the hold window had not elapsed; DeferredUntil is
	// the instant the next pass was scheduled for.
	Deferred      bool
	DeferredUntil time.Time

	Entries []EntryReport
}

// Outcome is Deferred for a deferred pass and zero otherwise.
func (r ProcessReport) Outcome() transition.Outcome {
	if r.Deferred {
		return transition.Deferred
	}
	return 0
}

// Count returns how many entries ended with the given outcome.
func (r ProcessReport) Count(outcome transition.Outcome) int {
	n := 0
	for _, e := range r.Entries {
		if e.Outcome == outcome {
			n++
		}
	}
	return n
}
