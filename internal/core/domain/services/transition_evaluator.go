package services

import (
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/transition"
)

// TransitionEvaluator applies the two drop rules of a drain pass to a single
// entry, against the order as freshly loaded for that entry.
//
// Rules, in order:
//   - a locked order drops the entry as Conflict, whether or not the
//     precondition matches
//   - an order whose status differs from the entry's expected status drops
//     the entry as Stale
//
// Example usage:
//
//	outcome, admitted := services.NewTransitionEvaluator().Admit(o, entry)
//	if !admitted {
//	    log(outcome)
//	    continue
//	}
//	// hand entry.Target() to the status registry
type TransitionEvaluator struct{}

// NewTransitionEvaluator creates a new TransitionEvaluator instance.
func NewTransitionEvaluator() TransitionEvaluator {
	return TransitionEvaluator{}
}

// Admit returns (0, true) when the entry may be applied, otherwise the
// outcome it is dropped with and false.
func (TransitionEvaluator) Admit(o *order.Order, entry transition.PendingTransition) (transition.Outcome, bool) {
	if o.IsLocked() {
		return transition.Conflict, false
	}

	if entry.Expected() != o.Status() {
		return transition.Stale, false
	}

	return 0, true
}
