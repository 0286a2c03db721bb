// Package services provides domain services of the reconciler that do not
// belong to a single aggregate.
//
// The package includes:
//   - TransitionEvaluator: decides whether a pending transition may be handed
//     to the status registry, or is dropped as Conflict or Stale
//   - TransitionHooks: the (status, phase) lookup table of listeners notified
//     after a status change is committed
//   - TransitionLogListener: a listener that logs every committed change
package services
