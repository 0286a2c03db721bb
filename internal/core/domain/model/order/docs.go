// Package order provides the Order aggregate reconciled against payment
// gateway notifications.
//
// The package includes:
//   - Order: the aggregate root owning the current status, the advisory lock
//     flag and the hold deadline
//   - Status: the payment-order status enumeration and its legality table
//   - Phase: the exit/enter side of a status change, used to look up
//     transition hooks
//
// Key business rules:
//   - The reconciler compares statuses only by equality; legality is decided
//     by Status.CanTransitionTo when a transition is actually applied
//   - A locked order is owned by the checkout flow and must not be changed by
//     webhook reconciliation
//   - No queued transition may be applied before the hold deadline
package order
