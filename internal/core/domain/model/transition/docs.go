// Package transition models the webhook notifications waiting to be
// reconciled against an order.
//
// A PendingTransition asks to move an order to a target status, but only if
// the order is still in the expected status when the transition is evaluated.
// Entries of one order are evaluated strictly in enqueue order; each evaluation
// ends in exactly one Outcome and the entry is discarded whatever the outcome.
package transition
