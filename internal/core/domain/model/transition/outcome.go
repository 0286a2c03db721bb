package transition

// Outcome is the result of evaluating one pending transition, or of a whole
// processing pass when it is Deferred.
type Outcome int

const (
	// Deferred: the hold window has not elapsed; no entry was consumed.
	Deferred Outcome = iota + 1

	// Stale: the order is no longer in the expected status.
	Stale

	// Conflict: the order is locked by the checkout flow.
	Conflict

	// Rejected: the status registry refused the transition.
	Rejected

	// Applied: the transition was committed.
	Applied
)

func (o Outcome) String() string {
	switch o {
	case Deferred:
		return "deferred"
	case Stale:
		return "stale"
	case Conflict:
		return "conflict"
	case Rejected:
		return "rejected"
	case Applied:
		return "applied"
	default:
		return "unknown"
	}
}

// Mutates reports whether the outcome changed order state. Only Applied does.
func (o Outcome) Mutates() bool {
	return o == Applied
}
