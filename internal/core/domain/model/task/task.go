package task

import (
	"errors"
	"fmt"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/pkg/errs"
	"reconciler/internal/pkg/guard"
)

// Name identifies the handler a task is dispatched to.
type Name string

// ProcessPendingTransitions drains the pending transition queue of one order.
const ProcessPendingTransitions Name = "reconciler.process_pending_transitions"

// State is the dispatch state of a persisted task.
type State string

const (
	StatePending State = "pending"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

var ErrScheduledTaskIsNotConstructed = errors.New("ScheduledTask must be created via NewScheduledTask or RestoreScheduledTask")

// Args are the parameters every reconciliation task carries. Attempt is an
// opaque token: it only distinguishes successive re-arms of the same drain.
type Args struct {
	OrderID kernel.UUID
	Attempt int
}

// DrainDedupeKey is the key under which at most one pending drain per order exists.
func DrainDedupeKey(orderID kernel.UUID) string {
	return fmt.Sprintf("drain:%s", orderID)
}

// ScheduledTask is one unit of delayed work.
type ScheduledTask struct {
	id        kernel.UUID
	name      Name
	args      Args
	runAt     time.Time
	dedupeKey string
	state     State
	attempts  int
	lastError string

	guard guard.ConstructorGuard
}

// NewScheduledTask creates a pending task that has never been attempted.
func NewScheduledTask(id kernel.UUID, name Name, args Args, runAt time.Time, dedupeKey string) (ScheduledTask, error) {
	return RestoreScheduledTask(id, name, args, runAt, dedupeKey, StatePending, 0, "")
}

// RestoreScheduledTask rebuilds a persisted task.
func RestoreScheduledTask(
	id kernel.UUID,
	name Name,
	args Args,
	runAt time.Time,
	dedupeKey string,
	state State,
	attempts int,
	lastError string,
) (ScheduledTask, error) {
	var errList []error
	errList = append(errList, id.Validate(), args.OrderID.Validate())
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("task name"))
	}
	if runAt.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("run at"))
	}
	if dedupeKey == "" {
		errList = append(errList, errs.NewValueIsRequiredError("dedupe key"))
	}
	if args.Attempt < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("attempt", args.Attempt, 0, "max int"))
	}
	if attempts < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("attempts", attempts, 0, "max int"))
	}
	switch state {
	case StatePending, StateRunning, StateDone, StateFailed:
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("task state", fmt.Errorf("%q is not a task state", string(state))))
	}
	if err := errors.Join(errList...); err != nil {
		return ScheduledTask{}, err
	}

	return ScheduledTask{
		id:        id,
		name:      name,
		args:      args,
		runAt:     runAt.UTC(),
		dedupeKey: dedupeKey,
		state:     state,
		attempts:  attempts,
		lastError: lastError,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (t ScheduledTask) Validate() error {
	return t.guard.Validate(ErrScheduledTaskIsNotConstructed)
}

func (t ScheduledTask) ID() kernel.UUID   { return t.id }
func (t ScheduledTask) Name() Name        { return t.name }
func (t ScheduledTask) Args() Args        { return t.args }
func (t ScheduledTask) RunAt() time.Time  { return t.runAt }
func (t ScheduledTask) DedupeKey() string { return t.dedupeKey }
func (t ScheduledTask) State() State      { return t.state }
func (t ScheduledTask) Attempts() int     { return t.attempts }
func (t ScheduledTask) LastError() string { return t.lastError }
