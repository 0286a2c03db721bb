package commands

import (
	"context"
	"errors"
	"log/slog"

	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/task"
	"reconciler/internal/core/domain/model/transition"
	"reconciler/internal/core/domain/services"
	"reconciler/internal/core/ports"
	"reconciler/internal/pkg/clock"
	"reconciler/internal/pkg/errs"
)

// ProcessPendingTransitionsCommandHandler is the reconciliation processor.
//
// One pass:
//  1. Load the order. While its hold window is open, leave the queue alone and
//     re-arm the drain at the hold deadline (Deferred).
//  2. Otherwise take the whole queue in one atomic dequeue.
//  3. Evaluate the snapshot oldest first, reloading the order for every entry:
//     locked -> Conflict, expected status differs -> Stale, registry refuses
//     -> Rejected, registry accepts -> Applied.
//
// Entry outcomes are logged and reported, never returned as errors: the
// scheduler only sees an error for faults that happen before the drain starts.
//
// Loading the order, the hold decision and the dequeue share one transaction
// that holds the order row lock, the same lock an enqueue takes before it
// looks for an armed drain. An enqueue in flight therefore either commits
// before the dequeue and is drained, or runs after it, finds this drain no
// longer pending and arms a new one. The entries are evaluated after that
// transaction commits; each Applied transition commits inside the status
// registry. A ports.GuardedStatusRegistry repeats the lock and expected-status
// checks under its own row lock, so a checkout lock taken after admission
// still yields Conflict and a concurrent status change still yields Stale.
type ProcessPendingTransitionsCommandHandler struct {
	uowFactory UoWFactory
	registry   ports.StatusRegistry
	evaluator  services.TransitionEvaluator
	clock      clock.Clock
	logger     *slog.Logger
}

func NewProcessPendingTransitionsCommandHandler(
	uowFactory UoWFactory,
	registry ports.StatusRegistry,
	clk clock.Clock,
	logger *slog.Logger,
) ProcessPendingTransitionsCommandHandler {
	return ProcessPendingTransitionsCommandHandler{
		uowFactory: uowFactory,
		registry:   registry,
		evaluator:  services.NewTransitionEvaluator(),
		clock:      clk,
		logger:     logger.With("component", "transition_processor"),
	}
}

// Handle runs one pass and reports what happened to every drained entry.
func (h ProcessPendingTransitionsCommandHandler) Handle(
	ctx context.Context,
	cmd ProcessPendingTransitionsCommand,
) (ProcessReport, error) {
	if err := cmd.Validate(); err != nil {
		return ProcessReport{}, err
	}

	report := ProcessReport{OrderID: cmd.OrderID(), Attempt: cmd.Attempt()}
	log := h.logger.With("order_id", cmd.OrderID().String(), "attempt", cmd.Attempt())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return report, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	queue := uow.TransitionQueue()

	o, err := uow.OrderStore().Get(ctx, cmd.OrderID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		// Nothing can ever apply; the drain below rejects every entry.
		log.WarnContext(ctx, "Order not found, draining its queue", "error", err)
		o = nil
	case err != nil:
		return report, err
	}

	now := h.clock.Now()
	if o != nil && o.IsHeld(now) {
		empty, emptyErr := queue.IsEmpty(ctx, cmd.OrderID())
		if emptyErr != nil {
			return report, emptyErr
		}
		if empty {
			log.DebugContext(ctx, "Hold window open and queue empty, nothing to defer")
			return report, uow.Commit(ctx)
		}

		holdUntil := *o.HoldUntil()
		args := task.Args{OrderID: cmd.OrderID(), Attempt: cmd.Attempt() + 1}
		err = uow.Scheduler().Schedule(ctx, task.ProcessPendingTransitions, args, holdUntil, task.DrainDedupeKey(cmd.OrderID()))
		if err != nil {
			return report, err
		}
		if err = uow.Commit(ctx); err != nil {
			return report, err
		}

		log.InfoContext(ctx, "Hold window open, drain deferred", "hold_until", holdUntil)
		report.Deferred = true
		report.DeferredUntil = holdUntil
		return report, nil
	}

	snapshot, err := queue.DequeueAll(ctx, cmd.OrderID())
	if err != nil {
		return report, err
	}
	if err = uow.Commit(ctx); err != nil {
		return report, err
	}

	// Outside the transaction now: the registry takes the row lock itself.
	orders := uow.OrderStore()

	for _, entry := range snapshot {
		entryReport := h.evaluate(ctx, orders, entry)
		report.Entries = append(report.Entries, entryReport)
		h.logOutcome(ctx, log, entryReport)
	}

	if len(snapshot) > 0 {
		log.InfoContext(ctx, "Drain finished",
			"entries", len(snapshot),
			"applied", report.Count(transition.Applied),
			"stale", report.Count(transition.Stale),
			"conflict", report.Count(transition.Conflict),
			"rejected", report.Count(transition.Rejected),
		)
	}

	return report, nil
}

// evaluate decides one entry against the order as it is now; an earlier entry
// of the same pass may have changed its status or the checkout flow its lock.
func (h ProcessPendingTransitionsCommandHandler) evaluate(
	ctx context.Context,
	orders ports.OrderStore,
	entry transition.PendingTransition,
) EntryReport {
	current, err := orders.Get(ctx, entry.OrderID())
	if err != nil {
		return EntryReport{Entry: entry, Outcome: transition.Rejected, Reason: err}
	}

	if outcome, admitted := h.evaluator.Admit(current, entry); !admitted {
		return EntryReport{Entry: entry, Outcome: outcome}
	}

	if err = h.modifyStatus(ctx, entry); err != nil {
		switch {
		case errors.Is(err, order.ErrOrderLocked):
			return EntryReport{Entry: entry, Outcome: transition.Conflict, Reason: err}
		case errors.Is(err, order.ErrUnexpectedStatus):
			return EntryReport{Entry: entry, Outcome: transition.Stale, Reason: err}
		}
		return EntryReport{Entry: entry, Outcome: transition.Rejected, Reason: err}
	}

	return EntryReport{Entry: entry, Outcome: transition.Applied}
}

// modifyStatus lets a guarded registry repeat the lock and expected-status
// checks under its row lock, closing the gap since the entry was admitted.
func (h ProcessPendingTransitionsCommandHandler) modifyStatus(ctx context.Context, entry transition.PendingTransition) error {
	if guarded, ok := h.registry.(ports.GuardedStatusRegistry); ok {
		return guarded.ModifyStatusFrom(ctx, entry.OrderID(), entry.Expected(), entry.Target())
	}
	return h.registry.ModifyStatus(ctx, entry.OrderID(), entry.Target())
}

func (h ProcessPendingTransitionsCommandHandler) logOutcome(ctx context.Context, log *slog.Logger, r EntryReport) {
	attrs := []any{
		"outcome", r.Outcome.String(),
		"sequence", r.Entry.Sequence(),
		"target_status", r.Entry.Target().String(),
		"expected_status", r.Entry.Expected().String(),
		"source", r.Entry.Source(),
	}

	switch r.Outcome {
	case transition.Applied:
		log.InfoContext(ctx, "Transition applied", attrs...)
	case transition.Rejected:
		log.WarnContext(ctx, "Transition rejected", append(attrs, "error", r.Reason)...)
	default:
		log.InfoContext(ctx, "Transition dropped", attrs...)
	}
}
