package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
)

// TransitionEvent describes a committed status change.
type TransitionEvent struct {
	OrderID kernel.UUID
	From    order.Status
	To      order.Status
	At      time.Time
}

// TransitionListener reacts to one side of a committed status change.
type TransitionListener interface {
	OnTransition(ctx context.Context, phase order.Phase, event TransitionEvent) error
}

// TransitionListenerFunc adapts a function to TransitionListener.
type TransitionListenerFunc func(ctx context.Context, phase order.Phase, event TransitionEvent) error

func (f TransitionListenerFunc) OnTransition(ctx context.Context, phase order.Phase, event TransitionEvent) error {
	return f(ctx, phase, event)
}

type hookKey struct {
	status order.Status
	phase  order.Phase
}

// TransitionHooks is a lookup table from (status, phase) to listeners.
// Dispatch first runs the PhaseExit listeners of the status being left, then
// the PhaseEnter listeners of the status being entered, each in registration
// order.
//
// Example usage:
//
//	hooks := services.NewTransitionHooks()
//	hooks.Register(order.Completed, order.PhaseEnter, issueTickets)
//	hooks.Register(order.Completed, order.PhaseExit, revokeTickets)
//	errs := hooks.Dispatch(ctx, event)
type TransitionHooks struct {
	mu        sync.RWMutex
	listeners map[hookKey][]TransitionListener
}

// NewTransitionHooks creates an empty table.
func NewTransitionHooks() *TransitionHooks {
	return &TransitionHooks{listeners: make(map[hookKey][]TransitionListener)}
}

// Register adds a listener for one status and phase.
func (h *TransitionHooks) Register(status order.Status, phase order.Phase, listener TransitionListener) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := hookKey{status: status, phase: phase}
	h.listeners[key] = append(h.listeners[key], listener)
}

// RegisterAll adds a listener for every known status on both phases.
func (h *TransitionHooks) RegisterAll(listener TransitionListener) {
	for _, status := range order.AllStatuses() {
		h.Register(status, order.PhaseExit, listener)
		h.Register(status, order.PhaseEnter, listener)
	}
}

// Dispatch notifies every listener registered for the event. A failing
// listener does not stop the others; all failures are joined in the result.
func (h *TransitionHooks) Dispatch(ctx context.Context, event TransitionEvent) error {
	var errList []error

	for _, step := range []hookKey{
		{status: event.From, phase: order.PhaseExit},
		{status: event.To, phase: order.PhaseEnter},
	} {
		for _, listener := range h.lookup(step) {
			if err := listener.OnTransition(ctx, step.phase, event); err != nil {
				errList = append(errList, fmt.Errorf("%s %s hook: %w", step.status, step.phase, err))
			}
		}
	}

	return errors.Join(errList...)
}

func (h *TransitionHooks) lookup(key hookKey) []TransitionListener {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return append([]TransitionListener(nil), h.listeners[key]...)
}
