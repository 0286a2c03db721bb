package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"reconciler/internal/core/application/usecases/commands"
	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/task"
	"reconciler/internal/core/domain/model/transition"
	"reconciler/internal/core/ports"
	"reconciler/internal/pkg/errs"
)

// Abstract statuses: A -> C -> B is the only legal chain.
const (
	statusA order.Status = "A"
	statusB order.Status = "B"
	statusC order.Status = "C"
)

var errRegistryRefused = errors.New("registry refused")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type scheduledRun struct {
	name      task.Name
	args      task.Args
	runAt     time.Time
	dedupeKey string
}

// world is an in-memory reconciler backend: orders, queues, a scheduler that
// collapses pending runs by dedupe key, and a status registry over the
// abstract A, B, C lifecycle.
type world struct {
	mu sync.Mutex

	orders  map[kernel.UUID]*order.Order
	queues  map[kernel.UUID][]transition.PendingTransition
	pending []scheduledRun
	seq     int64

	legal        map[order.Status][]order.Status
	registryDown bool
	applied      []order.Status
	modifyCalls  int
}

func newWorld() *world {
	return &world{
		orders: make(map[kernel.UUID]*order.Order),
		queues: make(map[kernel.UUID][]transition.PendingTransition),
		legal: map[order.Status][]order.Status{
			statusA: {statusC},
			statusC: {statusB},
		},
	}
}

func (w *world) putOrder(status order.Status, locked bool, holdUntil *time.Time) kernel.UUID {
	id := kernel.NewUUID()
	o, err := order.RestoreOrder(id, status, locked, holdUntil)
	if err != nil {
		panic(err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.orders[id] = o
	return id
}

func (w *world) status(id kernel.UUID) order.Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.orders[id].Status()
}

func (w *world) queued(id kernel.UUID) []transition.PendingTransition {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]transition.PendingTransition(nil), w.queues[id]...)
}

func (w *world) scheduled() []scheduledRun {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]scheduledRun(nil), w.pending...)
}

// claim removes the pending run for the order, as the dispatcher does when it
// starts running a task.
func (w *world) claim(id kernel.UUID) (scheduledRun, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := task.DrainDedupeKey(id)
	for i, run := range w.pending {
		if run.dedupeKey == key {
			w.pending = append(w.pending[:i], w.pending[i+1:]...)
			return run, true
		}
	}
	return scheduledRun{}, false
}

func (w *world) setLocked(id kernel.UUID, locked bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if locked {
		w.orders[id].Lock()
	} else {
		w.orders[id].Unlock()
	}
}

func (w *world) uowFactory() *worldUoWFactory { return &worldUoWFactory{w: w} }

// ports.OrderStore

type worldStore struct{ w *world }

func (s worldStore) find(id kernel.UUID) (*order.Order, error) {
	o, ok := s.w.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return o, nil
}

func (s worldStore) Add(_ context.Context, o *order.Order) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	s.w.orders[o.ID()] = o
	return nil
}

func (s worldStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	o, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return order.RestoreOrder(o.ID(), o.Status(), o.IsLocked(), o.HoldUntil())
}

func (s worldStore) GetStatus(_ context.Context, id kernel.UUID) (order.Status, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	o, err := s.find(id)
	if err != nil {
		return order.Unknown, err
	}
	return o.Status(), nil
}

func (s worldStore) SetStatus(_ context.Context, id kernel.UUID, status order.Status) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	o, err := s.find(id)
	if err != nil {
		return err
	}
	restored, err := order.RestoreOrder(id, status, o.IsLocked(), o.HoldUntil())
	if err != nil {
		return err
	}
	s.w.orders[id] = restored
	return nil
}

func (s worldStore) IsLocked(_ context.Context, id kernel.UUID) (bool, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	o, err := s.find(id)
	if err != nil {
		return false, err
	}
	return o.IsLocked(), nil
}

func (s worldStore) Lock(_ context.Context, id kernel.UUID) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	o, err := s.find(id)
	if err != nil {
		return err
	}
	o.Lock()
	return nil
}

func (s worldStore) Unlock(_ context.Context, id kernel.UUID) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	o, err := s.find(id)
	if err != nil {
		return err
	}
	o.Unlock()
	return nil
}

func (s worldStore) GetHoldUntil(_ context.Context, id kernel.UUID) (*time.Time, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	o, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return o.HoldUntil(), nil
}

func (s worldStore) SetHoldUntil(_ context.Context, id kernel.UUID, until *time.Time) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	o, err := s.find(id)
	if err != nil {
		return err
	}
	if until == nil {
		o.ClearHold()
		return nil
	}
	return o.SetHoldUntil(*until)
}

// ports.TransitionQueue

type worldQueue struct{ w *world }

func (q worldQueue) Enqueue(_ context.Context, entry transition.PendingTransition) error {
	q.w.mu.Lock()
	defer q.w.mu.Unlock()

	q.w.seq++
	stored, err := transition.RestorePendingTransition(
		q.w.seq, entry.OrderID(), entry.Target(), entry.Expected(), entry.Source(), entry.EnqueuedAt(),
	)
	if err != nil {
		return err
	}
	q.w.queues[entry.OrderID()] = append(q.w.queues[entry.OrderID()], stored)
	return nil
}

func (q worldQueue) DequeueAll(_ context.Context, orderID kernel.UUID) ([]transition.PendingTransition, error) {
	q.w.mu.Lock()
	defer q.w.mu.Unlock()

	entries := q.w.queues[orderID]
	delete(q.w.queues, orderID)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Before(entries[j]) })
	return entries, nil
}

func (q worldQueue) IsEmpty(_ context.Context, orderID kernel.UUID) (bool, error) {
	q.w.mu.Lock()
	defer q.w.mu.Unlock()
	return len(q.w.queues[orderID]) == 0, nil
}

func (q worldQueue) Len(_ context.Context, orderID kernel.UUID) (int, error) {
	q.w.mu.Lock()
	defer q.w.mu.Unlock()
	return len(q.w.queues[orderID]), nil
}

// ports.Scheduler

type worldScheduler struct{ w *world }

func (s worldScheduler) Schedule(_ context.Context, name task.Name, args task.Args, runAt time.Time, dedupeKey string) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	for _, run := range s.w.pending {
		if run.name == name && run.dedupeKey == dedupeKey {
			return nil
		}
	}
	s.w.pending = append(s.w.pending, scheduledRun{name: name, args: args, runAt: runAt, dedupeKey: dedupeKey})
	return nil
}

func (s worldScheduler) HasScheduled(_ context.Context, name task.Name, dedupeKey string) (bool, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	for _, run := range s.w.pending {
		if run.name == name && run.dedupeKey == dedupeKey {
			return true, nil
		}
	}
	return false, nil
}

// ports.StatusRegistry

type worldRegistry struct{ w *world }

func (r worldRegistry) ModifyStatus(_ context.Context, orderID kernel.UUID, target order.Status) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()

	r.w.modifyCalls++
	if r.w.registryDown {
		return errRegistryRefused
	}

	o, ok := r.w.orders[orderID]
	if !ok {
		return errs.NewObjectNotFoundError("order", orderID)
	}
	for _, allowed := range r.w.legal[o.Status()] {
		if allowed == target {
			restored, err := order.RestoreOrder(orderID, target, o.IsLocked(), o.HoldUntil())
			if err != nil {
				return err
			}
			r.w.orders[orderID] = restored
			r.w.applied = append(r.w.applied, target)
			return nil
		}
	}
	return errRegistryRefused
}

// unit of work

type worldUoW struct{ w *world }

func (u worldUoW) Begin(context.Context) error    { return nil }
func (u worldUoW) Commit(context.Context) error   { return nil }
func (u worldUoW) Rollback(context.Context) error { return nil }

func (u worldUoW) OrderStore() ports.OrderStore           { return worldStore{w: u.w} }
func (u worldUoW) TransitionQueue() ports.TransitionQueue { return worldQueue{w: u.w} }
func (u worldUoW) Scheduler() ports.Scheduler             { return worldScheduler{w: u.w} }

type worldUoWFactory struct{ w *world }

func (f *worldUoWFactory) Create() commands.UoW { return worldUoW{w: f.w} }

type steppingClock struct{ now time.Time }

func (c *steppingClock) Now() time.Time { return c.now }

// unlockOnSecondGet releases the order lock right after the second load, the
// way a checkout request finishing in the middle of a drain pass would.
type unlockOnSecondGet struct {
	world   *world
	orderID kernel.UUID
	gets    int
}

type hookedStore struct {
	worldStore
	hook *unlockOnSecondGet
}

func (s hookedStore) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	o, err := s.worldStore.Get(ctx, id)
	s.hook.gets++
	if s.hook.gets == 2 {
		s.hook.world.setLocked(s.hook.orderID, false)
	}
	return o, err
}

type hookedUoW struct {
	worldUoW
	store hookedStore
}

func (u hookedUoW) OrderStore() ports.OrderStore { return u.store }

type hookedUoWFactory struct {
	world *world
	store *unlockOnSecondGet
}

func (f *hookedUoWFactory) Create() commands.UoW {
	return hookedUoW{
		worldUoW: worldUoW{w: f.world},
		store:    hookedStore{worldStore: worldStore{w: f.world}, hook: f.store},
	}
}
