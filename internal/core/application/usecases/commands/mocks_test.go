package commands_test

import (
	"context"
	"time"

	"reconciler/internal/core/application/usecases/commands"
	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/task"
	"reconciler/internal/core/domain/model/transition"
	"reconciler/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderStore struct{ mock.Mock }

func (m *MockOrderStore) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderStore) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderStore) GetStatus(ctx context.Context, id kernel.UUID) (order.Status, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(order.Status), args.Error(1)
}

func (m *MockOrderStore) SetStatus(ctx context.Context, id kernel.UUID, status order.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderStore) IsLocked(ctx context.Context, id kernel.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderStore) Lock(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderStore) Unlock(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderStore) GetHoldUntil(ctx context.Context, id kernel.UUID) (*time.Time, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*time.Time)
	return t, args.Error(1)
}

func (m *MockOrderStore) SetHoldUntil(ctx context.Context, id kernel.UUID, until *time.Time) error {
	args := m.Called(ctx, id, until)
	return args.Error(0)
}

type MockTransitionQueue struct{ mock.Mock }

func (m *MockTransitionQueue) Enqueue(ctx context.Context, entry transition.PendingTransition) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTransitionQueue) DequeueAll(ctx context.Context, orderID kernel.UUID) ([]transition.PendingTransition, error) {
	args := m.Called(ctx, orderID)
	entries, _ := args.Get(0).([]transition.PendingTransition)
	return entries, args.Error(1)
}

func (m *MockTransitionQueue) IsEmpty(ctx context.Context, orderID kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransitionQueue) Len(ctx context.Context, orderID kernel.UUID) (int, error) {
	args := m.Called(ctx, orderID)
	return args.Int(0), args.Error(1)
}

type MockScheduler struct{ mock.Mock }

func (m *MockScheduler) Schedule(ctx context.Context, name task.Name, a task.Args, runAt time.Time, dedupeKey string) error {
	args := m.Called(ctx, name, a, runAt, dedupeKey)
	return args.Error(0)
}

func (m *MockScheduler) HasScheduled(ctx context.Context, name task.Name, dedupeKey string) (bool, error) {
	args := m.Called(ctx, name, dedupeKey)
	return args.Bool(0), args.Error(1)
}

type MockStatusRegistry struct{ mock.Mock }

func (m *MockStatusRegistry) ModifyStatus(ctx context.Context, orderID kernel.UUID, target order.Status) error {
	args := m.Called(ctx, orderID, target)
	return args.Error(0)
}

type MockGuardedStatusRegistry struct{ MockStatusRegistry }

func (m *MockGuardedStatusRegistry) ModifyStatusFrom(
	ctx context.Context,
	orderID kernel.UUID,
	expected order.Status,
	target order.Status,
) error {
	args := m.Called(ctx, orderID, expected, target)
	return args.Error(0)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderStore() ports.OrderStore {
	args := m.Called()
	return args.Get(0).(ports.OrderStore)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockUoW struct{ MockOrderUoW }

func (m *MockUoW) TransitionQueue() ports.TransitionQueue {
	args := m.Called()
	return args.Get(0).(ports.TransitionQueue)
}

func (m *MockUoW) Scheduler() ports.Scheduler {
	args := m.Called()
	return args.Get(0).(ports.Scheduler)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}
