// Package postgres provides the GORM-based Unit of Work over the reconciler's
// tables: orders, the pending transition queue and the scheduled task table.
//
// Repositories obtained after Begin share the transaction, so an enqueued
// entry and the drain scheduled for it commit or roll back together:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.TransitionQueue().Enqueue(ctx, entry); err != nil {
//	    return err
//	}
//	if err := uow.Scheduler().Schedule(ctx, name, args, runAt, key); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Repositories obtained without Begin run each statement on its own. Inside a
// transaction the order store loads orders with a row lock.
package postgres

import (
	"context"

	"reconciler/internal/adapters/out/postgres/orderrepo"
	"reconciler/internal/adapters/out/postgres/taskrepo"
	"reconciler/internal/adapters/out/postgres/transitionrepo"
	"reconciler/internal/core/ports"
	"reconciler/internal/pkg/clock"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db            *gorm.DB
	clock         clock.Clock
	notifyChannel string
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances. notifyChannel is passed to the scheduler; empty disables NOTIFY.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, clock.NewSystem(), "reconciler_tasks")
func NewGormUnitOfWorkFactory(db *gorm.DB, clk clock.Clock, notifyChannel string) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:            db,
		clock:         clk,
		notifyChannel: notifyChannel,
	}
}

// Create produces a new UnitOfWork instance ready for business transaction management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:            f.db,
		clock:         f.clock,
		notifyChannel: f.notifyChannel,
	}
}

// GormUnitOfWork coordinates one database transaction across the order store,
// the transition queue and the scheduler.
type GormUnitOfWork struct {
	db            *gorm.DB
	tx            *gorm.DB
	clock         clock.Clock
	notifyChannel string
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	uow.tx = tx
	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active, which makes
// a deferred Rollback after a successful Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderStore provides the order store bound to the current transaction, if any.
func (uow *GormUnitOfWork) OrderStore() ports.OrderStore {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow.tx != nil)
}

// TransitionQueue provides the pending transition queue bound to the current transaction, if any.
func (uow *GormUnitOfWork) TransitionQueue() ports.TransitionQueue {
	return transitionrepo.NewGormTransitionQueue(uow.conn())
}

// Scheduler provides the scheduler gateway bound to the current transaction, if any.
func (uow *GormUnitOfWork) Scheduler() ports.Scheduler {
	return taskrepo.NewGormTaskRepository(uow.conn(), uow.clock, uow.notifyChannel)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
