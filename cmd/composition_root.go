package cmd

import (
	"log/slog"

	"reconciler/internal/adapters/out/postgres"
	"reconciler/internal/adapters/out/postgres/taskrepo"
	"reconciler/internal/core/application/usecases/commands"
	"reconciler/internal/core/application/usecases/queries"
	"reconciler/internal/core/domain/model/task"
	"reconciler/internal/core/domain/services"
	"reconciler/internal/jobs"
	"reconciler/internal/pkg/clock"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config         Config
	gormDB         *gorm.DB
	clock          clock.Clock
	logger         *slog.Logger
	gormUoWFactory *postgres.GormUnitOfWorkFactory
	hooks          *services.TransitionHooks
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	clk := clock.NewSystem()

	hooks := services.NewTransitionHooks()
	hooks.RegisterAll(services.NewTransitionLogListener(logger))

	return CompositionRoot{
		config:         config,
		gormDB:         gormDB,
		clock:          clk,
		logger:         logger,
		gormUoWFactory: postgres.NewGormUnitOfWorkFactory(gormDB, clk, config.NotifyChannel),
		hooks:          hooks,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	handler := commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.clock)
	return &handler
}

func (c *CompositionRoot) CreateLockOrderCommandHandler() commands.LockOrderCommandHandler {
	return commands.NewLockOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateSetOrderHoldCommandHandler() commands.SetOrderHoldCommandHandler {
	return commands.NewSetOrderHoldCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateEnqueueTransitionCommandHandler() commands.EnqueueTransitionCommandHandler {
	return commands.NewEnqueueTransitionCommandHandler(c.uowFactory(), c.clock)
}

func (c *CompositionRoot) CreateModifyOrderStatusCommandHandler() commands.ModifyOrderStatusCommandHandler {
	return commands.NewModifyOrderStatusCommandHandler(c.orderUoWFactory(), c.hooks, c.clock, c.logger)
}

func (c *CompositionRoot) CreateProcessPendingTransitionsCommandHandler() commands.ProcessPendingTransitionsCommandHandler {
	return commands.NewProcessPendingTransitionsCommandHandler(
		c.uowFactory(),
		c.CreateModifyOrderStatusCommandHandler(),
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderStateQueryHandler() queries.GetOrderStateQueryHandler {
	return queries.NewGetOrderStateQueryHandler(c.gormDB)
}

// CreateTaskDispatcher wires the scheduler gateway's dispatch loop with the
// reconciliation processor as the handler of drain tasks.
func (c *CompositionRoot) CreateTaskDispatcher() *jobs.TaskDispatcher {
	dispatcher := jobs.NewTaskDispatcher(c.taskStore(), c.clock, jobs.DispatcherConfig{
		BatchSize:   c.config.BatchSize,
		RetryDelay:  c.config.RetryDelay,
		MaxAttempts: c.config.MaxAttempts,
	}, c.logger)

	processor := c.CreateProcessPendingTransitionsCommandHandler()
	dispatcher.Register(task.ProcessPendingTransitions, jobs.NewProcessTransitionsTaskHandler(processor))
	return dispatcher
}

func (c *CompositionRoot) CreateJobManager(dispatcher *jobs.TaskDispatcher) *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewTaskDispatchJob(dispatcher, c.config.DispatchSchedule, c.logger),
		jobs.NewTaskReaperJob(c.taskStore(), c.config.TaskLease, c.config.ReaperSchedule, c.logger),
	)
}

func (c *CompositionRoot) taskStore() *taskrepo.GormTaskRepository {
	return taskrepo.NewGormTaskRepository(c.gormDB, c.clock, c.config.NotifyChannel)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.gormUoWFactory.Create()
	})
}

func (c *CompositionRoot) uowFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.gormUoWFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
