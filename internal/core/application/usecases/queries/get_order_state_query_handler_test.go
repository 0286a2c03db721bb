package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "reconciler/internal/adapters/out/postgres"
	"reconciler/internal/core/application/usecases/queries"
	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/task"
	"reconciler/internal/core/domain/model/transition"
	"reconciler/internal/core/ports"
	"reconciler/internal/pkg/clock"
	"reconciler/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type GetOrderStateQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOrderStateQueryHandler
	factory   ports.UnitOfWorkFactory
}

func (suite *GetOrderStateQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.handler = queries.NewGetOrderStateQueryHandler(db)
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db, clock.NewFixed(now), "")
}

func (suite *GetOrderStateQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetOrderStateQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, pending_transitions, scheduled_tasks").Error
	suite.Require().NoError(err)
}

func (suite *GetOrderStateQueryHandlerTestSuite) TestHandle_IdleOrder() {
	o, err := order.NewOrder(kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().OrderStore().Add(context.Background(), o))

	state := suite.handle(o.ID())

	suite.Equal(o.ID(), state.ID)
	suite.Equal(order.Created, state.Status)
	suite.False(state.Locked)
	suite.Nil(state.HoldUntil)
	suite.Zero(state.PendingTransitions)
	suite.Nil(state.NextDrainAt)
}

func (suite *GetOrderStateQueryHandlerTestSuite) TestHandle_HeldOrderWithQueuedTransitions() {
	ctx := context.Background()
	hold := now.Add(15 * time.Minute)
	o, err := order.RestoreOrder(kernel.NewUUID(), order.Pending, true, &hold)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.OrderStore().Add(ctx, o))
	for range 2 {
		entry, entryErr := transition.NewPendingTransition(o.ID(), order.Completed, order.Pending, "", now)
		suite.Require().NoError(entryErr)
		suite.Require().NoError(uow.TransitionQueue().Enqueue(ctx, entry))
	}
	suite.Require().NoError(uow.Scheduler().Schedule(ctx, task.ProcessPendingTransitions,
		task.Args{OrderID: o.ID()}, hold, task.DrainDedupeKey(o.ID())))

	state := suite.handle(o.ID())

	suite.Equal(order.Pending, state.Status)
	suite.True(state.Locked)
	suite.Require().NotNil(state.HoldUntil)
	suite.True(hold.Equal(*state.HoldUntil))
	suite.Equal(2, state.PendingTransitions)
	suite.Require().NotNil(state.NextDrainAt)
	suite.True(hold.Equal(*state.NextDrainAt))
}

func (suite *GetOrderStateQueryHandlerTestSuite) TestHandle_UnknownOrder_ReturnsNotFound() {
	query, err := queries.NewGetOrderStateQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetOrderStateQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	_, err := suite.handler.Handle(context.Background(), queries.GetOrderStateQuery{})

	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewGetOrderStateQuery constructor")
}

func (suite *GetOrderStateQueryHandlerTestSuite) handle(id kernel.UUID) queries.GetOrderStateQueryResponse {
	query, err := queries.NewGetOrderStateQuery(id)
	suite.Require().NoError(err)

	state, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	return state
}

func TestGetOrderStateQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOrderStateQueryHandlerTestSuite))
}
