package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"reconciler/internal/core/application/usecases/commands"
	"reconciler/internal/core/application/usecases/queries"
	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type OrderCreator interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
}

type OrderLocker interface {
	Handle(ctx context.Context, cmd commands.LockOrderCommand) error
}

type OrderHolder interface {
	Handle(ctx context.Context, cmd commands.SetOrderHoldCommand) error
}

type TransitionEnqueuer interface {
	Handle(ctx context.Context, cmd commands.EnqueueTransitionCommand) error
}

type OrderStateReader interface {
	Handle(ctx context.Context, query queries.GetOrderStateQuery) (queries.GetOrderStateQueryResponse, error)
}

// Server handles the HTTP requests of the checkout flow and the webhook
// intake and delegates them to the application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       OrderCreator
	lockOrderHandler         OrderLocker
	setOrderHoldHandler      OrderHolder
	enqueueTransitionHandler TransitionEnqueuer

	// Query handlers
	getOrderStateHandler OrderStateReader

	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler OrderCreator,
	lockOrderHandler OrderLocker,
	setOrderHoldHandler OrderHolder,
	enqueueTransitionHandler TransitionEnqueuer,
	getOrderStateHandler OrderStateReader,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		lockOrderHandler:         lockOrderHandler,
		setOrderHoldHandler:      setOrderHoldHandler,
		enqueueTransitionHandler: enqueueTransitionHandler,
		getOrderStateHandler:     getOrderStateHandler,
		logger:                   logger.With("component", "http_server"),
	}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID := kernel.NewUUID()
	if body.OrderID != nil {
		id, err := kernel.UUIDFromGoogle(*body.OrderID)
		if err != nil {
			return badRequest(ctx, "Invalid order id: "+err.Error())
		}
		orderID = id
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, time.Duration(body.HoldForSeconds)*time.Second)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "Failed to create order", err)
	}

	return ctx.JSON(http.StatusCreated, OrderCreated{OrderID: orderID.Bytes()})
}

// GetOrderState handles GET /api/v1/orders/{order_id}.
func (s *Server) GetOrderState(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetOrderStateQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	state, err := s.getOrderStateHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "Failed to read order state", err)
	}

	return ctx.JSON(http.StatusOK, OrderState{
		OrderID:            state.ID.Bytes(),
		Status:             state.Status.String(),
		Locked:             state.Locked,
		HoldUntil:          state.HoldUntil,
		PendingTransitions: state.PendingTransitions,
		NextDrainAt:        state.NextDrainAt,
	})
}

// LockOrder handles POST /api/v1/orders/{order_id}/lock.
func (s *Server) LockOrder(ctx echo.Context) error {
	return s.setLock(ctx, commands.NewLockOrderCommand)
}

// UnlockOrder handles DELETE /api/v1/orders/{order_id}/lock.
func (s *Server) UnlockOrder(ctx echo.Context) error {
	return s.setLock(ctx, commands.NewUnlockOrderCommand)
}

func (s *Server) setLock(ctx echo.Context, newCommand func(kernel.UUID) (commands.LockOrderCommand, error)) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	cmd, err := newCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.lockOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "Failed to update order lock", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetOrderHold handles PUT /api/v1/orders/{order_id}/hold.
func (s *Server) SetOrderHold(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var body Hold
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var cmd commands.SetOrderHoldCommand
	if body.Until == nil {
		cmd, err = commands.NewClearOrderHoldCommand(orderID)
	} else {
		cmd, err = commands.NewSetOrderHoldCommand(orderID, *body.Until)
	}
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.setOrderHoldHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "Failed to update order hold", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// EnqueueTransition handles POST /api/v1/webhooks/orders/{order_id}/transitions.
// The notification is only queued; 202 says nothing about whether it will apply.
func (s *Server) EnqueueTransition(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var body Transition
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.ParseStatus(body.TargetStatus)
	if err != nil {
		return badRequest(ctx, "Invalid target status: "+err.Error())
	}
	expected, err := order.ParseStatus(body.ExpectedStatus)
	if err != nil {
		return badRequest(ctx, "Invalid expected status: "+err.Error())
	}

	cmd, err := commands.NewEnqueueTransitionCommand(orderID, target, expected, body.Source)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.enqueueTransitionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "Failed to queue transition", err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

func bindOrderID(ctx echo.Context) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "order_id", ctx.Param("order_id"), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return kernel.UUID{}, err
	}

	return kernel.UUIDFromGoogle(id)
}

// fail maps use case errors to status codes. Anything unrecognized is logged
// and reported as 500 without its message.
func (s *Server) fail(ctx echo.Context, message string, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: err.Error()})
	case errors.Is(err, order.ErrOrderAlreadyExists):
		return ctx.JSON(http.StatusConflict, Error{Code: http.StatusConflict, Message: err.Error()})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return badRequest(ctx, err.Error())
	}

	s.logger.ErrorContext(ctx.Request().Context(), message,
		"error", err,
		"method", ctx.Request().Method,
		"path", ctx.Path(),
	)
	return ctx.JSON(http.StatusInternalServerError, Error{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
