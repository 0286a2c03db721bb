package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/task"
	"reconciler/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderStateQueryHandler answers GetOrderStateQuery with one SQL statement
// over orders, pending_transitions and scheduled_tasks.
type GetOrderStateQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderStateQueryHandler(db *gorm.DB) GetOrderStateQueryHandler {
	return GetOrderStateQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError for unknown orders.
func (h GetOrderStateQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStateQuery,
) (GetOrderStateQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStateQueryResponse{}, err
	}

	id := query.OrderID()
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.status,
			o.locked,
			o.hold_until,
			(SELECT COUNT(*) FROM pending_transitions pt WHERE pt.order_id = o.id),
			(SELECT MIN(st.run_at) FROM scheduled_tasks st
				WHERE st.name = ? AND st.dedupe_key = ? AND st.state = ?)
		FROM orders o
		WHERE o.id = ?
	`,
		string(task.ProcessPendingTransitions),
		task.DrainDedupeKey(id),
		string(task.StatePending),
		id.Bytes(),
	).Row()

	var (
		status      string
		locked      bool
		holdUntil   sql.NullTime
		pending     int64
		nextDrainAt sql.NullTime
	)
	err := row.Scan(&status, &locked, &holdUntil, &pending, &nextDrainAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderStateQueryResponse{}, errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return GetOrderStateQueryResponse{}, err
	}

	return GetOrderStateQueryResponse{
		ID:                 id,
		Status:             order.Status(status),
		Locked:             locked,
		HoldUntil:          nullTime(holdUntil),
		PendingTransitions: int(pending),
		NextDrainAt:        nullTime(nextDrainAt),
	}, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
