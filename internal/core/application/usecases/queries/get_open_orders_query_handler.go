package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// GetOpenOrdersQueryHandler retrieves in-flight orders from the database.
// Rush orders sort first so the pick floor sees them at the top.
type GetOpenOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenOrdersQueryHandler creates a handler for open order queries.
// Requires a GORM database connection for query execution.
func NewGetOpenOrdersQueryHandler(db *gorm.DB) GetOpenOrdersQueryHandler {
	return GetOpenOrdersQueryHandler{db: db}
}

/// Handle executes the query to retrieve all open orders: those not yet
// delivered and not cancelled.
func (h GetOpenOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOpenOrdersQuery,
) ([]GetOpenOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetOpenOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			status,
			rush,
			created_at
		FROM orders
		WHERE status NOT IN (?, ?)
		ORDER BY rush DESC, created_at
	`, order.Delivered, order.Cancelled).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var orderNumber string
		var status int
		var rush bool
		var createdAt time.Time

		if err = rows.Scan(&id, &orderNumber, &status, &rush, &createdAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		orders = append(orders, GetOpenOrdersQueryResponse{
			ID:          orderID,
			OrderNumber: orderNumber,
			Status:      order.Status(status).String(),
			Rush:        rush,
			CreatedAt:   createdAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
