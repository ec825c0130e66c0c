package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOpenOrdersQueryIsNotConstructed = errors.New(
	"GetOpenOrdersQuery must be created via NewGetOpenOrdersQuery constructor",
)

// GetOpenOrdersQuery retrieves all orders still moving through fulfillment:
// everything not yet delivered and not cancelled. Used by the operational
// dashboard and the open-orders endpoint.
//
// Example:
//
//	query := NewGetOpenOrdersQuery()
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get open orders: %w", err)
//	}
//	fmt.Printf("%d orders in flight\n", len(orders))
type GetOpenOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOpenOrdersQuery creates a query to retrieve in-flight orders.
// This is a parameterless query.
func NewGetOpenOrdersQuery() GetOpenOrdersQuery {
	return GetOpenOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOpenOrdersQueryIsNotConstructed if validation fails.
func (q GetOpenOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenOrdersQueryIsNotConstructed)
}

// GetOpenOrdersQueryResponse is one in-flight order row.
type GetOpenOrdersQueryResponse struct {
	ID          kernel.UUID
	OrderNumber string
	Status      string
	Rush        bool
	CreatedAt   time.Time
}
