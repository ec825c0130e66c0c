package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders and their items are created together and loaded together; items
// are never added or removed after creation, only their shipped quantity
// changes.
type OrderRepository interface {
	// Add persists a new order aggregate and all of its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate's own row
	// (status, timestamps, shipping fields). Item rows are not touched.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateItem persists the shipped quantity of a single order item.
	UpdateItem(ctx context.Context, item *order.Item) error

	// Get retrieves an order aggregate with its items by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByItemID retrieves the order aggregate owning the given item.
	GetByItemID(ctx context.Context, itemID kernel.UUID) (*order.Order, error)

	// Delete removes an order and its items. The caller is responsible
	// for the business guard (no shipped items).
	Delete(ctx context.Context, id kernel.UUID) error
}
