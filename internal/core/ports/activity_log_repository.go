package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// StatusChange is one immutable audit entry for an order status transition.
// Context carries transition-specific details (location, carrier, the
// reservation report on confirm) as loosely-typed JSON.
type StatusChange struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	PreviousStatus string
	NewStatus      string
	Actor          string
	Context        map[string]any
	OccurredAt     time.Time
}

// ActivityLogRepository appends to the immutable order audit log.
type ActivityLogRepository interface {
	// Append persists an audit entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry StatusChange) error
}
