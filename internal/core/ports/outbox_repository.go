package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/outbox"
)

// OutboxRepository defines the persistence contract for durable side-effect
// tasks. Tasks are added in the same transaction as the business change
// that caused them and drained by the dispatch job.
type OutboxRepository interface {
	// Add persists a new pending task.
	Add(ctx context.Context, task *outbox.Task) error

	// Update persists dispatch-state changes (status, attempts, lastError).
	Update(ctx context.Context, task *outbox.Task) error

	// GetPending retrieves up to limit pending tasks, oldest first.
	GetPending(ctx context.Context, limit int) ([]*outbox.Task, error)
}
