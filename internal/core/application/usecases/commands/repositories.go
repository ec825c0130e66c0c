// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// InventoryRepoFactory provides access to inventory repositories within a transaction.
	InventoryRepoFactory interface {
		InventoryRepository() ports.InventoryRepository
		InventoryTransactionRepository() ports.InventoryTransactionRepository
	}

	// ActivityLogRepoFactory provides access to the audit log within a transaction.
	ActivityLogRepoFactory interface {
		ActivityLogRepository() ports.ActivityLogRepository
	}

	// OutboxRepoFactory provides access to the outbox within a transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// OrderUoW manages transactions for order-plus-outbox operations.
	// Side-effect tasks enqueue in the same transaction as the order write.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		OutboxRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// TransitionUoW manages transactions for status transitions: the order
	// row, its audit entry, and the enqueued tasks commit together.
	TransitionUoW interface {
		TxManager
		OrderRepoFactory
		ActivityLogRepoFactory
		OutboxRepoFactory
	}

	// TransitionUoWFactory creates new transition unit of work instances.
	TransitionUoWFactory interface {
		Create() TransitionUoW
	}

	// ShipItemUoW manages transactions spanning the order item and the
	// inventory ledger, so a shipped-quantity change and its stock deduction
	// commit or roll back as one.
	ShipItemUoW interface {
		TxManager
		OrderRepoFactory
		InventoryRepoFactory
	}

	// ShipItemUoWFactory creates new ship-item unit of work instances.
	ShipItemUoWFactory interface {
		Create() ShipItemUoW
	}

	// DispatchUoW gives the outbox dispatcher the pending queue and the
	// order rows box assignment reads. Dispatching never opens a
	// transaction: collaborator calls are external, and each task's state
	// change is a single-row update.
	DispatchUoW interface {
		OrderRepoFactory
		OutboxRepoFactory
	}

	// DispatchUoWFactory creates new dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}
)
