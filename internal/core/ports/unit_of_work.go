package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and repositories bound to the current
// transaction. Client code must explicitly manage the transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. Rolling back with no
	// open transaction is a no-op, so a deferred rollback after a
	// successful commit is harmless.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// InventoryRepository returns an InventoryRepository bound to the current transaction.
	InventoryRepository() InventoryRepository

	// InventoryTransactionRepository returns the ledger log bound to the current transaction.
	InventoryTransactionRepository() InventoryTransactionRepository

	// UsageRepository returns a UsageRepository bound to the current transaction.
	UsageRepository() UsageRepository

	// ActivityLogRepository returns the audit log bound to the current transaction.
	ActivityLogRepository() ActivityLogRepository

	// OutboxRepository returns an OutboxRepository bound to the current transaction.
	OutboxRepository() OutboxRepository
}
