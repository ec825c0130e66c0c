package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
)

// InventoryRepository defines the persistence contract for inventory
// records. The per (product, location, stage) balance is the only shared
// mutable resource in the system, so the repository must provide
// single-writer semantics for mutations: GetForUpdate takes a row-level
// lock that is held until the surrounding transaction ends.
type InventoryRepository interface {
	// Add persists a new inventory record.
	Add(ctx context.Context, aggregate *inventory.Record) error

	// Update persists changed balances of an existing record.
	Update(ctx context.Context, aggregate *inventory.Record) error

	// Get retrieves a record by its natural key without locking.
	// Returns an ObjectNotFoundError when no record exists for the key.
	Get(ctx context.Context, productID, locationID kernel.UUID, stage inventory.Stage) (*inventory.Record, error)

	// GetForUpdate retrieves a record by its natural key holding a
	// row-level lock for the remainder of the transaction. Concurrent
	// mutations of the same key serialize on this lock.
	GetForUpdate(ctx context.Context, productID, locationID kernel.UUID, stage inventory.Stage) (*inventory.Record, error)
}

// InventoryTransactionRepository appends to the immutable ledger log.
// Every mutation of an inventory record is paired with exactly one entry,
// written in the same transaction.
type InventoryTransactionRepository interface {
	// Append persists a ledger entry. Entries are never updated or deleted.
	Append(ctx context.Context, transaction *inventory.Transaction) error
}
