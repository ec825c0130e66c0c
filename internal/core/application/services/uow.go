// Package services contains application services that orchestrate domain
// operations over the persistence ports: the inventory ledger primitives,
// order item reservation, usage recording, and box assignment.
// All services follow the same discipline as command handlers: validate,
// begin a unit of work, mutate, commit, with a deferred rollback.
package services

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each service needs.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// InventoryRepoFactory provides access to inventory repositories within a transaction.
	InventoryRepoFactory interface {
		InventoryRepository() ports.InventoryRepository
		InventoryTransactionRepository() ports.InventoryTransactionRepository
	}

	// UsageRepoFactory provides access to the usage repository within a transaction.
	UsageRepoFactory interface {
		UsageRepository() ports.UsageRepository
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// LedgerUoW manages transactions for ledger mutations: the inventory
	// record and its paired transaction log entry commit together.
	LedgerUoW interface {
		TxManager
		InventoryRepoFactory
	}

	// LedgerUoWFactory creates new ledger unit of work instances.
	LedgerUoWFactory interface {
		Create() LedgerUoW
	}

	// UsageUoW manages transactions for billable-event writes.
	UsageUoW interface {
		TxManager
		UsageRepoFactory
	}

	// UsageUoWFactory creates new usage unit of work instances.
	UsageUoWFactory interface {
		Create() UsageUoW
	}

	// BoxAssignUoW reads orders and usage within box assignment.
	BoxAssignUoW interface {
		TxManager
		OrderRepoFactory
		UsageRepoFactory
	}

	// BoxAssignUoWFactory creates new box assignment unit of work instances.
	BoxAssignUoWFactory interface {
		Create() BoxAssignUoW
	}
)
