// Package postgres provides the GORM-based implementation of the Unit of
// Work pattern. A unit of work spans one business operation: every
// repository it hands out is bound to the same database transaction, so the
// order row, its ledger mutations, the audit entry, and the enqueued outbox
// tasks commit or roll back together.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Add(ctx, order); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Rollback after a successful commit is a no-op, which is what makes the
// deferred-rollback idiom above safe.
package postgres

import (
	"context"

	"gorm.io/gorm"

	"fulfillment/internal/adapters/out/postgres/activityrepo"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/usagerepo"
	"fulfillment/internal/core/ports"
)

// GormUnitOfWorkFactory creates UnitOfWork instances over one GORM database
// connection. Each business operation gets a fresh instance with its own
// transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates a database transaction across the fulfillment
// repositories. Repositories obtained before Begin run against the bare
// connection; after Begin they run inside the transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin initiates a new database transaction. Calling Begin again on an
// instance with an open transaction is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Rolling back with no open transaction returns nil, so a deferred
// rollback after a successful commit is harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// conn returns the open transaction, or the bare connection outside one.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// OrderRepository returns an OrderRepository bound to the current transaction.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

// InventoryRepository returns an InventoryRepository bound to the current
// transaction. Row locks taken through it hold until Commit or Rollback.
func (uow *GormUnitOfWork) InventoryRepository() ports.InventoryRepository {
	return inventoryrepo.NewGormInventoryRepository(uow.conn())
}

// InventoryTransactionRepository returns the ledger log bound to the
// current transaction.
func (uow *GormUnitOfWork) InventoryTransactionRepository() ports.InventoryTransactionRepository {
	return inventoryrepo.NewGormInventoryTransactionRepository(uow.conn())
}

// UsageRepository returns a UsageRepository bound to the current transaction.
func (uow *GormUnitOfWork) UsageRepository() ports.UsageRepository {
	return usagerepo.NewGormUsageRepository(uow.conn())
}

// ActivityLogRepository returns the audit log bound to the current transaction.
func (uow *GormUnitOfWork) ActivityLogRepository() ports.ActivityLogRepository {
	return activityrepo.NewGormActivityLogRepository(uow.conn())
}

// OutboxRepository returns an OutboxRepository bound to the current transaction.
func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}
