package inventoryrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// GormInventoryRepository implements InventoryRepository using GORM.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GORM inventory repository.
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Add persists a new inventory record.
func (r *GormInventoryRepository) Add(ctx context.Context, aggregate *inventory.Record) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := recordFromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update persists changed balances of an existing record.
func (r *GormInventoryRepository) Update(ctx context.Context, aggregate *inventory.Record) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := recordFromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&RecordDTO{}).
		Where("id = ?", dto.ID).
		Select("qty_on_hand", "qty_reserved").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("inventoryRecord", aggregate.ID().String())
	}

	return nil
}

// Get retrieves a record by its natural key without locking.
func (r *GormInventoryRepository) Get(
	ctx context.Context,
	productID, locationID kernel.UUID,
	stage inventory.Stage,
) (*inventory.Record, error) {
	return r.get(ctx, r.db, productID, locationID, stage)
}

// GetForUpdate retrieves a record by its natural key under a SELECT ... FOR
// UPDATE row lock. The lock holds until the surrounding transaction ends,
// serializing concurrent mutations of the same key.
func (r *GormInventoryRepository) GetForUpdate(
	ctx context.Context,
	productID, locationID kernel.UUID,
	stage inventory.Stage,
) (*inventory.Record, error) {
	locked := r.db.Clauses(clause.Locking{Strength: "UPDATE"})
	return r.get(ctx, locked, productID, locationID, stage)
}

func (r *GormInventoryRepository) get(
	ctx context.Context,
	db *gorm.DB,
	productID, locationID kernel.UUID,
	stage inventory.Stage,
) (*inventory.Record, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}
	if err := locationID.Validate(); err != nil {
		return nil, err
	}
	if err := stage.Validate(); err != nil {
		return nil, err
	}

	var dto RecordDTO
	err := db.WithContext(ctx).
		First(&dto, "product_id = ? AND location_id = ? AND stage = ?",
			productID.Bytes(), locationID.Bytes(), int(stage)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("inventoryRecord", productID.String())
		}
		return nil, err
	}

	return recordToDomain(dto)
}

// GormInventoryTransactionRepository implements the append-only ledger log
// using GORM.
type GormInventoryTransactionRepository struct {
	db *gorm.DB
}

// NewGormInventoryTransactionRepository creates a new GORM ledger log.
func NewGormInventoryTransactionRepository(db *gorm.DB) *GormInventoryTransactionRepository {
	return &GormInventoryTransactionRepository{db: db}
}

// Append persists a ledger entry. Entries are never updated or deleted.
func (r *GormInventoryTransactionRepository) Append(
	ctx context.Context,
	transaction *inventory.Transaction,
) error {
	if err := transaction.Validate(); err != nil {
		return err
	}

	dto := transactionFromDomain(transaction)
	return r.db.WithContext(ctx).Create(&dto).Error
}
