// Package inventoryrepo provides data transfer objects and mapping functions
// for inventory persistence: the per-key balance records and the append-only
// ledger of every balance mutation.
package inventoryrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
)

// RecordDTO represents the database structure for persisting inventory
// balances. The (product, location, stage) key is unique; mutations lock
// the row for the duration of the surrounding transaction.
type RecordDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_key"`
	LocationID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_key"`
	Stage       int       `gorm:"type:int;not null;uniqueIndex:idx_inventory_key"`
	QtyOnHand   int       `gorm:"type:int;not null"`
	QtyReserved int       `gorm:"type:int;not null"`
}

// TableName specifies the database table name for inventory records.
func (RecordDTO) TableName() string {
	return "inventory"
}

// TransactionDTO represents one appended ledger entry. Rows are written
// once and never updated.
type TransactionDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	LocationID uuid.UUID `gorm:"type:uuid;not null"`
	Stage      int       `gorm:"type:int;not null"`
	Kind       int       `gorm:"type:int;not null"`
	QtyChange  int       `gorm:"type:int;not null"`
	RefType    string    `gorm:"type:varchar(32);not null;index:idx_inventory_tx_ref"`
	RefID      string    `gorm:"type:varchar(64);not null;index:idx_inventory_tx_ref"`
	Actor      string    `gorm:"type:varchar(255);not null"`
	OccurredAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for ledger entries.
func (TransactionDTO) TableName() string {
	return "inventory_transactions"
}

// recordFromDomain converts an inventory record to its database representation.
func recordFromDomain(aggregate *inventory.Record) RecordDTO {
	return RecordDTO{
		ID:          aggregate.ID().Bytes(),
		ProductID:   aggregate.ProductID().Bytes(),
		LocationID:  aggregate.LocationID().Bytes(),
		Stage:       int(aggregate.Stage()),
		QtyOnHand:   aggregate.QtyOnHand(),
		QtyReserved: aggregate.QtyReserved(),
	}
}

// recordToDomain converts a database DTO to an inventory record aggregate.
func recordToDomain(dto RecordDTO) (*inventory.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	locationID, err := kernel.UUIDFromBytes(dto.LocationID[:])
	if err != nil {
		return nil, err
	}

	return inventory.RestoreRecord(
		id, productID, locationID, inventory.Stage(dto.Stage), dto.QtyOnHand, dto.QtyReserved,
	)
}

// transactionFromDomain converts a ledger entry to its database representation.
func transactionFromDomain(transaction *inventory.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:         transaction.ID().Bytes(),
		ProductID:  transaction.ProductID().Bytes(),
		LocationID: transaction.LocationID().Bytes(),
		Stage:      int(transaction.Stage()),
		Kind:       int(transaction.Kind()),
		QtyChange:  transaction.QtyChange(),
		RefType:    transaction.RefType(),
		RefID:      transaction.RefID(),
		Actor:      transaction.Actor(),
		OccurredAt: transaction.OccurredAt(),
	}
}
