// Package usagerepo provides data transfer objects and mapping functions for
// billable-event persistence. The table carries the idempotency key for
// usage recording: a unique index over (client, rate code, reference type,
// reference id) that turns a replayed emission into a no-op.
package usagerepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/billing"
	"fulfillment/internal/core/domain/model/kernel"
)

// UsageRecordDTO represents the database structure for persisting usage
// records.
type UsageRecordDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClientID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_usage_key"`
	RateCode  string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_usage_key"`
	Quantity  int             `gorm:"type:int;not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	RefType   string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_usage_key"`
	RefID     string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_usage_key"`
	UsageDate time.Time       `gorm:"not null"`
	Notes     string          `gorm:"type:text"`
	Invoiced  bool            `gorm:"not null"`
}

// TableName specifies the database table name for usage records.
func (UsageRecordDTO) TableName() string {
	return "usage_records"
}

// fromDomain converts a usage record to its database representation.
func fromDomain(record *billing.UsageRecord) UsageRecordDTO {
	return UsageRecordDTO{
		ID:        record.ID().Bytes(),
		ClientID:  record.ClientID().Bytes(),
		RateCode:  record.RateCode(),
		Quantity:  record.Quantity(),
		UnitPrice: record.UnitPrice(),
		Total:     record.Total(),
		RefType:   record.RefType(),
		RefID:     record.RefID(),
		UsageDate: record.UsageDate(),
		Notes:     record.Notes(),
		Invoiced:  record.Invoiced(),
	}
}

// toDomain converts a database DTO to a usage record aggregate.
func toDomain(dto UsageRecordDTO) (*billing.UsageRecord, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}

	return billing.RestoreUsageRecord(
		id, clientID, dto.RateCode, dto.Quantity, dto.UnitPrice, dto.Total,
		dto.RefType, dto.RefID, dto.UsageDate, dto.Notes, dto.Invoiced,
	)
}
