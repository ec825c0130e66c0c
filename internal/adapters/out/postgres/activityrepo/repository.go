// Package activityrepo persists the append-only order status audit log.
package activityrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fulfillment/internal/core/ports"
)

// StatusChangeDTO represents one audit row. Context carries the
// transition-specific details as JSON.
type StatusChangeDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	PreviousStatus string    `gorm:"type:varchar(32);not null"`
	NewStatus      string    `gorm:"type:varchar(32);not null"`
	Actor          string    `gorm:"type:varchar(255);not null"`
	Context        datatypes.JSONMap
	OccurredAt     time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name for audit entries.
func (StatusChangeDTO) TableName() string {
	return "activity_log"
}

// GormActivityLogRepository implements ActivityLogRepository using GORM.
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GORM activity log repository.
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Append persists an audit entry. Entries are never updated or deleted.
func (r *GormActivityLogRepository) Append(ctx context.Context, entry ports.StatusChange) error {
	dto := StatusChangeDTO{
		ID:             entry.ID.Bytes(),
		OrderID:        entry.OrderID.Bytes(),
		PreviousStatus: entry.PreviousStatus,
		NewStatus:      entry.NewStatus,
		Actor:          entry.Actor,
		Context:        datatypes.JSONMap(entry.Context),
		OccurredAt:     entry.OccurredAt,
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}
