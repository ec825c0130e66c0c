package usagerepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fulfillment/internal/core/domain/model/billing"
	"fulfillment/internal/core/ports"
)

// GormUsageRepository implements UsageRepository using GORM.
type GormUsageRepository struct {
	db *gorm.DB
}

// NewGormUsageRepository creates a new GORM usage repository.
func NewGormUsageRepository(db *gorm.DB) *GormUsageRepository {
	return &GormUsageRepository{db: db}
}

// Add persists a usage record. The insert runs with ON CONFLICT DO NOTHING
// against the idempotency key; an insert that affects no row means an
// identical event was already billed and is reported as ErrDuplicateUsage.
func (r *GormUsageRepository) Add(ctx context.Context, record *billing.UsageRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "client_id"}, {Name: "rate_code"}, {Name: "ref_type"}, {Name: "ref_id"},
			},
			DoNothing: true,
		}).
		Create(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.ErrDuplicateUsage
	}

	return nil
}

// ExistsForReference reports whether any usage record with one of the given
// rate codes references the business object.
func (r *GormUsageRepository) ExistsForReference(
	ctx context.Context,
	refType, refID string,
	rateCodes []string,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&UsageRecordDTO{}).
		Where("ref_type = ? AND ref_id = ? AND rate_code IN ?", refType, refID, rateCodes).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
