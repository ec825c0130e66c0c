package orderrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order with its items to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing order's own row. Item rows are not touched;
// shipped quantities go through UpdateItem.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Omit("Items").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UpdateItem saves a single changed line item without rewriting the whole
// aggregate. Used on the ship path where only one item's quantity moves.
func (r *GormOrderRepository) UpdateItem(ctx context.Context, item *order.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ItemDTO{}).
		Where("id = ?", item.ID().Bytes()).
		Update("qty_shipped", item.QtyShipped())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderItem", item.ID().String())
	}

	return nil
}

// Get retrieves an order with its items by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByItemID retrieves the order owning the given line item.
func (r *GormOrderRepository) GetByItemID(ctx context.Context, itemID kernel.UUID) (*order.Order, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	var itemDto ItemDTO
	if err := r.db.WithContext(ctx).First(&itemDto, "id = ?", itemID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderItem", itemID.String())
		}
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(itemDto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, orderID)
}

// Delete removes an order and its items. Item rows go with the order via
// the cascade constraint.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}

	return nil
}
