// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Items are a child table linked by foreign key and deleted with the order.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber     string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	ClientID        *uuid.UUID `gorm:"type:uuid;index"`
	Status          int        `gorm:"type:int;not null;index"`
	ConfirmedAt     *time.Time
	ConfirmedBy     string `gorm:"type:varchar(255)"`
	ShippedDate     *time.Time
	DeliveredDate   *time.Time
	ShippingAddress string `gorm:"type:text;not null"`
	Carrier         string `gorm:"type:varchar(64)"`
	TrackingNumber  string `gorm:"type:varchar(128)"`
	Rush            bool
	RequiresRepack  bool
	CreatedAt       time.Time `gorm:"autoCreateTime"`

	Items []ItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents the database structure for persisting order line items.
type ItemDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	QtyRequested int       `gorm:"type:int;not null"`
	QtyShipped   int       `gorm:"type:int;not null"`
}

// TableName specifies the database table name for order item entities.
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	var clientID *uuid.UUID
	if id := aggregate.ClientID(); id != nil {
		raw := id.Bytes()
		clientID = &raw
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemFromDomain(orderID, item))
	}

	return OrderDTO{
		ID:              orderID,
		OrderNumber:     aggregate.OrderNumber(),
		ClientID:        clientID,
		Status:          int(aggregate.Status()),
		ConfirmedAt:     aggregate.ConfirmedAt(),
		ConfirmedBy:     aggregate.ConfirmedBy(),
		ShippedDate:     aggregate.ShippedDate(),
		DeliveredDate:   aggregate.DeliveredDate(),
		ShippingAddress: aggregate.ShippingAddress(),
		Carrier:         aggregate.Carrier(),
		TrackingNumber:  aggregate.TrackingNumber(),
		Rush:            aggregate.Rush(),
		RequiresRepack:  aggregate.RequiresRepack(),
		Items:           items,
	}
}

// itemFromDomain converts one line item to its database representation.
func itemFromDomain(orderID uuid.UUID, item *order.Item) ItemDTO {
	return ItemDTO{
		ID:           item.ID().Bytes(),
		OrderID:      orderID,
		ProductID:    item.ProductID().Bytes(),
		QtyRequested: item.QtyRequested(),
		QtyShipped:   item.QtyShipped(),
	}
}

// toDomain converts a database DTO to an order aggregate.
// Reconstructs the complete aggregate including items using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var clientID *kernel.UUID
	if dto.ClientID != nil {
		cID, clientErr := kernel.UUIDFromBytes((*dto.ClientID)[:])
		if clientErr != nil {
			return nil, clientErr
		}
		clientID = &cID
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		item, itemErr := itemToDomain(itemDto)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		clientID,
		order.Status(dto.Status),
		dto.ConfirmedAt,
		dto.ConfirmedBy,
		dto.ShippedDate,
		dto.DeliveredDate,
		dto.ShippingAddress,
		dto.Carrier,
		dto.TrackingNumber,
		dto.Rush,
		dto.RequiresRepack,
		items,
	)
}

// itemToDomain converts an item DTO to the domain entity via RestoreItem.
func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreItem(id, productID, dto.QtyRequested, dto.QtyShipped)
}
