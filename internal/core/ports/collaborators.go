package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/billing"
	"fulfillment/internal/core/domain/model/kernel"
)

// Collaborator contracts consumed by the fulfillment core. Their
// implementations are external systems; the core only depends on these
// signatures and never lets a collaborator failure corrupt inventory or
// order state.

// NotificationService sends client-facing order lifecycle emails.
// All calls are dispatched from the outbox; errors are retried there.
type NotificationService interface {
	SendOrderConfirmedEmail(ctx context.Context, orderID kernel.UUID) error
	SendOrderShippedEmail(ctx context.Context, orderID kernel.UUID) error
	SendOrderDeliveredEmail(ctx context.Context, orderID kernel.UUID) error
}

// InternalAlert is the payload for internal staff alerts.
type InternalAlert struct {
	Kind    string
	Payload map[string]any
}

// InternalAlertService notifies warehouse staff of operational events
// (new_order, order_shipped).
type InternalAlertService interface {
	Send(ctx context.Context, alert InternalAlert) error
}

// PortalNotification is the client-portal message sent on every status
// transition of a client-owned order.
type PortalNotification struct {
	ClientID    kernel.UUID
	OrderNumber string
	Status      string
	Details     string
}

// PortalNotificationService pushes status updates to the client portal.
type PortalNotificationService interface {
	Send(ctx context.Context, notification PortalNotification) error
}

// ShopifyFulfillmentSync propagates shipment data to a linked Shopify
// store. Only invoked when tracking and carrier are both present at ship
// time; a no-op for orders without Shopify linkage.
type ShopifyFulfillmentSync interface {
	Sync(ctx context.Context, orderID kernel.UUID, trackingNumber, carrier, note string) error
}

// PickListGenerator produces the warehouse pick list for a confirmed order.
type PickListGenerator interface {
	Generate(ctx context.Context, orderID, locationID kernel.UUID) error
}

// ProductCatalog resolves packing attributes of products. The catalog
// itself (products, cases, dimensions) is maintained outside the core.
type ProductCatalog interface {
	// ContainerKind reports which container family the product packs into.
	ContainerKind(ctx context.Context, productID kernel.UUID) (billing.ContainerKind, error)
}
