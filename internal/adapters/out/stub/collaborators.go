// Package stub provides log-only implementations of the collaborator ports.
// The real systems (email, client portal, Shopify, pick list printing, the
// product catalog) live outside this service; these adapters stand in for
// them in development and tests, and mark the seam where real integrations
// plug in.
package stub

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/billing"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// NotificationService logs order lifecycle emails instead of sending them.
type NotificationService struct {
	logger *slog.Logger
}

// NewNotificationService creates a log-only notification service.
func NewNotificationService(logger *slog.Logger) *NotificationService {
	return &NotificationService{logger: logger.With("component", "notification_stub")}
}

// SendOrderConfirmedEmail logs the confirmation email dispatch.
func (s *NotificationService) SendOrderConfirmedEmail(ctx context.Context, orderID kernel.UUID) error {
	s.logger.InfoContext(ctx, "order confirmed email", "order_id", orderID.String())
	return nil
}

// SendOrderShippedEmail logs the shipped email dispatch.
func (s *NotificationService) SendOrderShippedEmail(ctx context.Context, orderID kernel.UUID) error {
	s.logger.InfoContext(ctx, "order shipped email", "order_id", orderID.String())
	return nil
}

// SendOrderDeliveredEmail logs the delivered email dispatch.
func (s *NotificationService) SendOrderDeliveredEmail(ctx context.Context, orderID kernel.UUID) error {
	s.logger.InfoContext(ctx, "order delivered email", "order_id", orderID.String())
	return nil
}

// InternalAlertService logs internal staff alerts.
type InternalAlertService struct {
	logger *slog.Logger
}

// NewInternalAlertService creates a log-only internal alert service.
func NewInternalAlertService(logger *slog.Logger) *InternalAlertService {
	return &InternalAlertService{logger: logger.With("component", "internal_alert_stub")}
}

// Send logs the alert.
func (s *InternalAlertService) Send(ctx context.Context, alert ports.InternalAlert) error {
	s.logger.InfoContext(ctx, "internal alert", "kind", alert.Kind, "payload", alert.Payload)
	return nil
}

// PortalNotificationService logs client portal status updates.
type PortalNotificationService struct {
	logger *slog.Logger
}

// NewPortalNotificationService creates a log-only portal notification service.
func NewPortalNotificationService(logger *slog.Logger) *PortalNotificationService {
	return &PortalNotificationService{logger: logger.With("component", "portal_stub")}
}

// Send logs the portal notification.
func (s *PortalNotificationService) Send(ctx context.Context, notification ports.PortalNotification) error {
	s.logger.InfoContext(ctx, "portal notification",
		"client_id", notification.ClientID.String(),
		"order_number", notification.OrderNumber,
		"status", notification.Status,
	)
	return nil
}

// ShopifyFulfillmentSync logs shipment sync calls.
type ShopifyFulfillmentSync struct {
	logger *slog.Logger
}

// NewShopifyFulfillmentSync creates a log-only Shopify sync.
func NewShopifyFulfillmentSync(logger *slog.Logger) *ShopifyFulfillmentSync {
	return &ShopifyFulfillmentSync{logger: logger.With("component", "shopify_stub")}
}

// Sync logs the fulfillment sync.
func (s *ShopifyFulfillmentSync) Sync(
	ctx context.Context,
	orderID kernel.UUID,
	trackingNumber, carrier, note string,
) error {
	s.logger.InfoContext(ctx, "shopify fulfillment sync",
		"order_id", orderID.String(),
		"tracking_number", trackingNumber,
		"carrier", carrier,
		"note", note,
	)
	return nil
}

// PickListGenerator logs pick list generation.
type PickListGenerator struct {
	logger *slog.Logger
}

// NewPickListGenerator creates a log-only pick list generator.
func NewPickListGenerator(logger *slog.Logger) *PickListGenerator {
	return &PickListGenerator{logger: logger.With("component", "pick_list_stub")}
}

// Generate logs the pick list request.
func (s *PickListGenerator) Generate(ctx context.Context, orderID, locationID kernel.UUID) error {
	s.logger.InfoContext(ctx, "pick list generated",
		"order_id", orderID.String(),
		"location_id", locationID.String(),
	)
	return nil
}

// ProductCatalog resolves every product to the standard box family. The
// real catalog lives in the inventory management system; until that
// integration lands, everything packs as boxes.
type ProductCatalog struct{}

// NewProductCatalog creates the stub catalog.
func NewProductCatalog() *ProductCatalog {
	return &ProductCatalog{}
}

// ContainerKind reports the container family for a product.
func (c *ProductCatalog) ContainerKind(_ context.Context, _ kernel.UUID) (billing.ContainerKind, error) {
	return billing.ContainerBoxes, nil
}
