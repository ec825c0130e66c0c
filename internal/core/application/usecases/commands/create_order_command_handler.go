package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/outbox"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Creates the order and its items in Pending status and enqueues the
// new-order internal alert in the same transaction.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	cmd, _ := NewCreateOrderCommand(orderID, "SO-1042", &clientID, items, "14 Harbor Rd", false, true)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// Order is now pending and visible to the warehouse
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
// Builds the aggregate with its items, persists it, and enqueues the
// new_order alert task so the warehouse learns about it once the
// transaction commits.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items := make([]*order.Item, 0, len(cmd.Items()))
	for _, spec := range cmd.Items() {
		item, err := order.NewItem(spec.ItemID, spec.ProductID, spec.QtyRequested)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(),
		cmd.OrderNumber(),
		cmd.ClientID(),
		cmd.ShippingAddress(),
		cmd.Rush(),
		cmd.RequiresRepack(),
		items,
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	task, err := outbox.NewTask(kernel.NewUUID(), outbox.KindInternalAlert, map[string]any{
		"kind":         "new_order",
		"order_id":     aggregate.ID().String(),
		"order_number": aggregate.OrderNumber(),
		"rush":         aggregate.Rush(),
	}, time.Now().UTC())
	if err != nil {
		return err
	}
	if err = uow.OutboxRepository().Add(ctx, task); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
