package commands

import (
	"context"

	"fulfillment/internal/core/application/services"
)

// ShipItemCommandHandler records shipped units on an order item and applies
// the matching stock movement in a single database transaction. If the
// ledger rejects the movement the item update rolls back with it, so the
// item's shipped quantity and the physical stock can never disagree.
type ShipItemCommandHandler struct {
	uowFactory ShipItemUoWFactory
	ledger     *services.Ledger
}

// NewShipItemCommandHandler creates a handler for ship-item operations.
func NewShipItemCommandHandler(uowFactory ShipItemUoWFactory, ledger *services.Ledger) ShipItemCommandHandler {
	return ShipItemCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
	}
}

// Handle processes the ship-item command.
//
// The new shipped quantity is absolute; the handler diffs it against the
// current value. An increase ships the difference: reserved units are
// released with deduction first, any remainder deducts on-hand directly.
// A decrease is a correction that restores the difference to on-hand
// without touching reservations. Equal values change nothing.
func (h *ShipItemCommandHandler) Handle(ctx context.Context, cmd ShipItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetByItemID(ctx, cmd.ItemID())
	if err != nil {
		return err
	}

	item, err := aggregate.Item(cmd.ItemID())
	if err != nil {
		return err
	}

	prev, err := item.RecordShipped(cmd.NewQtyShipped())
	if err != nil {
		return err
	}

	diff := cmd.NewQtyShipped() - prev
	switch {
	case diff > 0:
		err = h.ledger.ShipInTx(
			ctx, uow,
			item.ProductID(), cmd.LocationID(), cmd.Stage(),
			diff,
			services.RefTypeOrderItem, item.ID().String(), cmd.Actor(),
		)
	case diff < 0:
		err = h.ledger.RestoreInTx(
			ctx, uow,
			item.ProductID(), cmd.LocationID(), cmd.Stage(),
			-diff,
			services.RefTypeOrderItem, item.ID().String(), cmd.Actor(),
		)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	if err = orderRepo.UpdateItem(ctx, item); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
