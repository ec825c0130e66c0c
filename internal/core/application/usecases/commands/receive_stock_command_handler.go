package commands

import (
	"context"

	"fulfillment/internal/core/application/services"
	"fulfillment/internal/core/domain/model/inventory"
)

// ReceiveStockCommandHandler handles inbound receiving. The ledger creates
// the inventory record on the first receipt of a (product, location, stage)
// key and appends an adjust transaction referencing the receipt.
type ReceiveStockCommandHandler struct {
	ledger *services.Ledger
}

// NewReceiveStockCommandHandler creates a handler for receiving operations.
func NewReceiveStockCommandHandler(ledger *services.Ledger) ReceiveStockCommandHandler {
	return ReceiveStockCommandHandler{
		ledger: ledger,
	}
}

// Handle processes the receive command.
func (h *ReceiveStockCommandHandler) Handle(ctx context.Context, cmd ReceiveStockCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := h.ledger.AddStock(
		ctx,
		cmd.ProductID(), cmd.LocationID(), cmd.Stage(),
		cmd.Qty(),
		inventory.TransactionAdjust,
		services.RefTypeReceipt, cmd.Reference(), cmd.Actor(),
	)
	return err
}
