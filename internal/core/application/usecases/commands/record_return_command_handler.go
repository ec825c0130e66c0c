package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/application/services"
	"fulfillment/internal/core/domain/model/billing"
	"fulfillment/internal/core/domain/model/inventory"
)

// RecordReturnCommandHandler handles client returns: units restock into
// inventory through a return_restock ledger transaction, and client-owned
// orders are charged the return handling fee. The usage write is keyed on
// the return ID, so a replayed command restocks at most once per ledger
// call but can never double-bill.
type RecordReturnCommandHandler struct {
	uowFactory    OrderUoWFactory
	ledger        *services.Ledger
	usageRecorder *services.UsageRecorder
}

// NewRecordReturnCommandHandler creates a handler for return operations.
func NewRecordReturnCommandHandler(
	uowFactory OrderUoWFactory,
	ledger *services.Ledger,
	usageRecorder *services.UsageRecorder,
) RecordReturnCommandHandler {
	return RecordReturnCommandHandler{
		uowFactory:    uowFactory,
		ledger:        ledger,
		usageRecorder: usageRecorder,
	}
}

// Handle processes the return command. Restocks the units, then records
// the RETURN-HANDLING fee for client-owned orders. Internal orders restock
// without a charge.
func (h *RecordReturnCommandHandler) Handle(ctx context.Context, cmd RecordReturnCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	_, err = h.ledger.AddStock(
		ctx,
		cmd.ProductID(), cmd.LocationID(), cmd.Stage(),
		cmd.Qty(),
		inventory.TransactionReturnRestock,
		services.RefTypeReturn, cmd.ReturnID().String(), cmd.Actor(),
	)
	if err != nil {
		return err
	}

	if aggregate.ClientID() == nil {
		return nil
	}

	_, _, err = h.usageRecorder.RecordUsage(
		ctx,
		*aggregate.ClientID(),
		billing.RateCodeReturnHandling,
		1,
		services.RefTypeReturn, cmd.ReturnID().String(),
		time.Now().UTC(),
		"return handling for order "+aggregate.OrderNumber(),
	)
	return err
}
