package services

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// RefTypeOrder and RefTypeOrderItem tag ledger transactions and usage
// records with the business object that caused them.
const (
	RefTypeOrder     = "order"
	RefTypeOrderItem = "order_item"
	RefTypeReceipt   = "receipt"
	RefTypeReturn    = "return"
)

// ItemReservation is one successful per-item reservation.
type ItemReservation struct {
	ItemID        kernel.UUID
	ProductID     kernel.UUID
	Qty           int
	TransactionID kernel.UUID
}

// ItemError is one failed per-item ledger call. Shortfall is populated
// when the failure was insufficient available stock.
type ItemError struct {
	ItemID    kernel.UUID
	ProductID kernel.UUID
	Qty       int
	Shortfall int
	Message   string
}

// Report aggregates the outcome of reserving or releasing an order's
// items. Success means every item succeeded; a partial outcome keeps
// Success false while Reserved lists what did go through. A reservation
// shortfall is a normal result the caller must inspect, not an error.
type Report struct {
	Success  bool
	Reserved []ItemReservation
	Errors   []ItemError
}

// ToLogContext renders the report for audit-log context and logging.
func (r Report) ToLogContext() map[string]any {
	itemErrors := make([]map[string]any, 0, len(r.Errors))
	for _, e := range r.Errors {
		itemErrors = append(itemErrors, map[string]any{
			"item_id":    e.ItemID.String(),
			"product_id": e.ProductID.String(),
			"qty":        e.Qty,
			"shortfall":  e.Shortfall,
			"message":    e.Message,
		})
	}
	return map[string]any{
		"success":     r.Success,
		"reserved":    len(r.Reserved),
		"item_errors": itemErrors,
	}
}

// ReservationService translates an order's line items into ledger
// operations. Its policy is "reserve what you can, report what you
// couldn't": per-item failures are collected rather than aborting, so a
// partial reservation never blocks the rest of the order.
type ReservationService struct {
	ledger *Ledger
	logger *slog.Logger
}

// NewReservationService creates a ReservationService over the ledger.
func NewReservationService(ledger *Ledger, logger *slog.Logger) *ReservationService {
	return &ReservationService{
		ledger: ledger,
		logger: logger.With("component", "reservation_service"),
	}
}

// ReserveOrderItems reserves each item's requested quantity at the given
// location and stage. Failures for individual items are collected into the
// report; the aggregate call itself only fails on a nil order.
func (s *ReservationService) ReserveOrderItems(
	ctx context.Context,
	o *order.Order,
	locationID kernel.UUID,
	stage inventory.Stage,
	actor string,
) Report {
	report := Report{Success: true}

	for _, item := range o.Items() {
		txID, err := s.ledger.Reserve(
			ctx,
			item.ProductID(), locationID, stage,
			item.QtyRequested(),
			RefTypeOrderItem, item.ID().String(), actor,
		)
		if err != nil {
			report.Success = false
			report.Errors = append(report.Errors, s.itemError(ctx, item, locationID, stage, err))
			s.logger.WarnContext(ctx, "item reservation failed",
				"order_id", o.ID().String(),
				"item_id", item.ID().String(),
				"product_id", item.ProductID().String(),
				"qty", item.QtyRequested(),
				"error", err,
			)
			continue
		}

		report.Reserved = append(report.Reserved, ItemReservation{
			ItemID:        item.ID(),
			ProductID:     item.ProductID(),
			Qty:           item.QtyRequested(),
			TransactionID: txID,
		})
	}

	return report
}

// ReleaseOrderItems frees the outstanding hold for each item:
// qty_requested - qty_shipped, released without deducting physical stock.
// Items with nothing outstanding are skipped.
func (s *ReservationService) ReleaseOrderItems(
	ctx context.Context,
	o *order.Order,
	locationID kernel.UUID,
	stage inventory.Stage,
	actor string,
) Report {
	report := Report{Success: true}

	for _, item := range o.Items() {
		outstanding := item.Outstanding()
		if outstanding == 0 {
			continue
		}

		txID, err := s.ledger.Release(
			ctx,
			item.ProductID(), locationID, stage,
			outstanding,
			false,
			RefTypeOrderItem, item.ID().String(), actor,
		)
		if err != nil {
			report.Success = false
			report.Errors = append(report.Errors, ItemError{
				ItemID:    item.ID(),
				ProductID: item.ProductID(),
				Qty:       outstanding,
				Message:   err.Error(),
			})
			s.logger.WarnContext(ctx, "item release failed",
				"order_id", o.ID().String(),
				"item_id", item.ID().String(),
				"qty", outstanding,
				"error", err,
			)
			continue
		}

		report.Reserved = append(report.Reserved, ItemReservation{
			ItemID:        item.ID(),
			ProductID:     item.ProductID(),
			Qty:           outstanding,
			TransactionID: txID,
		})
	}

	return report
}

// itemError builds the per-item failure entry, resolving the shortfall
// with a follow-up availability read when stock was insufficient.
func (s *ReservationService) itemError(
	ctx context.Context,
	item *order.Item,
	locationID kernel.UUID,
	stage inventory.Stage,
	cause error,
) ItemError {
	itemErr := ItemError{
		ItemID:    item.ID(),
		ProductID: item.ProductID(),
		Qty:       item.QtyRequested(),
		Message:   cause.Error(),
	}

	if errors.Is(cause, inventory.ErrInsufficientAvailable) {
		availability, err := s.ledger.CheckAvailability(ctx, item.ProductID(), locationID, stage, item.QtyRequested())
		if err == nil {
			itemErr.Shortfall = availability.Shortfall
		}
	}

	return itemErr
}
