package services

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/billing"
	"fulfillment/internal/core/domain/model/order"
	domainservices "fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// BoxAssigner turns a shipped order into container usage charges. It runs
// from the outbox at ship time: compute the packing plan per container
// family and record one usage line per container SKU.
//
// The assignment is advisory billing, not physical packing instructions;
// warehouse staff may pack differently and correct the charges by hand.
type BoxAssigner struct {
	uowFactory    BoxAssignUoWFactory
	usageRecorder *UsageRecorder
	catalog       ports.ProductCatalog
	allocator     domainservices.BoxAllocator
	rateCard      *billing.RateCard
	logger        *slog.Logger
}

// NewBoxAssigner creates a BoxAssigner.
func NewBoxAssigner(
	uowFactory BoxAssignUoWFactory,
	usageRecorder *UsageRecorder,
	catalog ports.ProductCatalog,
	allocator domainservices.BoxAllocator,
	rateCard *billing.RateCard,
	logger *slog.Logger,
) *BoxAssigner {
	return &BoxAssigner{
		uowFactory:    uowFactory,
		usageRecorder: usageRecorder,
		catalog:       catalog,
		allocator:     allocator,
		rateCard:      rateCard,
		logger:        logger.With("component", "box_assigner"),
	}
}

// AutoAssignBoxesForOrder computes and bills the container charges for a
// shipped order. The call is a no-op for orders that do not require
// repacking, for internal orders with no client to bill, and for orders
// that already carry container charges. Failures for one container family
// do not block the other; the per-record idempotency key backstops any
// partial run that gets retried.
func (b *BoxAssigner) AutoAssignBoxesForOrder(ctx context.Context, o *order.Order, actor string) error {
	if !o.RequiresRepack() {
		b.logger.InfoContext(ctx, "order does not require repack, skipping box assignment",
			"order_id", o.ID().String())
		return nil
	}
	if o.ClientID() == nil {
		b.logger.InfoContext(ctx, "internal order, skipping box assignment",
			"order_id", o.ID().String())
		return nil
	}

	assigned, err := b.alreadyAssigned(ctx, o)
	if err != nil {
		return err
	}
	if assigned {
		b.logger.InfoContext(ctx, "order already has container charges, skipping box assignment",
			"order_id", o.ID().String())
		return nil
	}

	unitsByKind, err := b.unitsByContainerKind(ctx, o)
	if err != nil {
		return err
	}

	var firstErr error
	for _, kind := range []billing.ContainerKind{billing.ContainerBoxes, billing.ContainerCans} {
		units := unitsByKind[kind]
		if units == 0 {
			continue
		}
		if err := b.assignKind(ctx, o, kind, units, actor); err != nil {
			b.logger.ErrorContext(ctx, "container assignment failed",
				"order_id", o.ID().String(),
				"container_kind", kind.String(),
				"units", units,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// alreadyAssigned reports whether any container usage line references the
// order. The storage-level idempotency key makes this a fast-path check
// rather than the correctness guarantee.
func (b *BoxAssigner) alreadyAssigned(ctx context.Context, o *order.Order) (bool, error) {
	uow := b.uowFactory.Create()
	return uow.UsageRepository().ExistsForReference(
		ctx, RefTypeOrder, o.ID().String(), b.rateCard.ContainerCodes(),
	)
}

// unitsByContainerKind sums the order's units per container family,
// resolving each product's family through the catalog. Shipped quantities
// are billed when anything shipped; an order billed before shipment
// completes falls back to requested quantities.
func (b *BoxAssigner) unitsByContainerKind(ctx context.Context, o *order.Order) (map[billing.ContainerKind]int, error) {
	anyShipped := false
	for _, item := range o.Items() {
		if item.QtyShipped() > 0 {
			anyShipped = true
			break
		}
	}

	units := make(map[billing.ContainerKind]int)
	for _, item := range o.Items() {
		qty := item.QtyRequested()
		if anyShipped {
			qty = item.QtyShipped()
		}
		if qty == 0 {
			continue
		}

		kind, err := b.catalog.ContainerKind(ctx, item.ProductID())
		if err != nil {
			return nil, err
		}
		units[kind] += qty
	}

	return units, nil
}

// assignKind records one usage line per suggestion of the packing plan.
func (b *BoxAssigner) assignKind(
	ctx context.Context,
	o *order.Order,
	kind billing.ContainerKind,
	units int,
	actor string,
) error {
	suggestions, err := b.allocator.SuggestBoxes(units, kind == billing.ContainerCans)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, suggestion := range suggestions {
		_, recorded, err := b.usageRecorder.RecordUsage(
			ctx,
			*o.ClientID(),
			suggestion.Code,
			suggestion.Qty,
			RefTypeOrder, o.ID().String(),
			now,
			"auto-assigned for order "+o.OrderNumber()+" by "+actor,
		)
		if err != nil {
			return err
		}
		if recorded {
			b.logger.InfoContext(ctx, "container charge recorded",
				"order_id", o.ID().String(),
				"rate_code", suggestion.Code,
				"qty", suggestion.Qty,
			)
		}
	}

	return nil
}
