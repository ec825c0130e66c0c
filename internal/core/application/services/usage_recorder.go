package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/billing"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// UsageRecorder writes billable events priced from the rate card.
//
// Idempotency is enforced at the storage level: the usage table carries a
// uniqueness constraint on (client, rate code, reference type, reference
// id), so a retried emission resolves to "already billed" instead of a
// second charge. The recorder treats that outcome as success.
type UsageRecorder struct {
	uowFactory UsageUoWFactory
	rateCard   *billing.RateCard
	logger     *slog.Logger
}

// NewUsageRecorder creates a UsageRecorder over the unit of work factory
// and rate card.
func NewUsageRecorder(uowFactory UsageUoWFactory, rateCard *billing.RateCard, logger *slog.Logger) *UsageRecorder {
	return &UsageRecorder{
		uowFactory: uowFactory,
		rateCard:   rateCard,
		logger:     logger.With("component", "usage_recorder"),
	}
}

// RecordUsage prices and persists one billable event. Returns the new
// record's ID and recorded=true on a first write; recorded=false with a
// zero ID when an identical event was already billed. Unknown rate codes
// and invalid quantities are errors.
func (r *UsageRecorder) RecordUsage(
	ctx context.Context,
	clientID kernel.UUID,
	rateCode string,
	quantity int,
	refType, refID string,
	usageDate time.Time,
	notes string,
) (id kernel.UUID, recorded bool, err error) {
	unitPrice, err := r.rateCard.UnitPrice(rateCode)
	if err != nil {
		return kernel.UUID{}, false, err
	}

	record, err := billing.NewUsageRecord(
		kernel.NewUUID(), clientID, rateCode, quantity, unitPrice, refType, refID, usageDate, notes,
	)
	if err != nil {
		return kernel.UUID{}, false, err
	}

	uow := r.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.UsageRepository().Add(ctx, record); err != nil {
		if errors.Is(err, ports.ErrDuplicateUsage) {
			r.logger.InfoContext(ctx, "usage already recorded",
				"client_id", clientID.String(),
				"rate_code", rateCode,
				"ref_type", refType,
				"ref_id", refID,
			)
			return kernel.UUID{}, false, nil
		}
		return kernel.UUID{}, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, false, err
	}

	r.logger.InfoContext(ctx, "usage recorded",
		"usage_id", record.ID().String(),
		"client_id", clientID.String(),
		"rate_code", rateCode,
		"quantity", quantity,
		"total", record.Total().StringFixed(2),
	)

	return record.ID(), true, nil
}
