package ports

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/billing"
)

// ErrDuplicateUsage indicates that a usage record with the same idempotency
// key (client, rate code, reference type, reference id) already exists.
// The storage layer enforces the key with a uniqueness constraint; callers
// treat the duplicate as "already billed", not as a failure to reconcile.
var ErrDuplicateUsage = errors.New("usage record already exists for this reference")

// UsageRepository defines the persistence contract for billable events.
type UsageRepository interface {
	// Add persists a usage record. Returns ErrDuplicateUsage when a record
	// with the same (client, rate code, reference type, reference id)
	// already exists; no row is written in that case.
	Add(ctx context.Context, record *billing.UsageRecord) error

	// ExistsForReference reports whether any usage record with one of the
	// given rate codes references the business object. Used by the box
	// assigner as its already-assigned pre-check.
	ExistsForReference(ctx context.Context, refType, refID string, rateCodes []string) (bool, error)
}
