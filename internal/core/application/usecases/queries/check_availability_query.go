package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCheckAvailabilityQueryIsNotConstructed = errors.New(
		"CheckAvailabilityQuery must be created via NewCheckAvailabilityQuery constructor",
	)
	ErrQtyRequestedIsNegative = errors.New("requested quantity must not be negative")
)

// CheckAvailabilityQuery asks whether qtyRequested units of a product could
// be reserved at a location and stage right now. Pure read against the
// inventory table; no lock is taken and the answer may be stale by the time
// a reservation is attempted.
//
// Example:
//
//	query, err := NewCheckAvailabilityQuery(productID, locationID, inventory.StageStorage, 5)
//	if err != nil {
//	    return err
//	}
//
//	availability, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	if !availability.CanFulfill {
//	    fmt.Printf("short by %d units\n", availability.Shortfall)
//	}
type CheckAvailabilityQuery struct {
	productID    kernel.UUID
	locationID   kernel.UUID
	stage        inventory.Stage
	qtyRequested int

	guard guard.ConstructorGuard
}

// NewCheckAvailabilityQuery creates a query for the availability of a
// product at a location and stage.
func NewCheckAvailabilityQuery(
	productID kernel.UUID,
	locationID kernel.UUID,
	stage inventory.Stage,
	qtyRequested int,
) (CheckAvailabilityQuery, error) {
	if err := productID.Validate(); err != nil {
		return CheckAvailabilityQuery{}, err
	}
	if err := locationID.Validate(); err != nil {
		return CheckAvailabilityQuery{}, err
	}
	if err := stage.Validate(); err != nil {
		return CheckAvailabilityQuery{}, err
	}
	if qtyRequested < 0 {
		return CheckAvailabilityQuery{}, ErrQtyRequestedIsNegative
	}

	return CheckAvailabilityQuery{
		productID:    productID,
		locationID:   locationID,
		stage:        stage,
		qtyRequested: qtyRequested,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrCheckAvailabilityQueryIsNotConstructed if validation fails.
func (q CheckAvailabilityQuery) Validate() error {
	return q.guard.Validate(ErrCheckAvailabilityQueryIsNotConstructed)
}

// ProductID returns the queried product.
func (q CheckAvailabilityQuery) ProductID() kernel.UUID {
	return q.productID
}

// LocationID returns the queried location.
func (q CheckAvailabilityQuery) LocationID() kernel.UUID {
	return q.locationID
}

// Stage returns the queried inventory stage.
func (q CheckAvailabilityQuery) Stage() inventory.Stage {
	return q.stage
}

// QtyRequested returns the quantity the caller wants to reserve.
func (q CheckAvailabilityQuery) QtyRequested() int {
	return q.qtyRequested
}

// CheckAvailabilityQueryResponse is the balance snapshot for the key.
// A key with no inventory record reads as zero stock.
type CheckAvailabilityQueryResponse struct {
	QtyOnHand    int
	QtyReserved  int
	QtyAvailable int
	CanFulfill   bool
	Shortfall    int
}
