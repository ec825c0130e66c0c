package inventory

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrRecordIsNotConstructed is returned when a Record instance was not created
	// through the NewRecord or RestoreRecord factory methods.
	ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord constructor")

	// ErrInsufficientAvailable indicates a reservation would push qty_reserved
	// above qty_on_hand. Reservations fail rather than clamp.
	ErrInsufficientAvailable = errors.New("insufficient available quantity to reserve")

	// ErrInsufficientReserved indicates a release of more units than are
	// currently reserved.
	ErrInsufficientReserved = errors.New("insufficient reserved quantity to release")

	// ErrInsufficientOnHand indicates a deduction of more units than are
	// physically on hand.
	ErrInsufficientOnHand = errors.New("insufficient on-hand quantity to deduct")
)

// Availability is the result of an availability check against a record.
type Availability struct {
	QtyOnHand    int
	QtyReserved  int
	QtyAvailable int
	CanFulfill   bool
	Shortfall    int
}

// Record is the per (product, location, stage) inventory balance: the
// physical count on hand and the portion soft-allocated to open orders.
// It is the only shared mutable resource in the system; repositories must
// serialize concurrent mutations of the same record (row-level locking).
//
// Record maintains these invariants after every operation:
//   - 0 <= qtyReserved <= qtyOnHand
//   - qtyAvailable = qtyOnHand - qtyReserved >= 0
//
// Operations fail rather than clamp when an invariant would be violated.
type Record struct {
	// id is the unique identifier for the record row
	id kernel.UUID

	// productID, locationID, and stage form the record's natural key
	productID  kernel.UUID
	locationID kernel.UUID
	stage      Stage

	// qtyOnHand is the physical count at this key
	qtyOnHand int

	// qtyReserved is the portion of qtyOnHand soft-allocated to open orders
	qtyReserved int

	// isConstructed ensures the record was created via a constructor
	isConstructed bool
}

// NewRecord creates an empty inventory record for a (product, location, stage)
// key. Stock arrives later through receipts and adjustments.
func NewRecord(id, productID, locationID kernel.UUID, stage Stage) (*Record, error) {
	r := &Record{isConstructed: true}

	if err := errors.Join(
		r.setID(id),
		r.setProductID(productID),
		r.setLocationID(locationID),
		r.setStage(stage),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRecord reconstructs a record from persistence with its balances.
// Used by repositories only; rejects balances that violate the invariant.
func RestoreRecord(id, productID, locationID kernel.UUID, stage Stage, qtyOnHand, qtyReserved int) (*Record, error) {
	r, err := NewRecord(id, productID, locationID, stage)
	if err != nil {
		return nil, err
	}

	if qtyOnHand < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("qtyOnHand is invalid",
			fmt.Errorf("%d is negative", qtyOnHand))
	}
	if qtyReserved < 0 || qtyReserved > qtyOnHand {
		return nil, errs.NewValueIsOutOfRangeError("qtyReserved", qtyReserved, 0, qtyOnHand)
	}

	r.qtyOnHand = qtyOnHand
	r.qtyReserved = qtyReserved
	return r, nil
}

// Validate ensures the Record instance was properly constructed.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// ID returns the record's unique identifier.
func (r *Record) ID() kernel.UUID {
	return r.id
}

// ProductID returns the product component of the record key.
func (r *Record) ProductID() kernel.UUID {
	return r.productID
}

// LocationID returns the location component of the record key.
func (r *Record) LocationID() kernel.UUID {
	return r.locationID
}

// Stage returns the stage component of the record key.
func (r *Record) Stage() Stage {
	return r.stage
}

// QtyOnHand returns the physical count at this key.
func (r *Record) QtyOnHand() int {
	return r.qtyOnHand
}

// QtyReserved returns the quantity soft-allocated to open orders.
func (r *Record) QtyReserved() int {
	return r.qtyReserved
}

// QtyAvailable returns the quantity free for new reservations.
func (r *Record) QtyAvailable() int {
	return r.qtyOnHand - r.qtyReserved
}

// CheckAvailability reports whether qtyRequested units could be reserved
// right now, and the shortfall if not. Pure read; no side effect.
func (r *Record) CheckAvailability(qtyRequested int) Availability {
	available := r.QtyAvailable()
	a := Availability{
		QtyOnHand:    r.qtyOnHand,
		QtyReserved:  r.qtyReserved,
		QtyAvailable: available,
		CanFulfill:   available >= qtyRequested,
	}
	if !a.CanFulfill {
		a.Shortfall = qtyRequested - available
	}
	return a
}

// Reserve increments qtyReserved by qty. Fails with ErrInsufficientAvailable
// (not a silent clamp) if the increment would push reserved above on-hand.
func (r *Record) Reserve(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qty is invalid",
			fmt.Errorf("%d is not greater than 0", qty))
	}
	if r.qtyReserved+qty > r.qtyOnHand {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientAvailable, qty, r.QtyAvailable())
	}

	r.qtyReserved += qty
	return nil
}

// Release decrements qtyReserved by qty. With alsoDeduct, it additionally
// decrements qtyOnHand by qty in the same operation: this is the ship path,
// releasing the soft hold and committing the physical removal atomically.
// Without alsoDeduct it is the cancel path, just freeing the hold.
func (r *Record) Release(qty int, alsoDeduct bool) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qty is invalid",
			fmt.Errorf("%d is not greater than 0", qty))
	}
	if qty > r.qtyReserved {
		return fmt.Errorf("%w: requested %d, reserved %d", ErrInsufficientReserved, qty, r.qtyReserved)
	}

	r.qtyReserved -= qty
	if alsoDeduct {
		r.qtyOnHand -= qty
	}
	return nil
}

// DeductOnHand decrements qtyOnHand by qty without touching the reserved
// quantity. This is the ship fallback when no reservation exists for the
// units being shipped. Fails if it would drop on-hand below the reserved
// quantity or below zero.
func (r *Record) DeductOnHand(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qty is invalid",
			fmt.Errorf("%d is not greater than 0", qty))
	}
	if r.qtyOnHand-qty < r.qtyReserved {
		return fmt.Errorf("%w: requested %d, unreserved on hand %d", ErrInsufficientOnHand, qty, r.QtyAvailable())
	}

	r.qtyOnHand -= qty
	return nil
}

// AddOnHand increments qtyOnHand by qty. Used for receipts, return restocks,
// and upward corrections.
func (r *Record) AddOnHand(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qty is invalid",
			fmt.Errorf("%d is not greater than 0", qty))
	}

	r.qtyOnHand += qty
	return nil
}

func (r *Record) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Record) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	r.productID = productID
	return nil
}

func (r *Record) setLocationID(locationID kernel.UUID) error {
	if err := locationID.Validate(); err != nil {
		return err
	}
	r.locationID = locationID
	return nil
}

func (r *Record) setStage(stage Stage) error {
	if err := stage.Validate(); err != nil {
		return err
	}
	r.stage = stage
	return nil
}
