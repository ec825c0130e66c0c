package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrItemIsNotConstructed is returned when an Item instance was not created
	// through the NewItem or RestoreItem factory methods.
	ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem constructor")

	// ErrShippedExceedsRequested indicates an attempt to record more shipped
	// units than the order line requested without using the override path.
	ErrShippedExceedsRequested = errors.New("shipped quantity exceeds requested quantity")
)

// Item represents a single line of an outbound order: one product and the
// quantities requested and shipped for it.
//
// Item follows these invariants:
//   - qtyRequested is immutable after creation and must be positive
//   - qtyShipped stays within [0, qtyRequested] on the normal path;
//     corrections may lower it, and ForceRecordShipped may exceed
//     qtyRequested as an explicit override
//   - Can only be created through NewItem or RestoreItem
type Item struct {
	// id is the unique identifier for the order line
	id kernel.UUID

	// productID references the product being fulfilled
	productID kernel.UUID

	// qtyRequested is the quantity the client asked for (immutable)
	qtyRequested int

	// qtyShipped is the quantity physically shipped so far
	qtyShipped int

	// isConstructed ensures the item was created via a constructor
	isConstructed bool
}

// NewItem creates a new order line with zero shipped quantity.
// Returns a validation error if the IDs are invalid or the requested
// quantity is not positive.
func NewItem(id kernel.UUID, productID kernel.UUID, qtyRequested int) (*Item, error) {
	item := &Item{isConstructed: true}

	if err := errors.Join(
		item.setID(id),
		item.setProductID(productID),
		item.setQtyRequested(qtyRequested),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// RestoreItem reconstructs an order line from persistence, including its
// shipped quantity. Used by repositories only.
func RestoreItem(id kernel.UUID, productID kernel.UUID, qtyRequested, qtyShipped int) (*Item, error) {
	item, err := NewItem(id, productID, qtyRequested)
	if err != nil {
		return nil, err
	}

	if qtyShipped < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("qtyShipped is invalid",
			fmt.Errorf("%d is negative", qtyShipped))
	}
	item.qtyShipped = qtyShipped

	return item, nil
}

// Validate ensures the Item instance was properly constructed.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ID returns the order line's unique identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// ProductID returns the identifier of the product on this line.
func (i *Item) ProductID() kernel.UUID {
	return i.productID
}

// QtyRequested returns the quantity the client requested.
func (i *Item) QtyRequested() int {
	return i.qtyRequested
}

// QtyShipped returns the quantity shipped so far.
func (i *Item) QtyShipped() int {
	return i.qtyShipped
}

// Outstanding returns the quantity still reserved for this line:
// qtyRequested - qtyShipped, floored at zero.
func (i *Item) Outstanding() int {
	outstanding := i.qtyRequested - i.qtyShipped
	if outstanding < 0 {
		return 0
	}
	return outstanding
}

// RecordShipped sets the shipped quantity to newQty and returns the previous
// value so callers can compute the ledger delta. Downward adjustments are
// allowed as corrections; exceeding qtyRequested is rejected with
// ErrShippedExceedsRequested (use ForceRecordShipped for the override path).
func (i *Item) RecordShipped(newQty int) (int, error) {
	if newQty < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("qtyShipped is invalid",
			fmt.Errorf("%d is negative", newQty))
	}
	if newQty > i.qtyRequested {
		return 0, ErrShippedExceedsRequested
	}

	prev := i.qtyShipped
	i.qtyShipped = newQty
	return prev, nil
}

// ForceRecordShipped sets the shipped quantity without the requested-quantity
// ceiling. This is the explicit override path for corrective actions.
func (i *Item) ForceRecordShipped(newQty int) (int, error) {
	if newQty < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("qtyShipped is invalid",
			fmt.Errorf("%d is negative", newQty))
	}

	prev := i.qtyShipped
	i.qtyShipped = newQty
	return prev, nil
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *Item) setQtyRequested(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qtyRequested is invalid",
			fmt.Errorf("%d is not greater than 0", qty))
	}
	i.qtyRequested = qty
	return nil
}
