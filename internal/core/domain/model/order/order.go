package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderHasNoItems indicates an attempt to create an order without any lines.
	ErrOrderHasNoItems = errors.New("order must have at least one item")

	// ErrCannotDeleteShippedOrder indicates an attempt to delete an order
	// after one or more of its items has shipped units.
	ErrCannotDeleteShippedOrder = errors.New("cannot delete an order with shipped items")
)

// Order represents an outbound fulfillment order. It is the aggregate root
// that manages the order lifecycle from submission through confirmation,
// packing, and shipping to delivery or cancellation.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a non-empty order number
//   - Must have at least one item; items are fixed in shape after creation
//   - Status transitions follow the graph defined on Status
//   - Transition timestamps (confirmedAt, shippedDate, deliveredDate) are
//     stamped exactly once, by the transition that reaches the state
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// orderNumber is the human-facing order reference
	orderNumber string

	// clientID references the owning client; nil for internal-only orders
	clientID *kernel.UUID

	// status represents the current state in the fulfillment lifecycle
	status Status

	// confirmedAt / confirmedBy are stamped on the confirm transition
	confirmedAt *time.Time
	confirmedBy string

	// shippedDate / deliveredDate are stamped on the ship/deliver transitions
	shippedDate   *time.Time
	deliveredDate *time.Time

	// shippingAddress is the destination address
	shippingAddress string

	// carrier and trackingNumber are recorded at ship time when supplied
	carrier        string
	trackingNumber string

	// requiresRepack indicates units must be repacked into billed containers;
	// false for orders shipped in original case packaging
	requiresRepack bool

	// rush marks expedited orders
	rush bool

	// items are the order lines
	items []*Item

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Pending status. This is the only way to
// create a valid order, ensuring all business invariants are maintained.
//
// Parameters:
//   - id: unique identifier for the order
//   - orderNumber: human-facing order reference (must not be blank)
//   - clientID: owning client, or nil for internal-only orders
//   - shippingAddress: destination address
//   - rush: expedite flag
//   - requiresRepack: whether units are repacked into billed containers
//   - items: order lines (at least one)
//
// Returns the created order, or a validation error if any parameter is invalid.
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	clientID *kernel.UUID,
	shippingAddress string,
	rush bool,
	requiresRepack bool,
	items []*Item,
) (*Order, error) {
	o := &Order{
		status:          Pending,
		shippingAddress: shippingAddress,
		rush:            rush,
		requiresRepack:  requiresRepack,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setClientID(clientID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence with its full state.
// Used by repositories only; validates the same invariants as NewOrder.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	clientID *kernel.UUID,
	status Status,
	confirmedAt *time.Time,
	confirmedBy string,
	shippedDate *time.Time,
	deliveredDate *time.Time,
	shippingAddress string,
	carrier string,
	trackingNumber string,
	rush bool,
	requiresRepack bool,
	items []*Item,
) (*Order, error) {
	o, err := NewOrder(id, orderNumber, clientID, shippingAddress, rush, requiresRepack, items)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	o.status = status
	o.confirmedAt = confirmedAt
	o.confirmedBy = confirmedBy
	o.shippedDate = shippedDate
	o.deliveredDate = deliveredDate
	o.carrier = carrier
	o.trackingNumber = trackingNumber

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
// This prevents bypassing validation by directly instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-facing order reference.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// ClientID returns the owning client's ID, or nil for internal-only orders.
func (o *Order) ClientID() *kernel.UUID {
	return o.clientID
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// ConfirmedAt returns the confirmation timestamp, or nil if never confirmed.
func (o *Order) ConfirmedAt() *time.Time {
	return o.confirmedAt
}

// ConfirmedBy returns the actor who confirmed the order.
func (o *Order) ConfirmedBy() string {
	return o.confirmedBy
}

// ShippedDate returns the shipment timestamp, or nil if not shipped.
func (o *Order) ShippedDate() *time.Time {
	return o.shippedDate
}

// DeliveredDate returns the delivery timestamp, or nil if not delivered.
func (o *Order) DeliveredDate() *time.Time {
	return o.deliveredDate
}

// ShippingAddress returns the destination address.
func (o *Order) ShippingAddress() string {
	return o.shippingAddress
}

// Carrier returns the shipping carrier recorded at ship time.
func (o *Order) Carrier() string {
	return o.carrier
}

// TrackingNumber returns the carrier tracking number recorded at ship time.
func (o *Order) TrackingNumber() string {
	return o.trackingNumber
}

// RequiresRepack reports whether units must be repacked into billed containers.
func (o *Order) RequiresRepack() bool {
	return o.requiresRepack
}

// Rush reports whether the order is expedited.
func (o *Order) Rush() bool {
	return o.rush
}

// Items returns the order lines.
func (o *Order) Items() []*Item {
	return o.items
}

// Item returns the order line with the given ID.
// Returns an ObjectNotFoundError if no such line exists on this order.
func (o *Order) Item(itemID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.ID().IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("itemId", itemID.String())
}

// Confirm transitions the order to Confirmed and stamps the confirmation
// time and actor. Reservation of the items is the caller's responsibility
// and is deliberately decoupled: a reservation outage never blocks the
// status transition.
func (o *Order) Confirm(actor string, at time.Time) error {
	newStatus, err := o.status.TransitionTo(Confirmed)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.confirmedAt = &at
	o.confirmedBy = actor
	return nil
}

// StartProcessing transitions the order to Processing.
// Processing is a pass-through state with no ledger side effects.
func (o *Order) StartProcessing() error {
	newStatus, err := o.status.TransitionTo(Processing)
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// MarkPacked transitions the order to Packed. Container assignment and
// billing happen outside the aggregate, after the transition persists.
func (o *Order) MarkPacked() error {
	newStatus, err := o.status.TransitionTo(Packed)
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Ship transitions the order to Shipped, stamps the shipped date, and
// records carrier and tracking number when supplied. Per-item shipping is
// expected to have already run via the ship-item operation.
func (o *Order) Ship(carrier, trackingNumber string, at time.Time) error {
	newStatus, err := o.status.TransitionTo(Shipped)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.shippedDate = &at
	if carrier != "" {
		o.carrier = carrier
	}
	if trackingNumber != "" {
		o.trackingNumber = trackingNumber
	}
	return nil
}

// Deliver transitions the order to Delivered and stamps the delivery date.
func (o *Order) Deliver(at time.Time) error {
	newStatus, err := o.status.TransitionTo(Delivered)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveredDate = &at
	return nil
}

// Cancel transitions the order to Cancelled. Only pre-shipped orders can be
// cancelled; releasing any outstanding reservations is the caller's
// responsibility (see HoldsReservations).
func (o *Order) Cancel() error {
	newStatus, err := o.status.TransitionTo(Cancelled)
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// HoldsReservations reports whether cancelling the order must release
// inventory holds: the order has been confirmed (reservations were taken)
// and has not shipped.
func (o *Order) HoldsReservations() bool {
	return o.confirmedAt != nil && o.status.IsPreShipped()
}

// EnsureDeletable verifies the order may be deleted. Deletion is only
// permitted while every item has zero shipped quantity; otherwise
// ErrCannotDeleteShippedOrder is returned.
func (o *Order) EnsureDeletable() error {
	for _, item := range o.items {
		if item.QtyShipped() > 0 {
			return ErrCannotDeleteShippedOrder
		}
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if strings.TrimSpace(orderNumber) == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setClientID(clientID *kernel.UUID) error {
	if clientID == nil {
		return nil
	}
	if err := clientID.Validate(); err != nil {
		return err
	}
	o.clientID = clientID
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return ErrOrderHasNoItems
	}
	for idx, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", idx, err)
		}
	}
	o.items = items
	return nil
}
