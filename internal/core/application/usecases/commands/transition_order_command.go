package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrTransitionOrderCommandIsNotConstructed = errors.New(
		"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
	)
	ErrActorIsRequired = errors.New("actor is required")
)

// TransitionOrderCommand represents a request to move an order to a target
// status. Location and stage identify the stock the transition reserves or
// releases; they are only required for the confirm and cancel targets.
// Carrier and tracking number are recorded on the ship target when present.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	target         order.Status
	locationID     kernel.UUID
	stage          inventory.Stage
	carrier        string
	trackingNumber string
	actor          string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to transition an order.
// Validates the order ID, target status, actor, and — for targets that
// touch the ledger — the location and stage.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	locationID kernel.UUID,
	stage inventory.Stage,
	carrier string,
	trackingNumber string,
	actor string,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		carrier:        carrier,
		trackingNumber: trackingNumber,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	if err := cmd.setStock(locationID, stage); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrTransitionOrderCommandIsNotConstructed if validation fails.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested target status.
func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

// LocationID returns the warehouse location stock operations run against.
func (c TransitionOrderCommand) LocationID() kernel.UUID {
	return c.locationID
}

// Stage returns the inventory stage stock operations run against.
func (c TransitionOrderCommand) Stage() inventory.Stage {
	return c.stage
}

// Carrier returns the shipping carrier, possibly empty.
func (c TransitionOrderCommand) Carrier() string {
	return c.carrier
}

// TrackingNumber returns the shipment tracking number, possibly empty.
func (c TransitionOrderCommand) TrackingNumber() string {
	return c.trackingNumber
}

// Actor returns who requested the transition.
func (c TransitionOrderCommand) Actor() string {
	return c.actor
}

// touchesLedger reports whether the target requires stock coordinates.
func (c TransitionOrderCommand) touchesLedger() bool {
	return c.target == order.Confirmed || c.target == order.Cancelled
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *TransitionOrderCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}

func (c *TransitionOrderCommand) setStock(locationID kernel.UUID, stage inventory.Stage) error {
	if !c.touchesLedger() {
		c.locationID = locationID
		c.stage = stage
		return nil
	}

	if err := errors.Join(locationID.Validate(), stage.Validate()); err != nil {
		return err
	}

	c.locationID = locationID
	c.stage = stage
	return nil
}
