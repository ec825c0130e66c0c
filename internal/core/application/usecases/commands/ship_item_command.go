package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrShipItemCommandIsNotConstructed = errors.New(
		"ShipItemCommand must be created via NewShipItemCommand constructor",
	)
	ErrQtyShippedIsNegative = errors.New("shipped quantity cannot be negative")
)

// ShipItemCommand represents a request to set an order item's shipped
// quantity to an absolute new value. The handler derives the ledger effect
// from the difference against the current value, so the same request
// applied twice is a no-op.
type ShipItemCommand struct { //nolint:recvcheck //using for validation
	itemID        kernel.UUID
	newQtyShipped int
	locationID    kernel.UUID
	stage         inventory.Stage
	actor         string

	guard guard.ConstructorGuard
}

// NewShipItemCommand creates a command to record shipped units on an item.
func NewShipItemCommand(
	itemID kernel.UUID,
	newQtyShipped int,
	locationID kernel.UUID,
	stage inventory.Stage,
	actor string,
) (ShipItemCommand, error) {
	cmd := ShipItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setItemID(itemID),
		cmd.setNewQtyShipped(newQtyShipped),
		cmd.setLocationID(locationID),
		cmd.setStage(stage),
		cmd.setActor(actor),
	); err != nil {
		return ShipItemCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrShipItemCommandIsNotConstructed if validation fails.
func (c ShipItemCommand) Validate() error {
	return c.guard.Validate(ErrShipItemCommandIsNotConstructed)
}

// ItemID returns the order item to update.
func (c ShipItemCommand) ItemID() kernel.UUID {
	return c.itemID
}

// NewQtyShipped returns the absolute shipped quantity to record.
func (c ShipItemCommand) NewQtyShipped() int {
	return c.newQtyShipped
}

// LocationID returns the warehouse location stock ships from.
func (c ShipItemCommand) LocationID() kernel.UUID {
	return c.locationID
}

// Stage returns the inventory stage stock ships from.
func (c ShipItemCommand) Stage() inventory.Stage {
	return c.stage
}

// Actor returns who recorded the shipment.
func (c ShipItemCommand) Actor() string {
	return c.actor
}

func (c *ShipItemCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	c.itemID = itemID
	return nil
}

func (c *ShipItemCommand) setNewQtyShipped(newQtyShipped int) error {
	if newQtyShipped < 0 {
		return ErrQtyShippedIsNegative
	}

	c.newQtyShipped = newQtyShipped
	return nil
}

func (c *ShipItemCommand) setLocationID(locationID kernel.UUID) error {
	if err := locationID.Validate(); err != nil {
		return err
	}

	c.locationID = locationID
	return nil
}

func (c *ShipItemCommand) setStage(stage inventory.Stage) error {
	if err := stage.Validate(); err != nil {
		return err
	}

	c.stage = stage
	return nil
}

func (c *ShipItemCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
