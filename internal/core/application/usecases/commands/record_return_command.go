package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRecordReturnCommandIsNotConstructed = errors.New(
		"RecordReturnCommand must be created via NewRecordReturnCommand constructor",
	)
	ErrReturnQtyIsInvalid = errors.New("returned quantity must be greater than 0")
)

// RecordReturnCommand represents a client return: qty units of a product
// coming back against an order, restocked at a location and stage. The
// return ID is the caller's idempotency handle; resubmitting the same
// return bills the handling fee only once.
type RecordReturnCommand struct { //nolint:recvcheck //using for validation
	returnID   kernel.UUID
	orderID    kernel.UUID
	productID  kernel.UUID
	qty        int
	locationID kernel.UUID
	stage      inventory.Stage
	actor      string

	guard guard.ConstructorGuard
}

// NewRecordReturnCommand creates a command to record a return.
func NewRecordReturnCommand(
	returnID kernel.UUID,
	orderID kernel.UUID,
	productID kernel.UUID,
	qty int,
	locationID kernel.UUID,
	stage inventory.Stage,
	actor string,
) (RecordReturnCommand, error) {
	cmd := RecordReturnCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setReturnID(returnID),
		cmd.setOrderID(orderID),
		cmd.setProductID(productID),
		cmd.setQty(qty),
		cmd.setLocationID(locationID),
		cmd.setStage(stage),
		cmd.setActor(actor),
	); err != nil {
		return RecordReturnCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRecordReturnCommandIsNotConstructed if validation fails.
func (c RecordReturnCommand) Validate() error {
	return c.guard.Validate(ErrRecordReturnCommandIsNotConstructed)
}

// ReturnID returns the return event identifier.
func (c RecordReturnCommand) ReturnID() kernel.UUID {
	return c.returnID
}

// OrderID returns the order the units come back against.
func (c RecordReturnCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ProductID returns the returned product.
func (c RecordReturnCommand) ProductID() kernel.UUID {
	return c.productID
}

// Qty returns the returned unit count.
func (c RecordReturnCommand) Qty() int {
	return c.qty
}

// LocationID returns the restocking location.
func (c RecordReturnCommand) LocationID() kernel.UUID {
	return c.locationID
}

// Stage returns the inventory stage units restock into.
func (c RecordReturnCommand) Stage() inventory.Stage {
	return c.stage
}

// Actor returns who recorded the return.
func (c RecordReturnCommand) Actor() string {
	return c.actor
}

func (c *RecordReturnCommand) setReturnID(returnID kernel.UUID) error {
	if err := returnID.Validate(); err != nil {
		return err
	}

	c.returnID = returnID
	return nil
}

func (c *RecordReturnCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RecordReturnCommand) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	c.productID = productID
	return nil
}

func (c *RecordReturnCommand) setQty(qty int) error {
	if qty <= 0 {
		return ErrReturnQtyIsInvalid
	}

	c.qty = qty
	return nil
}

func (c *RecordReturnCommand) setLocationID(locationID kernel.UUID) error {
	if err := locationID.Validate(); err != nil {
		return err
	}

	c.locationID = locationID
	return nil
}

func (c *RecordReturnCommand) setStage(stage inventory.Stage) error {
	if err := stage.Validate(); err != nil {
		return err
	}

	c.stage = stage
	return nil
}

func (c *RecordReturnCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
