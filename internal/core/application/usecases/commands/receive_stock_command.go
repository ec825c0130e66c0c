package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrReceiveStockCommandIsNotConstructed = errors.New(
		"ReceiveStockCommand must be created via NewReceiveStockCommand constructor",
	)
	ErrReceiveQtyIsInvalid = errors.New("received quantity must be greater than 0")
	ErrReferenceIsRequired = errors.New("receipt reference is required")
)

// ReceiveStockCommand represents inbound receiving: qty units of a product
// arriving at a location and stage, attributed to a receipt reference.
type ReceiveStockCommand struct { //nolint:recvcheck //using for validation
	productID  kernel.UUID
	locationID kernel.UUID
	stage      inventory.Stage
	qty        int
	reference  string
	actor      string

	guard guard.ConstructorGuard
}

// NewReceiveStockCommand creates a command to receive stock.
func NewReceiveStockCommand(
	productID kernel.UUID,
	locationID kernel.UUID,
	stage inventory.Stage,
	qty int,
	reference string,
	actor string,
) (ReceiveStockCommand, error) {
	cmd := ReceiveStockCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setProductID(productID),
		cmd.setLocationID(locationID),
		cmd.setStage(stage),
		cmd.setQty(qty),
		cmd.setReference(reference),
		cmd.setActor(actor),
	); err != nil {
		return ReceiveStockCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReceiveStockCommandIsNotConstructed if validation fails.
func (c ReceiveStockCommand) Validate() error {
	return c.guard.Validate(ErrReceiveStockCommandIsNotConstructed)
}

// ProductID returns the received product.
func (c ReceiveStockCommand) ProductID() kernel.UUID {
	return c.productID
}

// LocationID returns the receiving location.
func (c ReceiveStockCommand) LocationID() kernel.UUID {
	return c.locationID
}

// Stage returns the inventory stage stock is received into.
func (c ReceiveStockCommand) Stage() inventory.Stage {
	return c.stage
}

// Qty returns the received unit count.
func (c ReceiveStockCommand) Qty() int {
	return c.qty
}

// Reference returns the receipt document reference.
func (c ReceiveStockCommand) Reference() string {
	return c.reference
}

// Actor returns who recorded the receipt.
func (c ReceiveStockCommand) Actor() string {
	return c.actor
}

func (c *ReceiveStockCommand) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	c.productID = productID
	return nil
}

func (c *ReceiveStockCommand) setLocationID(locationID kernel.UUID) error {
	if err := locationID.Validate(); err != nil {
		return err
	}

	c.locationID = locationID
	return nil
}

func (c *ReceiveStockCommand) setStage(stage inventory.Stage) error {
	if err := stage.Validate(); err != nil {
		return err
	}

	c.stage = stage
	return nil
}

func (c *ReceiveStockCommand) setQty(qty int) error {
	if qty <= 0 {
		return ErrReceiveQtyIsInvalid
	}

	c.qty = qty
	return nil
}

func (c *ReceiveStockCommand) setReference(reference string) error {
	if reference == "" {
		return ErrReferenceIsRequired
	}

	c.reference = reference
	return nil
}

func (c *ReceiveStockCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
