package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderNumberIsRequired     = errors.New("order number is required")
	ErrShippingAddressIsRequired = errors.New("shipping address is required")
	ErrItemsAreRequired          = errors.New("at least one item is required")
	ErrItemQtyIsInvalid          = errors.New("item quantity must be greater than 0")
)

// ItemSpec is one requested order line on a create command.
type ItemSpec struct {
	ItemID       kernel.UUID
	ProductID    kernel.UUID
	QtyRequested int
}

// CreateOrderCommand represents a request to register a new fulfillment
// order with its items. A nil client marks an internal order that is never
// billed or notified through the client portal.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(
//	    kernel.NewUUID(), "SO-1042", &clientID,
//	    []ItemSpec{{ItemID: kernel.NewUUID(), ProductID: productID, QtyRequested: 3}},
//	    "14 Harbor Rd", false, true,
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	orderNumber     string
	clientID        *kernel.UUID
	items           []ItemSpec
	shippingAddress string
	rush            bool
	requiresRepack  bool

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates identifiers, the order number, the address, and that every
// item line carries a positive quantity.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	orderNumber string,
	clientID *kernel.UUID,
	items []ItemSpec,
	shippingAddress string,
	rush bool,
	requiresRepack bool,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		rush:           rush,
		requiresRepack: requiresRepack,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setOrderNumber(orderNumber),
		cmd.setClientID(clientID),
		cmd.setItems(items),
		cmd.setShippingAddress(shippingAddress),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OrderNumber returns the human-facing order reference.
func (c CreateOrderCommand) OrderNumber() string {
	return c.orderNumber
}

// ClientID returns the owning client, or nil for internal orders.
func (c CreateOrderCommand) ClientID() *kernel.UUID {
	return c.clientID
}

// Items returns the requested order lines.
func (c CreateOrderCommand) Items() []ItemSpec {
	return c.items
}

// ShippingAddress returns the destination address.
func (c CreateOrderCommand) ShippingAddress() string {
	return c.shippingAddress
}

// Rush returns the expedite flag.
func (c CreateOrderCommand) Rush() bool {
	return c.rush
}

// RequiresRepack reports whether units are repacked into billed containers.
func (c CreateOrderCommand) RequiresRepack() bool {
	return c.requiresRepack
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return ErrOrderNumberIsRequired
	}

	c.orderNumber = orderNumber
	return nil
}

func (c *CreateOrderCommand) setClientID(clientID *kernel.UUID) error {
	if clientID == nil {
		return nil
	}
	if err := clientID.Validate(); err != nil {
		return err
	}

	c.clientID = clientID
	return nil
}

func (c *CreateOrderCommand) setItems(items []ItemSpec) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if err := item.ItemID.Validate(); err != nil {
			return err
		}
		if err := item.ProductID.Validate(); err != nil {
			return err
		}
		if item.QtyRequested <= 0 {
			return ErrItemQtyIsInvalid
		}
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setShippingAddress(shippingAddress string) error {
	if shippingAddress == "" {
		return ErrShippingAddressIsRequired
	}

	c.shippingAddress = shippingAddress
	return nil
}
