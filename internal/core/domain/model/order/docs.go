// Package order provides domain entities and business logic for outbound
// order management in the fulfillment system. It implements the Order
// aggregate root with lifecycle management and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, shipping data, and lifecycle
//   - Item: An order line tracking requested and shipped quantities for one product
//   - Status: A state machine that enforces valid order status transitions
//
// Key business rules:
//   - Orders must have a valid unique identifier, order number, and at least one item
//   - Status follows the workflow Pending -> Confirmed -> Processing -> Packed -> Shipped -> Delivered
//   - Any pre-shipped order can be cancelled; shipped orders cannot
//   - Requested quantities are immutable; shipped quantities move within
//     [0, requested] with an explicit override path for corrections
//   - Orders with shipped units can never be deleted
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
