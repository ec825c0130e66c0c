package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an outbound order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct fulfillment workflow.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Processing ──> Packed ──> Shipped ──> Delivered
//	   │            │              │            │
//	   └────────────┴──────────────┴────────────┴──> Cancelled
//
// Every pre-shipped state can escape to Cancelled; once an order has
// shipped, cancellation is no longer possible.
//
// Status is a value object that validates state transitions
// and provides string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first submitted.
	// No inventory has been reserved yet.
	Pending

	// Confirmed indicates the order has been accepted and its items
	// reserved (best effort) against a warehouse location.
	Confirmed

	// Processing indicates the order is being picked. This is a
	// pass-through state with no ledger side effects.
	Processing

	// Packed indicates the order's units have been packed into
	// shipping containers.
	Packed

	// Shipped indicates physical stock has left the warehouse.
	Shipped

	// Delivered indicates the carrier has confirmed delivery.
	// This is a final state with no further transitions allowed.
	Delivered

	// Cancelled indicates the order was cancelled before shipping.
	// This is a final state with no further transitions allowed.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		Confirmed:  "Confirmed",
		Processing: "Processing",
		Packed:     "Packed",
		Shipped:    "Shipped",
		Delivered:  "Delivered",
		Cancelled:  "Cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "Pending",
		Confirmed:  "Confirmed",
		Processing: "Processing",
		Packed:     "Packed",
		Shipped:    "Shipped",
		Delivered:  "Delivered",
		Cancelled:  "Cancelled",
	}
}

// nextStatus defines the single legal forward step from each state.
// Cancellation is handled separately as the escape hatch.
func nextStatus() map[Status]Status {
	return map[Status]Status{
		Pending:    Confirmed,
		Confirmed:  Processing,
		Processing: Packed,
		Packed:     Shipped,
		Shipped:    Delivered,
	}
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Pending, Confirmed, Processing, Packed, Shipped,
// Delivered, Cancelled. Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Returns "Unknown" for invalid status values.
// This method implements the fmt.Stringer interface.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString resolves a status by its human-readable name.
// Used when parsing transition targets from external callers.
func StatusFromString(name string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid status name", name),
	)
}

// IsPreShipped reports whether the status precedes physical shipment.
// Pre-shipped orders may still be cancelled.
func (s Status) IsPreShipped() bool {
	switch s {
	case Pending, Confirmed, Processing, Packed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// TransitionTo validates and performs a transition to the target status.
//
// Legal transitions are the single forward step along the fulfillment
// chain (Pending -> Confirmed -> Processing -> Packed -> Shipped ->
// Delivered) plus the cancellation escape from any pre-shipped state.
// Backward transitions are never allowed.
//
// Returns:
//   - (target, nil) on a legal transition
//   - (0, error) if the transition is not allowed from the current status
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if err := target.Validate(); err != nil {
		return 0, err
	}

	if target == Cancelled {
		if !s.IsPreShipped() {
			return 0, errs.NewValueIsInvalidErrorWithCause(
				"status is invalid",
				fmt.Errorf("%s order cannot be cancelled", s.String()),
			)
		}
		return Cancelled, nil
	}

	if next, ok := nextStatus()[s]; ok && next == target {
		return target, nil
	}

	return 0, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("cannot transition from %s to %s", s.String(), target.String()),
	)
}
