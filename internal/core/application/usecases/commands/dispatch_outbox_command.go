package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrDispatchOutboxCommandIsNotConstructed = errors.New(
	"DispatchOutboxCommand must be created via NewDispatchOutboxCommand constructor",
)

// DispatchOutboxCommand triggers one drain pass over the pending outbox
// tasks. Each pass picks up a batch of pending tasks oldest-first and
// performs their side effects against the external collaborators.
//
// Example:
//
//	cmd := NewDispatchOutboxCommand()
//	handler := NewDispatchOutboxCommandHandler(uowFactory, collaborators, boxAssigner, usageRecorder, logger)
//	err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    log.Printf("Outbox drain pass failed: %v", err)
//	}
type DispatchOutboxCommand struct {
	guard guard.ConstructorGuard
}

// NewDispatchOutboxCommand creates a new command to trigger an outbox drain
// pass. This is a parameterless command; the batch size and retry policy
// belong to the handler.
func NewDispatchOutboxCommand() DispatchOutboxCommand {
	return DispatchOutboxCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrDispatchOutboxCommandIsNotConstructed if validation fails.
func (c *DispatchOutboxCommand) Validate() error {
	return c.guard.Validate(
		ErrDispatchOutboxCommandIsNotConstructed,
	)
}
