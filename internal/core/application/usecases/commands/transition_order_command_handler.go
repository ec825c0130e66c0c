package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/application/services"
	"fulfillment/internal/core/domain/model/billing"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/ports"
)

// TransitionReport is the outcome of a transition command: the statuses
// before and after, plus the reservation report when the transition took
// or released inventory holds.
type TransitionReport struct {
	PreviousStatus order.Status
	NewStatus      order.Status
	Reservation    *services.Report
}

// TransitionOrderCommandHandler orchestrates order status transitions.
// Each transition is one transaction containing the order update, its audit
// entry, and the side-effect tasks the new status triggers; the outbox
// dispatch job performs those side effects after commit.
//
// Inventory coordination is deliberately asymmetric with the transaction:
// reservations and releases run through the ledger service in their own
// short transactions, best-effort, and their report lands in the audit
// entry. A reservation shortfall never blocks a confirmation (the order
// confirms; staff resolve the shortfall), and a release failure never
// blocks a cancellation.
type TransitionOrderCommandHandler struct {
	uowFactory   TransitionUoWFactory
	reservations *services.ReservationService
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
func NewTransitionOrderCommandHandler(
	uowFactory TransitionUoWFactory,
	reservations *services.ReservationService,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory:   uowFactory,
		reservations: reservations,
	}
}

// Handle processes the transition command. Invalid transitions (backward
// moves, cancelling a shipped order, unknown targets) fail before anything
// is written.
func (h *TransitionOrderCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionOrderCommand,
) (TransitionReport, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionReport{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionReport{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return TransitionReport{}, err
	}

	report := TransitionReport{PreviousStatus: aggregate.Status()}
	now := time.Now().UTC()

	var tasks []*outbox.Task
	auditContext := map[string]any{}

	switch cmd.Target() {
	case order.Confirmed:
		if err = aggregate.Confirm(cmd.Actor(), now); err != nil {
			return TransitionReport{}, err
		}

		reservation := h.reservations.ReserveOrderItems(ctx, aggregate, cmd.LocationID(), cmd.Stage(), cmd.Actor())
		report.Reservation = &reservation
		auditContext["reservation"] = reservation.ToLogContext()
		auditContext["location_id"] = cmd.LocationID().String()

		tasks, err = h.confirmTasks(aggregate, cmd.LocationID(), now)

	case order.Processing:
		err = aggregate.StartProcessing()

	case order.Packed:
		if err = aggregate.MarkPacked(); err != nil {
			return TransitionReport{}, err
		}
		tasks, err = h.packedTasks(aggregate, cmd.Actor(), now)

	case order.Shipped:
		if err = aggregate.Ship(cmd.Carrier(), cmd.TrackingNumber(), now); err != nil {
			return TransitionReport{}, err
		}
		auditContext["carrier"] = aggregate.Carrier()
		auditContext["tracking_number"] = aggregate.TrackingNumber()
		tasks, err = h.shippedTasks(aggregate, now)

	case order.Delivered:
		if err = aggregate.Deliver(now); err != nil {
			return TransitionReport{}, err
		}
		tasks, err = h.deliveredTasks(aggregate, now)

	case order.Cancelled:
		holdsReservations := aggregate.HoldsReservations()
		if err = aggregate.Cancel(); err != nil {
			return TransitionReport{}, err
		}

		if holdsReservations {
			release := h.reservations.ReleaseOrderItems(ctx, aggregate, cmd.LocationID(), cmd.Stage(), cmd.Actor())
			report.Reservation = &release
			auditContext["release"] = release.ToLogContext()
		}

	default:
		_, err = aggregate.Status().TransitionTo(cmd.Target())
	}
	if err != nil {
		return TransitionReport{}, err
	}

	if task := h.portalTask(aggregate, now); task != nil {
		tasks = append(tasks, task)
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return TransitionReport{}, err
	}

	if err = uow.ActivityLogRepository().Append(ctx, ports.StatusChange{
		ID:             kernel.NewUUID(),
		OrderID:        aggregate.ID(),
		PreviousStatus: report.PreviousStatus.String(),
		NewStatus:      aggregate.Status().String(),
		Actor:          cmd.Actor(),
		Context:        auditContext,
		OccurredAt:     now,
	}); err != nil {
		return TransitionReport{}, err
	}

	for _, task := range tasks {
		if err = uow.OutboxRepository().Add(ctx, task); err != nil {
			return TransitionReport{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionReport{}, err
	}

	report.NewStatus = aggregate.Status()
	return report, nil
}

func (h *TransitionOrderCommandHandler) confirmTasks(
	aggregate *order.Order,
	locationID kernel.UUID,
	now time.Time,
) ([]*outbox.Task, error) {
	var tasks []*outbox.Task

	pickList, err := outbox.NewTask(kernel.NewUUID(), outbox.KindPickList, map[string]any{
		"order_id":    aggregate.ID().String(),
		"location_id": locationID.String(),
	}, now)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, pickList)

	if aggregate.ClientID() != nil {
		email, err := outbox.NewTask(kernel.NewUUID(), outbox.KindOrderConfirmedEmail, map[string]any{
			"order_id": aggregate.ID().String(),
		}, now)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, email)
	}

	return tasks, nil
}

func (h *TransitionOrderCommandHandler) packedTasks(
	aggregate *order.Order,
	actor string,
	now time.Time,
) ([]*outbox.Task, error) {
	assignBoxes, err := outbox.NewTask(kernel.NewUUID(), outbox.KindAssignBoxes, map[string]any{
		"order_id": aggregate.ID().String(),
		"actor":    actor,
	}, now)
	if err != nil {
		return nil, err
	}

	return []*outbox.Task{assignBoxes}, nil
}

func (h *TransitionOrderCommandHandler) shippedTasks(
	aggregate *order.Order,
	now time.Time,
) ([]*outbox.Task, error) {
	var tasks []*outbox.Task

	alert, err := outbox.NewTask(kernel.NewUUID(), outbox.KindInternalAlert, map[string]any{
		"kind":         "order_shipped",
		"order_id":     aggregate.ID().String(),
		"order_number": aggregate.OrderNumber(),
	}, now)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, alert)

	if aggregate.ClientID() != nil {
		email, err := outbox.NewTask(kernel.NewUUID(), outbox.KindOrderShippedEmail, map[string]any{
			"order_id": aggregate.ID().String(),
		}, now)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, email)

		usage, err := outbox.NewTask(kernel.NewUUID(), outbox.KindRecordUsage, map[string]any{
			"client_id": aggregate.ClientID().String(),
			"rate_code": billing.RateCodeOutboundHandling,
			"quantity":  1,
			"ref_type":  services.RefTypeOrder,
			"ref_id":    aggregate.ID().String(),
			"notes":     "outbound handling for order " + aggregate.OrderNumber(),
		}, now)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, usage)
	}

	// Shipment sync needs both identifiers; orders shipped without them
	// are reconciled manually.
	if aggregate.Carrier() != "" && aggregate.TrackingNumber() != "" {
		sync, err := outbox.NewTask(kernel.NewUUID(), outbox.KindShopifySync, map[string]any{
			"order_id":        aggregate.ID().String(),
			"carrier":         aggregate.Carrier(),
			"tracking_number": aggregate.TrackingNumber(),
			"note":            "shipped " + now.Format(time.DateOnly),
		}, now)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, sync)
	}

	return tasks, nil
}

func (h *TransitionOrderCommandHandler) deliveredTasks(
	aggregate *order.Order,
	now time.Time,
) ([]*outbox.Task, error) {
	if aggregate.ClientID() == nil {
		return nil, nil
	}

	email, err := outbox.NewTask(kernel.NewUUID(), outbox.KindOrderDeliveredEmail, map[string]any{
		"order_id": aggregate.ID().String(),
	}, now)
	if err != nil {
		return nil, err
	}

	return []*outbox.Task{email}, nil
}

// portalTask builds the client-portal notification sent on every
// transition of a client-owned order. Internal orders get none.
func (h *TransitionOrderCommandHandler) portalTask(aggregate *order.Order, now time.Time) *outbox.Task {
	if aggregate.ClientID() == nil {
		return nil
	}

	task, err := outbox.NewTask(kernel.NewUUID(), outbox.KindPortalNotification, map[string]any{
		"client_id":    aggregate.ClientID().String(),
		"order_number": aggregate.OrderNumber(),
		"status":       aggregate.Status().String(),
		"details":      "order " + aggregate.OrderNumber() + " is now " + aggregate.Status().String(),
	}, now)
	if err != nil {
		return nil
	}
	return task
}
