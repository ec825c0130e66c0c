package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/services"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/ports"
)

const (
	// dispatchBatchSize caps how many pending tasks one drain pass picks up.
	dispatchBatchSize = 20

	// maxDispatchAttempts is how many times a task is tried before it is
	// parked as failed for manual review.
	maxDispatchAttempts = 3
)

// DispatchOutboxCommandHandler drains the outbox: it loads pending tasks
// oldest-first and performs each task's side effect against the matching
// collaborator. Successful tasks are marked done; failing tasks stay
// pending and retry on later passes until maxDispatchAttempts, then park
// as failed.
//
// A collaborator failure affects only its own task. The pass itself only
// fails when the outbox storage cannot be read or written.
type DispatchOutboxCommandHandler struct {
	uowFactory    DispatchUoWFactory
	notifications ports.NotificationService
	alerts        ports.InternalAlertService
	portal        ports.PortalNotificationService
	shopify       ports.ShopifyFulfillmentSync
	pickLists     ports.PickListGenerator
	boxAssigner   *services.BoxAssigner
	usageRecorder *services.UsageRecorder
	logger        *slog.Logger
}

// NewDispatchOutboxCommandHandler creates a handler that dispatches outbox
// tasks to the given collaborators.
func NewDispatchOutboxCommandHandler(
	uowFactory DispatchUoWFactory,
	notifications ports.NotificationService,
	alerts ports.InternalAlertService,
	portal ports.PortalNotificationService,
	shopify ports.ShopifyFulfillmentSync,
	pickLists ports.PickListGenerator,
	boxAssigner *services.BoxAssigner,
	usageRecorder *services.UsageRecorder,
	logger *slog.Logger,
) DispatchOutboxCommandHandler {
	return DispatchOutboxCommandHandler{
		uowFactory:    uowFactory,
		notifications: notifications,
		alerts:        alerts,
		portal:        portal,
		shopify:       shopify,
		pickLists:     pickLists,
		boxAssigner:   boxAssigner,
		usageRecorder: usageRecorder,
		logger:        logger.With("component", "outbox_dispatch"),
	}
}

// Handle runs one drain pass.
func (h *DispatchOutboxCommandHandler) Handle(ctx context.Context, cmd DispatchOutboxCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()

	tasks, err := uow.OutboxRepository().GetPending(ctx, dispatchBatchSize)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		now := time.Now().UTC()

		if dispatchErr := h.dispatch(ctx, uow, task); dispatchErr != nil {
			task.MarkAttemptFailed(dispatchErr, maxDispatchAttempts, now)
			h.logger.ErrorContext(ctx, "outbox task dispatch failed",
				"task_id", task.ID().String(),
				"kind", string(task.Kind()),
				"attempts", task.Attempts(),
				"status", string(task.Status()),
				"error", dispatchErr,
			)
		} else {
			task.MarkDone(now)
		}

		if err = uow.OutboxRepository().Update(ctx, task); err != nil {
			return err
		}
	}

	return nil
}

// dispatch performs the side effect a task describes.
func (h *DispatchOutboxCommandHandler) dispatch(ctx context.Context, uow DispatchUoW, task *outbox.Task) error {
	payload := task.Payload()

	switch task.Kind() {
	case outbox.KindOrderConfirmedEmail:
		orderID, err := uuidField(payload, "order_id")
		if err != nil {
			return err
		}
		return h.notifications.SendOrderConfirmedEmail(ctx, orderID)

	case outbox.KindOrderShippedEmail:
		orderID, err := uuidField(payload, "order_id")
		if err != nil {
			return err
		}
		return h.notifications.SendOrderShippedEmail(ctx, orderID)

	case outbox.KindOrderDeliveredEmail:
		orderID, err := uuidField(payload, "order_id")
		if err != nil {
			return err
		}
		return h.notifications.SendOrderDeliveredEmail(ctx, orderID)

	case outbox.KindPortalNotification:
		clientID, err := uuidField(payload, "client_id")
		if err != nil {
			return err
		}
		orderNumber, err := stringField(payload, "order_number")
		if err != nil {
			return err
		}
		status, err := stringField(payload, "status")
		if err != nil {
			return err
		}
		details, _ := payload["details"].(string)
		return h.portal.Send(ctx, ports.PortalNotification{
			ClientID:    clientID,
			OrderNumber: orderNumber,
			Status:      status,
			Details:     details,
		})

	case outbox.KindInternalAlert:
		kind, err := stringField(payload, "kind")
		if err != nil {
			return err
		}
		return h.alerts.Send(ctx, ports.InternalAlert{Kind: kind, Payload: payload})

	case outbox.KindShopifySync:
		orderID, err := uuidField(payload, "order_id")
		if err != nil {
			return err
		}
		trackingNumber, err := stringField(payload, "tracking_number")
		if err != nil {
			return err
		}
		carrier, err := stringField(payload, "carrier")
		if err != nil {
			return err
		}
		note, _ := payload["note"].(string)
		return h.shopify.Sync(ctx, orderID, trackingNumber, carrier, note)

	case outbox.KindPickList:
		orderID, err := uuidField(payload, "order_id")
		if err != nil {
			return err
		}
		locationID, err := uuidField(payload, "location_id")
		if err != nil {
			return err
		}
		return h.pickLists.Generate(ctx, orderID, locationID)

	case outbox.KindAssignBoxes:
		orderID, err := uuidField(payload, "order_id")
		if err != nil {
			return err
		}
		actor, err := stringField(payload, "actor")
		if err != nil {
			return err
		}
		aggregate, err := uow.OrderRepository().Get(ctx, orderID)
		if err != nil {
			return err
		}
		return h.boxAssigner.AutoAssignBoxesForOrder(ctx, aggregate, actor)

	case outbox.KindRecordUsage:
		clientID, err := uuidField(payload, "client_id")
		if err != nil {
			return err
		}
		rateCode, err := stringField(payload, "rate_code")
		if err != nil {
			return err
		}
		quantity, err := intField(payload, "quantity")
		if err != nil {
			return err
		}
		refType, err := stringField(payload, "ref_type")
		if err != nil {
			return err
		}
		refID, err := stringField(payload, "ref_id")
		if err != nil {
			return err
		}
		notes, _ := payload["notes"].(string)
		_, _, err = h.usageRecorder.RecordUsage(
			ctx, clientID, rateCode, quantity, refType, refID, task.CreatedAt(), notes,
		)
		return err

	default:
		return fmt.Errorf("no dispatcher for task kind %q", string(task.Kind()))
	}
}

// stringField extracts a required string from a task payload.
func stringField(payload map[string]any, key string) (string, error) {
	value, ok := payload[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("payload field %q is missing or not a string", key)
	}

	return value, nil
}

// uuidField extracts a required UUID, stored in its string form.
func uuidField(payload map[string]any, key string) (kernel.UUID, error) {
	raw, err := stringField(payload, key)
	if err != nil {
		return kernel.UUID{}, err
	}

	return kernel.UUIDFromString(raw)
}

// intField extracts a required integer. Payloads read back from storage
// carry JSON numbers, which arrive as float64.
func intField(payload map[string]any, key string) (int, error) {
	switch value := payload[key].(type) {
	case int:
		return value, nil
	case float64:
		return int(value), nil
	default:
		return 0, fmt.Errorf("payload field %q is missing or not a number", key)
	}
}
