// Package outbox provides the durable side-effect queue: tasks recorded in
// the same transaction as the business change that caused them, drained
// later by a background job. This replaces fire-and-forget dispatch so a
// process crash can never silently lose a notification or billing event.
package outbox

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrTaskIsNotConstructed is returned when a Task was not created through
	// the NewTask factory method.
	ErrTaskIsNotConstructed = errors.New("Task must be created via NewTask constructor")
)

// Kind names the side effect a task performs when dispatched.
type Kind string

const (
	KindOrderConfirmedEmail Kind = "order_confirmed_email"
	KindOrderShippedEmail   Kind = "order_shipped_email"
	KindOrderDeliveredEmail Kind = "order_delivered_email"
	KindPortalNotification  Kind = "portal_notification"
	KindInternalAlert       Kind = "internal_alert"
	KindShopifySync         Kind = "shopify_sync"
	KindPickList            Kind = "pick_list"
	KindAssignBoxes         Kind = "assign_boxes"
	KindRecordUsage         Kind = "record_usage"
)

// Validate checks the kind against the known set.
func (k Kind) Validate() error {
	switch k {
	case KindOrderConfirmedEmail, KindOrderShippedEmail, KindOrderDeliveredEmail,
		KindPortalNotification, KindInternalAlert, KindShopifySync,
		KindPickList, KindAssignBoxes, KindRecordUsage:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("task kind is invalid",
			fmt.Errorf("%q is not a valid task kind", string(k)))
	}
}

// Status is the dispatch state of a task.
type Status string

const (
	// StatusPending marks a task awaiting dispatch (or retry).
	StatusPending Status = "pending"

	// StatusDone marks a successfully dispatched task.
	StatusDone Status = "done"

	// StatusFailed marks a task that exhausted its attempts.
	StatusFailed Status = "failed"
)

// Task is one durable side effect. Payload carries the collaborator call's
// arguments as loosely-typed JSON.
type Task struct {
	id        kernel.UUID
	kind      Kind
	payload   map[string]any
	status    Status
	attempts  int
	lastError string

	createdAt   time.Time
	processedAt *time.Time

	isConstructed bool
}

// NewTask creates a pending task of the given kind.
func NewTask(id kernel.UUID, kind Kind, payload map[string]any, createdAt time.Time) (*Task, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	return &Task{
		id:            id,
		kind:          kind,
		payload:       payload,
		status:        StatusPending,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreTask reconstructs a task from persistence. Used by repositories only.
func RestoreTask(
	id kernel.UUID,
	kind Kind,
	payload map[string]any,
	status Status,
	attempts int,
	lastError string,
	createdAt time.Time,
	processedAt *time.Time,
) (*Task, error) {
	t, err := NewTask(id, kind, payload, createdAt)
	if err != nil {
		return nil, err
	}
	t.status = status
	t.attempts = attempts
	t.lastError = lastError
	t.processedAt = processedAt
	return t, nil
}

// Validate ensures the Task instance was properly constructed.
func (t *Task) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTaskIsNotConstructed
	}
	return nil
}

// ID returns the task's unique identifier.
func (t *Task) ID() kernel.UUID { return t.id }

// Kind returns the side effect this task performs.
func (t *Task) Kind() Kind { return t.kind }

// Payload returns the collaborator call arguments.
func (t *Task) Payload() map[string]any { return t.payload }

// Status returns the dispatch state.
func (t *Task) Status() Status { return t.status }

// Attempts returns how many dispatch attempts have run.
func (t *Task) Attempts() int { return t.attempts }

// LastError returns the most recent dispatch failure message.
func (t *Task) LastError() string { return t.lastError }

// CreatedAt returns when the task was enqueued.
func (t *Task) CreatedAt() time.Time { return t.createdAt }

// ProcessedAt returns when the task finished dispatching, or nil.
func (t *Task) ProcessedAt() *time.Time { return t.processedAt }

// MarkDone records a successful dispatch.
func (t *Task) MarkDone(at time.Time) {
	t.status = StatusDone
	t.attempts++
	t.lastError = ""
	t.processedAt = &at
}

// MarkAttemptFailed records a failed dispatch attempt. The task stays
// pending until maxAttempts is reached, then moves to failed.
func (t *Task) MarkAttemptFailed(err error, maxAttempts int, at time.Time) {
	t.attempts++
	if err != nil {
		t.lastError = err.Error()
	}
	if t.attempts >= maxAttempts {
		t.status = StatusFailed
		t.processedAt = &at
	}
}
