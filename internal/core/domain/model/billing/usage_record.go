package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrUsageRecordIsNotConstructed is returned when a UsageRecord was not
	// created through the NewUsageRecord factory method.
	ErrUsageRecordIsNotConstructed = errors.New("UsageRecord must be created via NewUsageRecord constructor")
)

// UsageRecord is one billable event: a quantity of a rate code charged to a
// client against a business reference. Records are created uninvoiced and
// consumed later by the billing cycle.
//
// Idempotency: (clientID, rateCode, refType, refID) identifies the natural
// event; the storage layer enforces uniqueness on that key so a retried
// emission can never double-bill.
type UsageRecord struct {
	id        kernel.UUID
	clientID  kernel.UUID
	rateCode  string
	quantity  int
	unitPrice decimal.Decimal
	total     decimal.Decimal

	refType string
	refID   string

	usageDate time.Time
	notes     string
	invoiced  bool

	isConstructed bool
}

// NewUsageRecord creates a billable event with total = unitPrice * quantity,
// tagged uninvoiced.
func NewUsageRecord(
	id kernel.UUID,
	clientID kernel.UUID,
	rateCode string,
	quantity int,
	unitPrice decimal.Decimal,
	refType string,
	refID string,
	usageDate time.Time,
	notes string,
) (*UsageRecord, error) {
	u := &UsageRecord{
		unitPrice:     unitPrice,
		refType:       refType,
		refID:         refID,
		usageDate:     usageDate,
		notes:         notes,
		isConstructed: true,
	}

	if err := errors.Join(
		u.setID(id),
		u.setClientID(clientID),
		u.setRateCode(rateCode),
		u.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	u.total = unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return u, nil
}

// RestoreUsageRecord reconstructs a usage record from persistence.
// Used by repositories only.
func RestoreUsageRecord(
	id kernel.UUID,
	clientID kernel.UUID,
	rateCode string,
	quantity int,
	unitPrice decimal.Decimal,
	total decimal.Decimal,
	refType string,
	refID string,
	usageDate time.Time,
	notes string,
	invoiced bool,
) (*UsageRecord, error) {
	u, err := NewUsageRecord(id, clientID, rateCode, quantity, unitPrice, refType, refID, usageDate, notes)
	if err != nil {
		return nil, err
	}
	u.total = total
	u.invoiced = invoiced
	return u, nil
}

// Validate ensures the UsageRecord instance was properly constructed.
func (u *UsageRecord) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUsageRecordIsNotConstructed
	}
	return nil
}

// ID returns the record's unique identifier.
func (u *UsageRecord) ID() kernel.UUID { return u.id }

// ClientID returns the billed client.
func (u *UsageRecord) ClientID() kernel.UUID { return u.clientID }

// RateCode returns the billed rate code.
func (u *UsageRecord) RateCode() string { return u.rateCode }

// Quantity returns the billed quantity.
func (u *UsageRecord) Quantity() int { return u.quantity }

// UnitPrice returns the rate card price applied to the event.
func (u *UsageRecord) UnitPrice() decimal.Decimal { return u.unitPrice }

// Total returns the computed total (unitPrice * quantity).
func (u *UsageRecord) Total() decimal.Decimal { return u.total }

// RefType returns the type of the business object the event references.
func (u *UsageRecord) RefType() string { return u.refType }

// RefID returns the identifier of the referenced business object.
func (u *UsageRecord) RefID() string { return u.refID }

// UsageDate returns the business date of the event.
func (u *UsageRecord) UsageDate() time.Time { return u.usageDate }

// Notes returns the free-form annotation on the event.
func (u *UsageRecord) Notes() string { return u.notes }

// Invoiced reports whether the billing cycle has consumed this event.
func (u *UsageRecord) Invoiced() bool { return u.invoiced }

func (u *UsageRecord) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *UsageRecord) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}
	u.clientID = clientID
	return nil
}

func (u *UsageRecord) setRateCode(rateCode string) error {
	if strings.TrimSpace(rateCode) == "" {
		return errs.NewValueIsRequiredError("rateCode")
	}
	u.rateCode = rateCode
	return nil
}

func (u *UsageRecord) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	u.quantity = quantity
	return nil
}
