package inventory

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrTransactionIsNotConstructed is returned when a Transaction was not
	// created through the NewTransaction factory method.
	ErrTransactionIsNotConstructed = errors.New("Transaction must be created via NewTransaction constructor")
)

// TransactionKind classifies a ledger mutation.
type TransactionKind int

const (
	// TransactionUnknown represents an invalid or undefined kind.
	TransactionUnknown TransactionKind = iota

	// TransactionReserve records an increase of the reserved quantity.
	TransactionReserve

	// TransactionRelease records a decrease of the reserved quantity
	// without a physical deduction (the cancel path).
	TransactionRelease

	// TransactionShip records a physical deduction of on-hand stock,
	// releasing any paired reservation in the same mutation.
	TransactionShip

	// TransactionReturnRestock records units returned by a client and
	// added back to on-hand stock.
	TransactionReturnRestock

	// TransactionAdjust records a manual or corrective change to the
	// on-hand quantity, including receipts and downward ship corrections.
	TransactionAdjust
)

func getTransactionKindStrings() map[TransactionKind]string {
	return map[TransactionKind]string{
		TransactionUnknown:       "Unknown",
		TransactionReserve:       "Reserve",
		TransactionRelease:       "Release",
		TransactionShip:          "Ship",
		TransactionReturnRestock: "ReturnRestock",
		TransactionAdjust:        "Adjust",
	}
}

// Validate checks if the TransactionKind value is valid.
func (k TransactionKind) Validate() error {
	if k == TransactionUnknown {
		return errs.NewValueIsInvalidErrorWithCause("transaction kind is invalid",
			fmt.Errorf("%d is not a valid transaction kind", k))
	}
	if _, ok := getTransactionKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("transaction kind is invalid",
			fmt.Errorf("%d is not a valid transaction kind", k))
	}
	return nil
}

// String returns the human-readable name of the kind.
// This method implements the fmt.Stringer interface.
func (k TransactionKind) String() string {
	if str, ok := getTransactionKindStrings()[k]; ok {
		return str
	}
	return "Unknown"
}

// Transaction is an append-only ledger entry recording one mutation of an
// inventory record. Every mutation of a record is paired with exactly one
// transaction carrying the same reference metadata, so any (product,
// location, stage) balance can be reconstructed at any point in time by
// replaying its transactions.
//
// QtyChange is signed. For Reserve/Release kinds it is the change to the
// reserved quantity; for Ship/ReturnRestock/Adjust kinds it is the change
// to the on-hand quantity.
type Transaction struct {
	id         kernel.UUID
	productID  kernel.UUID
	locationID kernel.UUID
	stage      Stage
	kind       TransactionKind
	qtyChange  int

	// refType and refID point at the business object that caused the
	// mutation (order, order item, receipt, return).
	refType string
	refID   string

	actor      string
	occurredAt time.Time

	isConstructed bool
}

// NewTransaction creates a ledger entry for one mutation of the record
// identified by (productID, locationID, stage).
func NewTransaction(
	id kernel.UUID,
	productID kernel.UUID,
	locationID kernel.UUID,
	stage Stage,
	kind TransactionKind,
	qtyChange int,
	refType string,
	refID string,
	actor string,
	occurredAt time.Time,
) (*Transaction, error) {
	t := &Transaction{
		qtyChange:     qtyChange,
		refType:       refType,
		refID:         refID,
		actor:         actor,
		occurredAt:    occurredAt,
		isConstructed: true,
	}

	if err := errors.Join(
		t.setID(id),
		t.setProductID(productID),
		t.setLocationID(locationID),
		t.setStage(stage),
		t.setKind(kind),
	); err != nil {
		return nil, err
	}

	if qtyChange == 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("qtyChange is invalid",
			errors.New("0 is not a ledger mutation"))
	}

	return t, nil
}

// Validate ensures the Transaction instance was properly constructed.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

// ID returns the transaction's unique identifier.
func (t *Transaction) ID() kernel.UUID { return t.id }

// ProductID returns the product component of the mutated record's key.
func (t *Transaction) ProductID() kernel.UUID { return t.productID }

// LocationID returns the location component of the mutated record's key.
func (t *Transaction) LocationID() kernel.UUID { return t.locationID }

// Stage returns the stage component of the mutated record's key.
func (t *Transaction) Stage() Stage { return t.stage }

// Kind returns the classification of the mutation.
func (t *Transaction) Kind() TransactionKind { return t.kind }

// QtyChange returns the signed quantity change of the mutation.
func (t *Transaction) QtyChange() int { return t.qtyChange }

// RefType returns the type of the business object that caused the mutation.
func (t *Transaction) RefType() string { return t.refType }

// RefID returns the identifier of the business object that caused the mutation.
func (t *Transaction) RefID() string { return t.refID }

// Actor returns who performed the mutation.
func (t *Transaction) Actor() string { return t.actor }

// OccurredAt returns when the mutation happened.
func (t *Transaction) OccurredAt() time.Time { return t.occurredAt }

func (t *Transaction) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Transaction) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	t.productID = productID
	return nil
}

func (t *Transaction) setLocationID(locationID kernel.UUID) error {
	if err := locationID.Validate(); err != nil {
		return err
	}
	t.locationID = locationID
	return nil
}

func (t *Transaction) setStage(stage Stage) error {
	if err := stage.Validate(); err != nil {
		return err
	}
	t.stage = stage
	return nil
}

func (t *Transaction) setKind(kind TransactionKind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	t.kind = kind
	return nil
}
