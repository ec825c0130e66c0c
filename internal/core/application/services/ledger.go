package services

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Ledger exposes the atomic inventory primitives. Every mutating call runs
// in its own unit of work: the record is read under a row-level lock,
// mutated through the aggregate's invariant-enforcing methods, written
// back, and paired with exactly one InventoryTransaction — all committed
// together. Concurrent callers against the same (product, location, stage)
// key serialize on the row lock, so the reserved <= on-hand invariant
// never transiently violates under contention.
//
// The orchestration layer performs multiple ledger calls in sequence per
// order but holds no cross-call lock; each call is self-consistent and the
// caller must tolerate state changing between calls.
type Ledger struct {
	uowFactory LedgerUoWFactory
}

// NewLedger creates a Ledger over the given unit of work factory.
func NewLedger(uowFactory LedgerUoWFactory) *Ledger {
	return &Ledger{uowFactory: uowFactory}
}

// CheckAvailability reports the current balance and whether qtyRequested
// units could be reserved. Pure read; no side effect. A missing record
// reads as zero stock with a full shortfall.
func (l *Ledger) CheckAvailability(
	ctx context.Context,
	productID, locationID kernel.UUID,
	stage inventory.Stage,
	qtyRequested int,
) (inventory.Availability, error) {
	uow := l.uowFactory.Create()

	record, err := uow.InventoryRepository().Get(ctx, productID, locationID, stage)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return inventory.Availability{
			CanFulfill: qtyRequested <= 0,
			Shortfall:  max(qtyRequested, 0),
		}, nil
	}
	if err != nil {
		return inventory.Availability{}, err
	}

	return record.CheckAvailability(qtyRequested), nil
}

// Reserve increments the reserved quantity for the key and returns the ID
// of the ledger transaction recording it. Fails without mutating anything
// if the increment would violate reserved <= on-hand; the ledger is the
// sole enforcement point for that invariant.
func (l *Ledger) Reserve(
	ctx context.Context,
	productID, locationID kernel.UUID,
	stage inventory.Stage,
	qty int,
	refType, refID, actor string,
) (kernel.UUID, error) {
	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := uow.InventoryRepository().GetForUpdate(ctx, productID, locationID, stage)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = record.Reserve(qty); err != nil {
		return kernel.UUID{}, err
	}

	txID, err := l.writeMutation(ctx, uow, record, inventory.TransactionReserve, qty, refType, refID, actor)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return txID, nil
}

// Release decrements the reserved quantity by qty. With alsoDeduct it
// additionally decrements on-hand in the same atomic mutation (the ship
// path); without it, the hold is simply freed (the cancel path).
func (l *Ledger) Release(
	ctx context.Context,
	productID, locationID kernel.UUID,
	stage inventory.Stage,
	qty int,
	alsoDeduct bool,
	refType, refID, actor string,
) (kernel.UUID, error) {
	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := uow.InventoryRepository().GetForUpdate(ctx, productID, locationID, stage)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = record.Release(qty, alsoDeduct); err != nil {
		return kernel.UUID{}, err
	}

	kind := inventory.TransactionRelease
	if alsoDeduct {
		kind = inventory.TransactionShip
	}

	txID, err := l.writeMutation(ctx, uow, record, kind, -qty, refType, refID, actor)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return txID, nil
}

// AddStock increments the on-hand quantity for the key, creating the
// record on first receipt. kind distinguishes receipts and corrections
// (TransactionAdjust) from client returns (TransactionReturnRestock).
func (l *Ledger) AddStock(
	ctx context.Context,
	productID, locationID kernel.UUID,
	stage inventory.Stage,
	qty int,
	kind inventory.TransactionKind,
	refType, refID, actor string,
) (kernel.UUID, error) {
	if kind != inventory.TransactionAdjust && kind != inventory.TransactionReturnRestock {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("transaction kind is invalid",
			errors.New("stock additions must be Adjust or ReturnRestock"))
	}

	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.InventoryRepository()
	record, err := repo.GetForUpdate(ctx, productID, locationID, stage)
	if errors.Is(err, errs.ErrObjectNotFound) {
		record, err = inventory.NewRecord(kernel.NewUUID(), productID, locationID, stage)
		if err != nil {
			return kernel.UUID{}, err
		}
		if err = record.AddOnHand(qty); err != nil {
			return kernel.UUID{}, err
		}
		if err = repo.Add(ctx, record); err != nil {
			return kernel.UUID{}, err
		}
	} else if err != nil {
		return kernel.UUID{}, err
	} else {
		if err = record.AddOnHand(qty); err != nil {
			return kernel.UUID{}, err
		}
		if err = repo.Update(ctx, record); err != nil {
			return kernel.UUID{}, err
		}
	}

	transaction, err := inventory.NewTransaction(
		kernel.NewUUID(), productID, locationID, stage, kind, qty, refType, refID, actor, time.Now().UTC(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.InventoryTransactionRepository().Append(ctx, transaction); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return transaction.ID(), nil
}

// ShipInTx performs the ship-path deduction inside the caller's open unit
// of work, so the item update and the ledger mutation commit or roll back
// together. Units covered by an existing reservation are released with
// deduction; any remainder falls back to a direct on-hand deduction.
func (l *Ledger) ShipInTx(
	ctx context.Context,
	uow LedgerUoW,
	productID, locationID kernel.UUID,
	stage inventory.Stage,
	qty int,
	refType, refID, actor string,
) error {
	record, err := uow.InventoryRepository().GetForUpdate(ctx, productID, locationID, stage)
	if err != nil {
		return err
	}

	fromReservation := min(qty, record.QtyReserved())
	if fromReservation > 0 {
		if err = record.Release(fromReservation, true); err != nil {
			return err
		}
	}
	if remainder := qty - fromReservation; remainder > 0 {
		if err = record.DeductOnHand(remainder); err != nil {
			return err
		}
	}

	_, err = l.writeMutation(ctx, uow, record, inventory.TransactionShip, -qty, refType, refID, actor)
	return err
}

// RestoreInTx adds qty back to on-hand inside the caller's open unit of
// work via an adjust transaction. Used for downward ship corrections; the
// reserved quantity is untouched.
func (l *Ledger) RestoreInTx(
	ctx context.Context,
	uow LedgerUoW,
	productID, locationID kernel.UUID,
	stage inventory.Stage,
	qty int,
	refType, refID, actor string,
) error {
	record, err := uow.InventoryRepository().GetForUpdate(ctx, productID, locationID, stage)
	if err != nil {
		return err
	}

	if err = record.AddOnHand(qty); err != nil {
		return err
	}

	_, err = l.writeMutation(ctx, uow, record, inventory.TransactionAdjust, qty, refType, refID, actor)
	return err
}

// writeMutation persists the mutated record and its paired ledger entry.
func (l *Ledger) writeMutation(
	ctx context.Context,
	uow LedgerUoW,
	record *inventory.Record,
	kind inventory.TransactionKind,
	qtyChange int,
	refType, refID, actor string,
) (kernel.UUID, error) {
	if err := uow.InventoryRepository().Update(ctx, record); err != nil {
		return kernel.UUID{}, err
	}

	transaction, err := inventory.NewTransaction(
		kernel.NewUUID(),
		record.ProductID(), record.LocationID(), record.Stage(),
		kind, qtyChange, refType, refID, actor, time.Now().UTC(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.InventoryTransactionRepository().Append(ctx, transaction); err != nil {
		return kernel.UUID{}, err
	}

	return transaction.ID(), nil
}
