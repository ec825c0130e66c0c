package queries

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

// CheckAvailabilityQueryHandler answers availability questions straight
// from the database, bypassing the aggregate and its row lock.
type CheckAvailabilityQueryHandler struct {
	db *gorm.DB
}

// NewCheckAvailabilityQueryHandler creates a handler for availability queries.
// Requires a GORM database connection for query execution.
func NewCheckAvailabilityQueryHandler(db *gorm.DB) CheckAvailabilityQueryHandler {
	return CheckAvailabilityQueryHandler{db: db}
}

// Handle executes the availability read. A missing inventory record is not
/// an error: it reads as zero stock with a shortfall of the full request.
func (h CheckAvailabilityQueryHandler) Handle(
	ctx context.Context,
	query CheckAvailabilityQuery,
) (CheckAvailabilityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CheckAvailabilityQueryResponse{}, err
	}

	var qtyOnHand, qtyReserved int
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			qty_on_hand,
			qty_reserved
		FROM inventory
		WHERE product_id = ? AND location_id = ? AND stage = ?
	`, query.ProductID().Bytes(), query.LocationID().Bytes(), int(query.Stage())).Row()

	err := row.Scan(&qtyOnHand, &qtyReserved)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return CheckAvailabilityQueryResponse{}, err
	}

	available := qtyOnHand - qtyReserved
	shortfall := query.QtyRequested() - available
	if shortfall < 0 {
		shortfall = 0
	}

	return CheckAvailabilityQueryResponse{
		QtyOnHand:    qtyOnHand,
		QtyReserved:  qtyReserved,
		QtyAvailable: available,
		CanFulfill:   shortfall == 0,
		Shortfall:    shortfall,
	}, nil
}
