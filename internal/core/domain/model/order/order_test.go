package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItems(t *testing.T, qtys ...int) []*order.Item {
	t.Helper()
	items := make([]*order.Item, 0, len(qtys))
	for _, qty := range qtys {
		item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), qty)
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}

func newPendingOrder(t *testing.T, qtys ...int) *order.Order {
	t.Helper()
	clientID := kernel.NewUUID()
	o, err := order.NewOrder(
		kernel.NewUUID(), "SO-1001", &clientID, "14 Harbor Rd", false, true, newTestItems(t, qtys...),
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create order in Pending status", func(t *testing.T) {
		o := newPendingOrder(t, 3, 2)

		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, "SO-1001", o.OrderNumber())
		assert.Len(t, o.Items(), 2)
		assert.Nil(t, o.ConfirmedAt())
		assert.Nil(t, o.ShippedDate())
		assert.Nil(t, o.DeliveredDate())
	})

	t.Run("should allow nil client for internal orders", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), "INT-7", nil, "warehouse", false, false, newTestItems(t, 1),
		)

		require.NoError(t, err)
		assert.Nil(t, o.ClientID())
	})

	t.Run("should reject order without items", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "SO-1002", nil, "14 Harbor Rd", false, false, nil,
		)
		require.ErrorIs(t, err, order.ErrOrderHasNoItems)
	})

	t.Run("should reject blank order number", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "  ", nil, "14 Harbor Rd", false, false, newTestItems(t, 1),
		)
		require.Error(t, err)
	})

	t.Run("should reject invalid id", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.UUID{}, "SO-1003", nil, "14 Harbor Rd", false, false, newTestItems(t, 1),
		)
		require.Error(t, err)
	})
}

func TestOrder_Lifecycle(t *testing.T) {
	t.Run("should walk the full happy path", func(t *testing.T) {
		o := newPendingOrder(t, 2)
		now := time.Now().UTC()

		require.NoError(t, o.Confirm("packer-1", now))
		assert.Equal(t, order.Confirmed, o.Status())
		require.NotNil(t, o.ConfirmedAt())
		assert.Equal(t, now, *o.ConfirmedAt())
		assert.Equal(t, "packer-1", o.ConfirmedBy())

		require.NoError(t, o.StartProcessing())
		assert.Equal(t, order.Processing, o.Status())

		require.NoError(t, o.MarkPacked())
		assert.Equal(t, order.Packed, o.Status())

		shipTime := now.Add(time.Hour)
		require.NoError(t, o.Ship("UPS", "1Z999", shipTime))
		assert.Equal(t, order.Shipped, o.Status())
		assert.Equal(t, "UPS", o.Carrier())
		assert.Equal(t, "1Z999", o.TrackingNumber())
		require.NotNil(t, o.ShippedDate())

		deliverTime := shipTime.Add(48 * time.Hour)
		require.NoError(t, o.Deliver(deliverTime))
		assert.Equal(t, order.Delivered, o.Status())
		require.NotNil(t, o.DeliveredDate())
		assert.Equal(t, deliverTime, *o.DeliveredDate())
	})

	t.Run("should reject skipping states", func(t *testing.T) {
		o := newPendingOrder(t, 1)

		require.Error(t, o.StartProcessing())
		require.Error(t, o.MarkPacked())
		require.Error(t, o.Ship("UPS", "1Z", time.Now()))
		require.Error(t, o.Deliver(time.Now()))
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should keep carrier and tracking when ship omits them", func(t *testing.T) {
		o := newPendingOrder(t, 1)
		require.NoError(t, o.Confirm("x", time.Now()))
		require.NoError(t, o.StartProcessing())
		require.NoError(t, o.MarkPacked())

		require.NoError(t, o.Ship("", "", time.Now()))
		assert.Empty(t, o.Carrier())
		assert.Empty(t, o.TrackingNumber())
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should cancel pending order", func(t *testing.T) {
		o := newPendingOrder(t, 1)

		require.NoError(t, o.Cancel())
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("should cancel confirmed order", func(t *testing.T) {
		o := newPendingOrder(t, 1)
		require.NoError(t, o.Confirm("x", time.Now()))

		require.NoError(t, o.Cancel())
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("should reject cancelling a shipped order", func(t *testing.T) {
		o := newPendingOrder(t, 1)
		require.NoError(t, o.Confirm("x", time.Now()))
		require.NoError(t, o.StartProcessing())
		require.NoError(t, o.MarkPacked())
		require.NoError(t, o.Ship("UPS", "1Z", time.Now()))

		err := o.Cancel()
		require.Error(t, err)
		assert.Equal(t, order.Shipped, o.Status())
	})
}

func TestOrder_HoldsReservations(t *testing.T) {
	t.Run("pending order holds nothing", func(t *testing.T) {
		o := newPendingOrder(t, 1)
		assert.False(t, o.HoldsReservations())
	})

	t.Run("confirmed order holds reservations until shipped", func(t *testing.T) {
		o := newPendingOrder(t, 1)
		require.NoError(t, o.Confirm("x", time.Now()))
		assert.True(t, o.HoldsReservations())

		require.NoError(t, o.StartProcessing())
		assert.True(t, o.HoldsReservations())

		require.NoError(t, o.MarkPacked())
		assert.True(t, o.HoldsReservations())

		require.NoError(t, o.Ship("UPS", "1Z", time.Now()))
		assert.False(t, o.HoldsReservations())
	})
}

func TestOrder_EnsureDeletable(t *testing.T) {
	t.Run("should allow deleting order with no shipped units", func(t *testing.T) {
		o := newPendingOrder(t, 3, 2)
		require.NoError(t, o.EnsureDeletable())
	})

	t.Run("should refuse once any item has shipped units", func(t *testing.T) {
		o := newPendingOrder(t, 3, 2)
		_, err := o.Items()[1].RecordShipped(1)
		require.NoError(t, err)

		require.ErrorIs(t, o.EnsureDeletable(), order.ErrCannotDeleteShippedOrder)
	})
}

func TestOrder_Item(t *testing.T) {
	t.Run("should find item by id", func(t *testing.T) {
		o := newPendingOrder(t, 3, 2)
		want := o.Items()[1]

		got, err := o.Item(want.ID())
		require.NoError(t, err)
		assert.Same(t, want, got)
	})

	t.Run("should fail for unknown item", func(t *testing.T) {
		o := newPendingOrder(t, 1)

		_, err := o.Item(kernel.NewUUID())
		require.Error(t, err)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should restore full state", func(t *testing.T) {
		id := kernel.NewUUID()
		clientID := kernel.NewUUID()
		confirmedAt := time.Now().UTC().Add(-time.Hour)
		shippedAt := time.Now().UTC()
		items := newTestItems(t, 5)

		o, err := order.RestoreOrder(
			id, "SO-2000", &clientID, order.Shipped,
			&confirmedAt, "packer-2", &shippedAt, nil,
			"14 Harbor Rd", "FedEx", "FX123", true, false, items,
		)

		require.NoError(t, err)
		assert.Equal(t, order.Shipped, o.Status())
		assert.Equal(t, "packer-2", o.ConfirmedBy())
		assert.Equal(t, "FedEx", o.Carrier())
		assert.Equal(t, "FX123", o.TrackingNumber())
		assert.True(t, o.Rush())
		assert.False(t, o.RequiresRepack())
	})

	t.Run("should reject invalid status", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), "SO-2001", nil, order.Unknown,
			nil, "", nil, nil, "addr", "", "", false, false, newTestItems(t, 1),
		)
		require.Error(t, err)
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("should reject zero value", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})

	t.Run("should reject nil order", func(t *testing.T) {
		var o *order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}
