package order_test

import (
	"testing"
	"time"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"
	"routesync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), "ORD-100", "Jane Doe",
		"1 Depot Way", "99 Elm Street", order.PriorityNormal,
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order", func(t *testing.T) {
		o := newTestOrder(t)

		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, "ORD-100", o.OrderNumber())
		assert.Nil(t, o.Driver())
		assert.Nil(t, o.Location())
		require.NoError(t, o.Validate())
	})

	t.Run("requires order number", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "", "Jane Doe", "a", "b", order.PriorityNormal,
		)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("requires valid id and priority", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, "ORD-1", "x", "a", "b", order.PriorityNormal)
		require.Error(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), "ORD-1", "x", "a", "b", order.Priority("asap"))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_AssignTo(t *testing.T) {
	t.Run("assigns pending order", func(t *testing.T) {
		o := newTestOrder(t)
		driver := kernel.NewUUID()
		admin := kernel.NewUUID()

		entry, err := o.AssignTo(driver, admin)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.Driver())
		assert.True(t, o.Driver().IsEqual(driver))
		assert.Equal(t, order.Pending, entry.PreviousStatus)
		assert.Equal(t, order.Assigned, entry.NewStatus)
	})

	t.Run("re-assigns failed order for retry", func(t *testing.T) {
		o := newTestOrder(t)
		driver := kernel.NewUUID()
		admin := kernel.NewUUID()
		_, err := o.AssignTo(driver, admin)
		require.NoError(t, err)
		_, err = o.ChangeStatus(order.Failed, driver, "nobody home")
		require.NoError(t, err)

		_, err = o.AssignTo(driver, admin)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
	})

	t.Run("rejects invalid driver id", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := o.AssignTo(kernel.UUID{}, kernel.NewUUID())

		require.Error(t, err)
		assert.Equal(t, order.Pending, o.Status())
	})
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("accepted transition bumps updatedAt and yields entry", func(t *testing.T) {
		o := newTestOrder(t)
		driver := kernel.NewUUID()
		_, err := o.AssignTo(driver, driver)
		require.NoError(t, err)
		before := o.UpdatedAt()

		time.Sleep(time.Millisecond)
		entry, err := o.ChangeStatus(order.PickedUp, driver, "picked up at depot")

		require.NoError(t, err)
		assert.Equal(t, order.PickedUp, o.Status())
		assert.True(t, o.UpdatedAt().After(before))
		assert.True(t, entry.OrderID.IsEqual(o.ID()))
		assert.Equal(t, order.Assigned, entry.PreviousStatus)
		assert.Equal(t, order.PickedUp, entry.NewStatus)
		assert.Equal(t, "picked up at depot", entry.Notes)
	})

	t.Run("rejected transition performs no mutation", func(t *testing.T) {
		o := newTestOrder(t)
		before := o.UpdatedAt()

		_, err := o.ChangeStatus(order.Delivered, kernel.NewUUID(), "")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, before, o.UpdatedAt())
	})

	t.Run("requires valid actor", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := o.ChangeStatus(order.Assigned, kernel.UUID{}, "")

		require.Error(t, err)
		assert.Equal(t, order.Pending, o.Status())
	})
}

func TestOrder_CapabilityFlags(t *testing.T) {
	o := newTestOrder(t)
	driver := kernel.NewUUID()

	assert.False(t, o.CanStart())
	assert.False(t, o.CanDeliver())
	assert.False(t, o.CanComplete())

	_, err := o.AssignTo(driver, driver)
	require.NoError(t, err)
	assert.True(t, o.CanStart())
	assert.True(t, o.CanDeliver())
	assert.False(t, o.CanComplete())

	_, err = o.ChangeStatus(order.PickedUp, driver, "")
	require.NoError(t, err)
	_, err = o.ChangeStatus(order.InTransit, driver, "")
	require.NoError(t, err)
	assert.False(t, o.CanStart())
	assert.False(t, o.CanDeliver())
	assert.True(t, o.CanComplete())

	_, err = o.ChangeStatus(order.Delivered, driver, "")
	require.NoError(t, err)
	assert.False(t, o.CanComplete())
}

func TestRestoreOrder(t *testing.T) {
	t.Run("restores complete state", func(t *testing.T) {
		id := kernel.NewUUID()
		driver := kernel.NewUUID()
		loc, _ := kernel.NewLocation(40.0, -74.0)
		created := time.Now().UTC().Add(-time.Hour)
		updated := time.Now().UTC()

		o, err := order.RestoreOrder(
			id, "ORD-7", "BC-7", "Jane", "555-0100", "jane@example.com",
			"1 Depot Way", "99 Elm Street", &loc,
			order.PriorityHigh, order.InTransit, &driver,
			"leave at door", created, updated,
		)

		require.NoError(t, err)
		assert.Equal(t, order.InTransit, o.Status())
		assert.Equal(t, "BC-7", o.Barcode())
		require.NotNil(t, o.Location())
		assert.InDelta(t, 40.0, o.Location().Latitude(), 1e-9)
		assert.True(t, o.Driver().IsEqual(driver))
		assert.Equal(t, created, o.CreatedAt())
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), "ORD-7", "", "", "", "", "", "", nil,
			order.PriorityNormal, order.Status("shipped"), nil,
			"", time.Now(), time.Now(),
		)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatusHistoryEntry_WithScanEvent(t *testing.T) {
	entry := order.NewStatusHistoryEntry(
		kernel.NewUUID(), order.InTransit, order.Delivered, kernel.NewUUID(), "delivery scan",
	)
	require.Nil(t, entry.ScanEventID)

	scanID := kernel.NewUUID()
	linked := entry.WithScanEvent(scanID)

	require.NotNil(t, linked.ScanEventID)
	assert.True(t, linked.ScanEventID.IsEqual(scanID))
	assert.Nil(t, entry.ScanEventID, "original entry stays unlinked")
}
