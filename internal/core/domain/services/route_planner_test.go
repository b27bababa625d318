package services_test

import (
	"testing"
	"time"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"
	"routesync/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// One degree of latitude is roughly 111.2 km, so this offset is about 1 km.
const oneKilometerLat = 0.008994

func plannerOrder(t *testing.T, loc *kernel.Location, priority order.Priority, createdAt time.Time) *order.Order {
	t.Helper()
	driver := kernel.NewUUID()
	o, err := order.RestoreOrder(
		kernel.NewUUID(), "ORD-"+kernel.NewUUID().String()[:8], "", "Test Customer", "", "",
		"depot", "somewhere", loc,
		priority, order.Assigned, &driver,
		"", createdAt, createdAt,
	)
	require.NoError(t, err)
	return o
}

func locationAt(t *testing.T, lat, lng float64) *kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return &loc
}

func TestRoutePlanner_Plan(t *testing.T) {
	planner := services.NewRoutePlanner()
	origin, err := kernel.NewLocation(0, 0)
	require.NoError(t, err)
	now := time.Now().UTC()

	t.Run("visits nearest neighbor first", func(t *testing.T) {
		far := plannerOrder(t, locationAt(t, 5*oneKilometerLat, 0), order.PriorityNormal, now)
		near := plannerOrder(t, locationAt(t, 1*oneKilometerLat, 0), order.PriorityNormal, now)
		mid := plannerOrder(t, locationAt(t, 3*oneKilometerLat, 0), order.PriorityNormal, now)

		sequence, skipped, err := planner.Plan(origin, []*order.Order{far, near, mid})

		require.NoError(t, err)
		require.Empty(t, skipped)
		require.Len(t, sequence, 3)
		assert.True(t, sequence[0].ID().IsEqual(near.ID()))
		assert.True(t, sequence[1].ID().IsEqual(mid.ID()))
		assert.True(t, sequence[2].ID().IsEqual(far.ID()))
	})

	t.Run("each visit moves the origin", func(t *testing.T) {
		// b is farther from the depot than a, but closest to a, so it
		// comes second rather than third.
		a := plannerOrder(t, locationAt(t, 2*oneKilometerLat, 0), order.PriorityNormal, now)
		b := plannerOrder(t, locationAt(t, 3*oneKilometerLat, 0), order.PriorityNormal, now)
		c := plannerOrder(t, locationAt(t, 0, 2.5*oneKilometerLat), order.PriorityNormal, now)

		sequence, _, err := planner.Plan(origin, []*order.Order{c, b, a})

		require.NoError(t, err)
		require.Len(t, sequence, 3)
		assert.True(t, sequence[0].ID().IsEqual(a.ID()))
		assert.True(t, sequence[1].ID().IsEqual(b.ID()))
		assert.True(t, sequence[2].ID().IsEqual(c.ID()))
	})

	t.Run("skips orders without coordinates", func(t *testing.T) {
		located := plannerOrder(t, locationAt(t, oneKilometerLat, 0), order.PriorityNormal, now)
		unlocated := plannerOrder(t, nil, order.PriorityNormal, now)

		sequence, skipped, err := planner.Plan(origin, []*order.Order{located, unlocated})

		require.NoError(t, err)
		require.Len(t, sequence, 1)
		require.Len(t, skipped, 1)
		assert.True(t, skipped[0].OrderID.IsEqual(unlocated.ID()))
		assert.Equal(t, services.SkipReasonNoLocation, skipped[0].Reason)
	})

	t.Run("skips terminal orders", func(t *testing.T) {
		loc := locationAt(t, oneKilometerLat, 0)
		driver := kernel.NewUUID()
		delivered, err := order.RestoreOrder(
			kernel.NewUUID(), "ORD-DONE", "", "Test Customer", "", "",
			"depot", "somewhere", loc,
			order.PriorityNormal, order.Delivered, &driver,
			"", now, now,
		)
		require.NoError(t, err)
		open := plannerOrder(t, loc, order.PriorityNormal, now)

		sequence, skipped, err := planner.Plan(origin, []*order.Order{delivered, open})

		require.NoError(t, err)
		require.Len(t, sequence, 1)
		require.Len(t, skipped, 1)
		assert.Equal(t, services.SkipReasonTerminalStatus, skipped[0].Reason)
	})

	t.Run("skips failed orders", func(t *testing.T) {
		loc := locationAt(t, oneKilometerLat, 0)
		driver := kernel.NewUUID()
		failed, err := order.RestoreOrder(
			kernel.NewUUID(), "ORD-RETRY", "", "Test Customer", "", "",
			"depot", "somewhere", loc,
			order.PriorityNormal, order.Failed, &driver,
			"", now, now,
		)
		require.NoError(t, err)
		open := plannerOrder(t, loc, order.PriorityNormal, now)

		sequence, skipped, err := planner.Plan(origin, []*order.Order{failed, open})

		require.NoError(t, err)
		require.Len(t, sequence, 1)
		assert.True(t, sequence[0].ID().IsEqual(open.ID()))
		require.Len(t, skipped, 1)
		assert.True(t, skipped[0].OrderID.IsEqual(failed.ID()))
		assert.Equal(t, services.SkipReasonFailedStatus, skipped[0].Reason)
	})

	t.Run("equidistant ties resolve by priority then age", func(t *testing.T) {
		loc := locationAt(t, oneKilometerLat, 0)
		older := now.Add(-time.Hour)

		normalOld := plannerOrder(t, loc, order.PriorityNormal, older)
		urgent := plannerOrder(t, loc, order.PriorityUrgent, now)
		normalNew := plannerOrder(t, loc, order.PriorityNormal, now)

		sequence, _, err := planner.Plan(origin, []*order.Order{normalNew, normalOld, urgent})

		require.NoError(t, err)
		require.Len(t, sequence, 3)
		assert.True(t, sequence[0].ID().IsEqual(urgent.ID()))
		assert.True(t, sequence[1].ID().IsEqual(normalOld.ID()))
		assert.True(t, sequence[2].ID().IsEqual(normalNew.ID()))
	})

	t.Run("identical input yields identical sequence", func(t *testing.T) {
		loc := locationAt(t, oneKilometerLat, 0)
		orders := []*order.Order{
			plannerOrder(t, loc, order.PriorityNormal, now),
			plannerOrder(t, loc, order.PriorityNormal, now),
			plannerOrder(t, loc, order.PriorityNormal, now),
		}

		first, _, err := planner.Plan(origin, append([]*order.Order(nil), orders...))
		require.NoError(t, err)
		for range 10 {
			again, _, err := planner.Plan(origin, append([]*order.Order(nil), orders...))
			require.NoError(t, err)
			for i := range first {
				assert.True(t, again[i].ID().IsEqual(first[i].ID()))
			}
		}
	})

	t.Run("returns ErrNothingToPlan when no order is eligible", func(t *testing.T) {
		_, _, err := planner.Plan(origin, nil)
		require.ErrorIs(t, err, services.ErrNothingToPlan)

		unlocated := plannerOrder(t, nil, order.PriorityNormal, now)
		_, skipped, err := planner.Plan(origin, []*order.Order{unlocated})
		require.ErrorIs(t, err, services.ErrNothingToPlan)
		assert.Len(t, skipped, 1)
	})
}
