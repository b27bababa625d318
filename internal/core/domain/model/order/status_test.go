package order_test

import (
	"testing"

	"routesync/internal/core/domain/model/order"
	"routesync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	valid := []order.Status{
		order.Pending, order.Assigned, order.PickedUp,
		order.InTransit, order.Delivered, order.Failed, order.Cancelled,
	}
	for _, s := range valid {
		t.Run("accepts "+s.String(), func(t *testing.T) {
			require.NoError(t, s.Validate())
		})
	}

	t.Run("rejects unknown", func(t *testing.T) {
		require.ErrorIs(t, order.Unknown.Validate(), errs.ErrValueIsInvalid)
		require.ErrorIs(t, order.Status("shipped").Validate(), errs.ErrValueIsInvalid)
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())

	// failed is retryable, not terminal
	assert.False(t, order.Failed.IsTerminal())
	assert.False(t, order.Pending.IsTerminal())
	assert.False(t, order.Assigned.IsTerminal())
	assert.False(t, order.PickedUp.IsTerminal())
	assert.False(t, order.InTransit.IsTerminal())
}

func TestStatus_TransitionTo(t *testing.T) {
	type edge struct {
		from, to order.Status
	}

	allowed := []edge{
		{order.Pending, order.Assigned},
		{order.Assigned, order.PickedUp},
		{order.PickedUp, order.InTransit},
		{order.InTransit, order.Delivered},
		{order.Assigned, order.Failed},
		{order.PickedUp, order.Failed},
		{order.InTransit, order.Failed},
		{order.Assigned, order.Cancelled},
		{order.PickedUp, order.Cancelled},
		{order.InTransit, order.Cancelled},
		{order.Failed, order.Assigned},
	}
	for _, e := range allowed {
		t.Run(e.from.String()+" to "+e.to.String(), func(t *testing.T) {
			got, err := e.from.TransitionTo(e.to)
			require.NoError(t, err)
			assert.Equal(t, e.to, got)
		})
	}

	rejected := []edge{
		{order.Pending, order.Delivered},
		{order.Pending, order.PickedUp},
		{order.Pending, order.InTransit},
		{order.Assigned, order.Delivered},
		{order.PickedUp, order.Delivered},
		{order.Delivered, order.Assigned},
		{order.Delivered, order.Failed},
		{order.Cancelled, order.Assigned},
		{order.Failed, order.Delivered},
		{order.InTransit, order.PickedUp},
	}
	for _, e := range rejected {
		t.Run(e.from.String()+" to "+e.to.String()+" rejected", func(t *testing.T) {
			_, err := e.from.TransitionTo(e.to)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		})
	}

	t.Run("rejects invalid target status", func(t *testing.T) {
		_, err := order.Pending.TransitionTo(order.Status("shipped"))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestPriority(t *testing.T) {
	t.Run("ranks order urgency", func(t *testing.T) {
		assert.Greater(t, order.PriorityUrgent.Rank(), order.PriorityHigh.Rank())
		assert.Greater(t, order.PriorityHigh.Rank(), order.PriorityNormal.Rank())
		assert.Greater(t, order.PriorityNormal.Rank(), order.PriorityLow.Rank())
	})

	t.Run("unknown priority ranks below low", func(t *testing.T) {
		assert.Less(t, order.Priority("asap").Rank(), order.PriorityLow.Rank())
	})

	t.Run("validates levels", func(t *testing.T) {
		require.NoError(t, order.PriorityUrgent.Validate())
		require.ErrorIs(t, order.Priority("asap").Validate(), errs.ErrValueIsInvalid)
	})
}
