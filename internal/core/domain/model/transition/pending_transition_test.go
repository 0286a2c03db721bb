package transition_test

import (
	"testing"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/transition"
	"reconciler/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enqueuedAt = time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)

func TestNewPendingTransition(t *testing.T) {
	t.Run("valid entry", func(t *testing.T) {
		id := kernel.NewUUID()

		pt, err := transition.NewPendingTransition(id, "C", "A", "paypal:evt_1", enqueuedAt)

		require.NoError(t, err)
		require.NoError(t, pt.Validate())
		assert.True(t, pt.OrderID().IsEqual(id))
		assert.Equal(t, order.Status("C"), pt.Target())
		assert.Equal(t, order.Status("A"), pt.Expected())
		assert.Equal(t, "paypal:evt_1", pt.Source())
		assert.Equal(t, enqueuedAt, pt.EnqueuedAt())
		assert.Zero(t, pt.Sequence())
	})

	t.Run("missing fields are all reported", func(t *testing.T) {
		_, err := transition.NewPendingTransition(kernel.UUID{}, order.Unknown, order.Unknown, "", time.Time{})

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "target status")
		assert.Contains(t, err.Error(), "expected status")
		assert.Contains(t, err.Error(), "enqueued at")
	})

	t.Run("zero value does not validate", func(t *testing.T) {
		var pt transition.PendingTransition
		require.ErrorIs(t, pt.Validate(), transition.ErrPendingTransitionIsNotConstructed)
	})
}

func TestRestorePendingTransition(t *testing.T) {
	t.Run("keeps sequence", func(t *testing.T) {
		pt, err := transition.RestorePendingTransition(7, kernel.NewUUID(), "C", "A", "", enqueuedAt)

		require.NoError(t, err)
		assert.Equal(t, int64(7), pt.Sequence())
	})

	t.Run("rejects non positive sequence", func(t *testing.T) {
		_, err := transition.RestorePendingTransition(0, kernel.NewUUID(), "C", "A", "", enqueuedAt)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestPendingTransition_Before(t *testing.T) {
	id := kernel.NewUUID()
	first, err := transition.RestorePendingTransition(1, id, "C", "A", "", enqueuedAt)
	require.NoError(t, err)
	second, err := transition.RestorePendingTransition(2, id, "B", "C", "", enqueuedAt)
	require.NoError(t, err)
	later, err := transition.RestorePendingTransition(3, id, "B", "C", "", enqueuedAt.Add(time.Millisecond))
	require.NoError(t, err)

	assert.True(t, first.Before(second), "equal timestamps fall back to sequence")
	assert.False(t, second.Before(first))
	assert.True(t, second.Before(later))
	assert.False(t, later.Before(first))
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		outcome transition.Outcome
		name    string
		mutates bool
	}{
		{transition.Deferred, "deferred", false},
		{transition.Stale, "stale", false},
		{transition.Conflict, "conflict", false},
		{transition.Rejected, "rejected", false},
		{transition.Applied, "applied", true},
		{transition.Outcome(0), "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.outcome.String())
			assert.Equal(t, tt.mutates, tt.outcome.Mutates())
		})
	}
}
