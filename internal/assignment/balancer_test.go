package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickLeastLoadedChoosesMinimum(t *testing.T) {
	users := []SupportUserWithCount{
		{ID: "a", Name: "Alice", TicketCount: 3},
		{ID: "b", Name: "Bob", TicketCount: 1},
		{ID: "c", Name: "Carol", TicketCount: 1},
		{ID: "d", Name: "Dave", TicketCount: 5},
	}
	got := pickLeastLoaded(users)
	require.NotNil(t, got)
	// Tie between b and c breaks in source order.
	assert.Equal(t, "b", got.ID)
	assert.EqualValues(t, 1, got.TicketCount)
}

func TestPickLeastLoadedSingleUser(t *testing.T) {
	got := pickLeastLoaded([]SupportUserWithCount{{ID: "only", TicketCount: 42}})
	require.NotNil(t, got)
	assert.Equal(t, "only", got.ID)
}

func TestPickLeastLoadedEmptyRoster(t *testing.T) {
	assert.Nil(t, pickLeastLoaded(nil))
	assert.Nil(t, pickLeastLoaded([]SupportUserWithCount{}))
}

func TestPickLeastLoadedZeroCountWins(t *testing.T) {
	users := []SupportUserWithCount{
		{ID: "busy", TicketCount: 2},
		{ID: "idle", TicketCount: 0},
	}
	got := pickLeastLoaded(users)
	require.NotNil(t, got)
	assert.Equal(t, "idle", got.ID)
}
