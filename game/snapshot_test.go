package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderForMasksHoleCards(t *testing.T) {
	table := newTestTable(t, 1000, 1000)

	view := table.RenderFor(1)
	require.Len(t, view.Seats, 2)
	for _, seat := range view.Seats {
		if seat.PlayerID == 1 {
			assert.Len(t, seat.HoleCards, 2)
		} else {
			assert.Empty(t, seat.HoleCards)
		}
	}
	assert.Equal(t, "preflop", view.Street)
	assert.Equal(t, "in_hand", view.Status)
	assert.Equal(t, int64(15), view.Pot, "pot view includes uncollected blinds")
}

func TestRenderForOptionsOnTurn(t *testing.T) {
	table := newTestTable(t, 1000, 1000)

	// Seat 0 (dealer, small blind) is on turn owing 5 to call.
	view := table.RenderFor(1)
	require.NotNil(t, view.Options)
	assert.False(t, view.Options.CanCheck)
	assert.True(t, view.Options.CanCall)
	assert.Equal(t, int64(5), view.Options.CallAmount)
	assert.False(t, view.Options.CanBet)
	assert.True(t, view.Options.CanRaise)
	assert.Equal(t, int64(20), view.Options.MinRaiseTo)
	assert.Equal(t, int64(1000), view.Options.MaxRaiseTo)

	// The player not on turn gets no affordances.
	view = table.RenderFor(2)
	assert.Nil(t, view.Options)
}

func TestRenderForOptionsUnopenedStreet(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	require.NoError(t, table.Apply(1, PlayerAction{Type: ActionCall}))
	require.NoError(t, table.Apply(2, PlayerAction{Type: ActionCheck}))

	// Flop, no bet yet, big blind first to act.
	view := table.RenderFor(2)
	require.NotNil(t, view.Options)
	assert.True(t, view.Options.CanCheck)
	assert.False(t, view.Options.CanCall)
	assert.True(t, view.Options.CanBet)
	assert.Equal(t, int64(10), view.Options.MinBet)
	assert.False(t, view.Options.CanRaise)
}

func TestRenderForOmitsDepartingAndBustedSeats(t *testing.T) {
	table := newTestTable(t, 1000, 1000, 1000)
	require.NoError(t, table.ForceRemove(2))

	view := table.RenderFor(1)
	require.Len(t, view.Seats, 2, "pending-leave seat hidden from views")
	for _, seat := range view.Seats {
		assert.NotEqual(t, uint64(2), seat.PlayerID)
	}
}

func TestRenderForRevealsAtShowdown(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	riverState(table,
		seatCards{seatNo: 0, hole: "As Ah"},
		seatCards{seatNo: 1, hole: "Kc 2d"},
	)
	require.NoError(t, table.Apply(1, PlayerAction{Type: ActionCheck}))
	require.NoError(t, table.Apply(2, PlayerAction{Type: ActionCheck}))

	// The hand is over; the result plus the survivors' cards are open.
	view := table.RenderFor(2)
	require.NotNil(t, view.LastResult)
	assert.Len(t, view.LastResult.Reveals, 2)
}
