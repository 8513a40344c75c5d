package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tribehouse.com/gameserver/poker"
)

// newTestTable seats one player per stack and deals the first hand.
// Player ids are 1-based; player i sits in seat i-1.
func newTestTable(t *testing.T, stacks ...int64) *Table {
	table := NewTable("test-table", 5, 10)
	for i, stack := range stacks {
		_, err := table.AddPlayer(uint64(i+1), playerName(i), stack)
		require.NoError(t, err)
	}
	require.NoError(t, table.StartHand())
	return table
}

func playerName(i int) string {
	names := []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "henry"}
	return names[i%len(names)]
}

// totalChips is the conserved quantity: every stack plus every
// uncollected street wager plus the pot.
func totalChips(t *Table) int64 {
	total := t.Pot
	for _, seat := range t.Seats {
		if seat != nil {
			total += seat.Stack + seat.StreetBet
		}
	}
	return total
}

func TestAddPlayerSitsOutUntilNextHand(t *testing.T) {
	table := NewTable("t", 5, 10)
	seat, err := table.AddPlayer(1, "alice", 1000)
	require.NoError(t, err)
	assert.Equal(t, PlayerSittingOut, seat.Status)
	assert.Equal(t, 0, seat.SeatNo)

	_, err = table.AddPlayer(1, "alice", 1000)
	assert.True(t, IsValidationError(err), "double seating must be rejected")
}

func TestStartHandHeadsUp(t *testing.T) {
	table := newTestTable(t, 1000, 1000)

	assert.Equal(t, TableStatusInHand, table.Status)
	assert.Equal(t, HandStatusPreflop, table.Street)
	assert.NotEmpty(t, table.HandID)
	assert.Equal(t, uint32(1), table.HandNum)

	// Heads-up the dealer posts the small blind and acts first.
	assert.Equal(t, 0, table.DealerSeat)
	assert.Equal(t, int64(5), table.Seats[0].StreetBet)
	assert.Equal(t, int64(10), table.Seats[1].StreetBet)
	assert.Equal(t, 0, table.ActionSeat)
	assert.Equal(t, int64(10), table.CurrentBet)

	for _, seat := range table.Seats[:2] {
		assert.Len(t, seat.HoleCards, 2)
		assert.Equal(t, PlayerActive, seat.Status)
	}
	assert.Len(t, table.PendingAction, 2, "both players owe an action, including the big blind option")
	assert.Equal(t, int64(2000), totalChips(table))
}

func TestStartHandThreeHanded(t *testing.T) {
	table := newTestTable(t, 1000, 1000, 1000)

	// Dealer 0, small blind 1, big blind 2, first to act back at 0.
	assert.Equal(t, 0, table.DealerSeat)
	assert.Equal(t, int64(5), table.Seats[1].StreetBet)
	assert.Equal(t, int64(10), table.Seats[2].StreetBet)
	assert.Equal(t, 0, table.ActionSeat)
	assert.Equal(t, int64(3000), totalChips(table))
}

func TestHeadsUpCallCheckAdvancesToFlop(t *testing.T) {
	table := newTestTable(t, 1000, 1000)

	require.NoError(t, table.Apply(1, PlayerAction{Type: ActionCall}))
	assert.Equal(t, 1, table.ActionSeat, "big blind has the option after the call")

	require.NoError(t, table.Apply(2, PlayerAction{Type: ActionCheck}))

	assert.Equal(t, HandStatusFlop, table.Street)
	assert.Len(t, table.Community, 3)
	assert.Equal(t, int64(20), table.Pot)
	assert.Equal(t, int64(0), table.CurrentBet)
	assert.Equal(t, int64(0), table.Seats[0].StreetBet)
	assert.Equal(t, int64(0), table.Seats[1].StreetBet)

	// Postflop the non-dealer acts first.
	assert.Equal(t, 1, table.ActionSeat)
	assert.Equal(t, int64(2000), totalChips(table))
}

func TestFoldConcludesUncontested(t *testing.T) {
	table := newTestTable(t, 1000, 1000)

	require.NoError(t, table.Apply(1, PlayerAction{Type: ActionFold}))

	result := table.LastResult
	require.NotNil(t, result)
	assert.True(t, result.Uncontested)
	require.Len(t, result.Pots, 1)
	require.Len(t, result.Pots[0].Winners, 1)
	winner := result.Pots[0].Winners[0]
	assert.Equal(t, uint64(2), winner.PlayerID)
	assert.Equal(t, int64(15), winner.Amount, "blinds only")
	assert.Empty(t, result.Reveals, "no showdown, no reveals")

	// Both players still hold chips, so the next hand starts right away.
	assert.Equal(t, TableStatusInHand, table.Status)
	assert.Equal(t, uint32(2), table.HandNum)
	assert.Equal(t, int64(2000), totalChips(table))
}

func TestActionValidation(t *testing.T) {
	testCases := []struct {
		name     string
		playerID uint64
		action   PlayerAction
	}{
		{"out of turn", 2, PlayerAction{Type: ActionCheck}},
		{"not seated", 99, PlayerAction{Type: ActionFold}},
		{"check facing a bet", 1, PlayerAction{Type: ActionCheck}},
		{"bet over existing bet", 1, PlayerAction{Type: ActionBet, Amount: 50}},
		{"raise not above current bet", 1, PlayerAction{Type: ActionRaise, Amount: 10}},
		{"raise below minimum increment", 1, PlayerAction{Type: ActionRaise, Amount: 15}},
		{"raise beyond stack", 1, PlayerAction{Type: ActionRaise, Amount: 5000}},
		{"zero amount bet", 1, PlayerAction{Type: ActionBet}},
		{"unknown action type", 1, PlayerAction{Type: "slowroll"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table := newTestTable(t, 1000, 1000)
			before := totalChips(table)
			err := table.Apply(tc.playerID, tc.action)
			assert.True(t, IsValidationError(err), "expected a validation error, got %v", err)
			assert.Equal(t, before, totalChips(table), "rejected actions must not move chips")
			assert.Equal(t, 0, table.ActionSeat, "rejected actions must not move the turn")
		})
	}
}

func TestCallNothingOwedRejected(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	require.NoError(t, table.Apply(1, PlayerAction{Type: ActionCall}))

	// Big blind already matches the current bet.
	err := table.Apply(2, PlayerAction{Type: ActionCall})
	assert.True(t, IsValidationError(err))
}

func TestRaiseReopensAction(t *testing.T) {
	table := newTestTable(t, 1000, 1000, 1000)

	require.NoError(t, table.Apply(1, PlayerAction{Type: ActionCall}))
	require.NoError(t, table.Apply(2, PlayerAction{Type: ActionCall}))

	// Big blind raises; both callers owe another action.
	require.NoError(t, table.Apply(3, PlayerAction{Type: ActionRaise, Amount: 30}))
	assert.Equal(t, int64(30), table.CurrentBet)
	assert.Equal(t, int64(20), table.MinRaise)
	assert.True(t, table.PendingAction[0])
	assert.True(t, table.PendingAction[1])
	assert.Equal(t, 0, table.ActionSeat)
	assert.Equal(t, int64(3000), totalChips(table))
}

func TestShortAllInRaiseDoesNotReopenAction(t *testing.T) {
	// Seat 2 reaches the flop with 28 chips behind. Seat 1 bets 20,
	// seat 2 shoves to 28, an increment below the minimum raise of 20.
	// The bet level moves to 28 for seat 0, who has not acted yet, but
	// seat 1 is not put back on the clock and the minimum raise holds.
	table := newTestTable(t, 1000, 1000, 38)

	require.NoError(t, table.Apply(1, PlayerAction{Type: ActionCall}))
	require.NoError(t, table.Apply(2, PlayerAction{Type: ActionCall}))
	require.NoError(t, table.Apply(3, PlayerAction{Type: ActionCheck}))
	require.Equal(t, HandStatusFlop, table.Street)

	require.NoError(t, table.Apply(2, PlayerAction{Type: ActionBet, Amount: 20}))
	require.NoError(t, table.Apply(3, PlayerAction{Type: ActionRaise, Amount: 28}))

	assert.Equal(t, PlayerAllIn, table.Seats[2].Status)
	assert.Equal(t, int64(28), table.CurrentBet)
	assert.Equal(t, int64(20), table.MinRaise, "short all-in must not move the minimum raise")
	assert.True(t, table.PendingAction[0], "seat 0 still owes a first action")
	assert.False(t, table.PendingAction[1], "seat 1 already acted at the previous level")
	assert.Equal(t, 0, table.ActionSeat)
	assert.Equal(t, int64(2038), totalChips(table))
}

func TestBetAllInBelowMinimumAllowed(t *testing.T) {
	// A stack shorter than the big blind may still move all-in as a bet.
	table := newTestTable(t, 1000, 1000)
	require.NoError(t, table.Apply(1, PlayerAction{Type: ActionCall}))
	require.NoError(t, table.Apply(2, PlayerAction{Type: ActionCheck}))

	// Flop. Give the first actor a tiny stack by construction.
	table.Seats[1].Stack = 7
	err := table.Apply(2, PlayerAction{Type: ActionBet, Amount: 7})
	require.NoError(t, err)
	assert.Equal(t, PlayerAllIn, table.Seats[1].Status)
	assert.Equal(t, int64(7), table.CurrentBet)
}

func TestAllInShortcutsToShowdown(t *testing.T) {
	table := newTestTable(t, 300, 300)

	require.NoError(t, table.Apply(1, PlayerAction{Type: ActionRaise, Amount: 300}))
	require.NoError(t, table.Apply(2, PlayerAction{Type: ActionCall}))

	// Both all-in preflop: the board runs out and the hand shows down.
	result := table.LastResult
	require.NotNil(t, result)
	assert.Len(t, result.Board, 5)
	assert.False(t, result.Uncontested)
	assert.Len(t, result.Reveals, 2)
	assert.Equal(t, int64(600), totalChips(table))

	// One player busted (or chopped); either way no hand is running with
	// fewer than two funded seats unless both kept chips.
	if table.FundedCount() >= 2 {
		assert.Equal(t, TableStatusInHand, table.Status)
	} else {
		assert.Equal(t, TableStatusWaiting, table.Status)
	}
}

func TestBustedPlayerSitsOut(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	// Craft a decided showdown on the river so the loser busts.
	riverState(table,
		seatCards{seatNo: 0, hole: "As Ah"},
		seatCards{seatNo: 1, hole: "2c 7d"},
	)

	require.NoError(t, table.Apply(1, PlayerAction{Type: ActionCheck}))
	require.NoError(t, table.Apply(2, PlayerAction{Type: ActionCheck}))

	assert.Equal(t, TableStatusWaiting, table.Status)
	assert.Equal(t, int64(2000), table.Seats[0].Stack)
	assert.Equal(t, int64(0), table.Seats[1].Stack)
	assert.Equal(t, PlayerSittingOut, table.Seats[1].Status)
	assert.NotNil(t, table.Seats[1], "busted players keep their seat")
}

type seatCards struct {
	seatNo int
	hole   string
}

// riverState rewrites an in-progress heads-up hand into a known river
// spot: all chips from both stacks in the pot, a fixed board and fixed
// hole cards, both players checked to.
func riverState(table *Table, cards ...seatCards) {
	table.Street = HandStatusRiver
	table.Community = poker.NewCards("Ad Ac 5h 9s Jd")
	table.Deck = poker.NewDeckFromCards(nil)
	table.Pot = 0
	table.CurrentBet = 0
	table.MinRaise = table.BigBlind
	table.PendingAction = make(map[int]bool)
	for _, sc := range cards {
		seat := table.Seats[sc.seatNo]
		table.Pot += seat.Stack + seat.StreetBet
		seat.HandBet = seat.Stack + seat.StreetBet
		seat.StreetBet = 0
		seat.Stack = 0
		seat.Status = PlayerActive
		seat.HoleCards = poker.NewCards(sc.hole)
		table.PendingAction[sc.seatNo] = true
	}
	table.ActionSeat = cards[0].seatNo
}

func TestForceRemoveMidHandFoldsAndFlags(t *testing.T) {
	table := newTestTable(t, 1000, 1000, 1000)

	require.NoError(t, table.ForceRemove(2))

	// The hand continues between the other two; seat 1 is folded and
	// flagged, not deleted, so its blind stays in the pot math.
	assert.Equal(t, TableStatusInHand, table.Status)
	require.NotNil(t, table.Seats[1])
	assert.True(t, table.Seats[1].PendingLeave)
	assert.Equal(t, PlayerFolded, table.Seats[1].Status)
	assert.Equal(t, int64(3000), totalChips(table))
	assert.Empty(t, table.takeDeparted(), "no departure until the hand ends")
}

func TestForceRemoveOutsideHandVacatesSeat(t *testing.T) {
	table := NewTable("t", 5, 10)
	_, err := table.AddPlayer(1, "alice", 500)
	require.NoError(t, err)

	require.NoError(t, table.ForceRemove(1))
	assert.Nil(t, table.Seats[0])

	departed := table.takeDeparted()
	require.Len(t, departed, 1)
	assert.Equal(t, uint64(1), departed[0].PlayerID)
	assert.Equal(t, int64(500), departed[0].Chips)
}

func TestForceRemoveHeadsUpConcludesHand(t *testing.T) {
	table := newTestTable(t, 1000, 1000)

	require.NoError(t, table.ForceRemove(1))

	// The survivor wins the blinds, the leaver's seat clears at hand end
	// and the table reverts to waiting with one player left.
	result := table.LastResult
	require.NotNil(t, result)
	assert.True(t, result.Uncontested)
	assert.Equal(t, TableStatusWaiting, table.Status)
	assert.Nil(t, table.Seats[0])
	assert.Equal(t, int64(1005), table.Seats[1].Stack)

	departed := table.takeDeparted()
	require.Len(t, departed, 1)
	assert.Equal(t, uint64(1), departed[0].PlayerID)
	assert.Equal(t, int64(995), departed[0].Chips)
}

func TestStartHandNeedsTwoFundedPlayers(t *testing.T) {
	table := NewTable("t", 5, 10)
	_, err := table.AddPlayer(1, "alice", 1000)
	require.NoError(t, err)
	_, err = table.AddPlayer(2, "bob", 0)
	require.NoError(t, err)

	err = table.StartHand()
	assert.True(t, IsValidationError(err))
	assert.Equal(t, TableStatusWaiting, table.Status)
}

func TestTableLogIsBounded(t *testing.T) {
	table := NewTable("t", 5, 10)
	for i := 0; i < tableLogSize*3; i++ {
		table.logf("event %d", i)
	}
	assert.Len(t, table.Log, tableLogSize)
	assert.Equal(t, "event 74", table.Log[len(table.Log)-1])
}
