package game

import (
	"tribehouse.com/gameserver/poker"
)

// Seat holds one player at a table. A seat is created when a queued
// player is placed into it and set back to nil when the player leaves or
// is pruned while not mid-hand.
type Seat struct {
	SeatNo   int          `json:"seatNo"`
	PlayerID uint64       `json:"playerId"`
	Name     string       `json:"name"`
	Stack    int64        `json:"stack"`
	Status   PlayerStatus `json:"status"`

	// StreetBet is the wager committed on the current street, not yet
	// collected into the pot. HandBet is the cumulative wager for the
	// whole hand and drives side pot construction.
	StreetBet int64 `json:"streetBet"`
	HandBet   int64 `json:"handBet"`

	HoleCards    []poker.Card `json:"holeCards,omitempty"`
	PendingLeave bool         `json:"pendingLeave,omitempty"`
}

// InHand reports whether the seat was dealt into the current hand.
func (s *Seat) InHand() bool {
	return s.Status == PlayerActive || s.Status == PlayerFolded || s.Status == PlayerAllIn
}

// Contesting reports whether the seat can still win a pot this hand.
func (s *Seat) Contesting() bool {
	return s.Status == PlayerActive || s.Status == PlayerAllIn
}
