package game

import (
	"tribehouse.com/gameserver/poker"
)

// Winner is one share of a pot.
type Winner struct {
	SeatNo   int          `json:"seatNo"`
	PlayerID uint64       `json:"playerId"`
	Name     string       `json:"name"`
	Amount   int64        `json:"amount"`
	Rank     string       `json:"rank,omitempty"`
	Cards    []poker.Card `json:"cards,omitempty"`
}

// PotResult is one main or side pot and its winners.
type PotResult struct {
	Amount  int64    `json:"amount"`
	Winners []Winner `json:"winners"`
}

// SeatCards is a showdown reveal of one contender's hole cards.
type SeatCards struct {
	SeatNo    int          `json:"seatNo"`
	PlayerID  uint64       `json:"playerId"`
	Name      string       `json:"name"`
	HoleCards []poker.Card `json:"holeCards"`
}

// HandResult is the outcome of one concluded hand. It outlives the hand
// state on the table so reconnecting players can see how the last hand
// ended.
type HandResult struct {
	HandID      string       `json:"handId"`
	TableID     string       `json:"tableId"`
	HandNum     uint32       `json:"handNum"`
	Board       []poker.Card `json:"board,omitempty"`
	Pots        []PotResult  `json:"pots"`
	Reveals     []SeatCards  `json:"reveals,omitempty"`
	Uncontested bool         `json:"uncontested,omitempty"`
}
