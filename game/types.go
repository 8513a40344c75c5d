package game

// MaxSeats is the fixed seat capacity of every table.
const MaxSeats = 8

// tableLogSize bounds the human readable event log kept on each table.
const tableLogSize = 25

type TableStatus int32

const (
	TableStatusWaiting TableStatus = iota
	TableStatusInHand
	TableStatusShowdown
)

func (s TableStatus) String() string {
	switch s {
	case TableStatusWaiting:
		return "waiting"
	case TableStatusInHand:
		return "in_hand"
	case TableStatusShowdown:
		return "showdown"
	}
	return "unknown"
}

// HandStatus is the street the hand is on.
type HandStatus int32

const (
	HandStatusPreflop HandStatus = iota
	HandStatusFlop
	HandStatusTurn
	HandStatusRiver
	HandStatusShowdown
)

func (s HandStatus) String() string {
	switch s {
	case HandStatusPreflop:
		return "preflop"
	case HandStatusFlop:
		return "flop"
	case HandStatusTurn:
		return "turn"
	case HandStatusRiver:
		return "river"
	case HandStatusShowdown:
		return "showdown"
	}
	return "unknown"
}

type PlayerStatus int32

const (
	PlayerActive PlayerStatus = iota
	PlayerFolded
	PlayerAllIn
	PlayerSittingOut
)

func (s PlayerStatus) String() string {
	switch s {
	case PlayerActive:
		return "active"
	case PlayerFolded:
		return "folded"
	case PlayerAllIn:
		return "all-in"
	case PlayerSittingOut:
		return "sitting-out"
	}
	return "unknown"
}

// ActionType is the closed set of betting actions a player may take.
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
)

// PlayerAction is a single inbound betting intent. Bet and raise carry an
// amount, which is the total street wager the player is moving to.
type PlayerAction struct {
	Type   ActionType `json:"type"`
	Amount int64      `json:"amount,omitempty"`
}

// Validate rejects payloads outside the closed action set before they
// reach the state machine.
func (a PlayerAction) Validate() error {
	switch a.Type {
	case ActionFold, ActionCheck, ActionCall:
		return nil
	case ActionBet, ActionRaise:
		if a.Amount <= 0 {
			return InvalidActionError{Msg: string(a.Type) + " requires a positive amount"}
		}
		return nil
	}
	return InvalidActionError{Msg: "unknown action type"}
}
