package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tribehouse.com/gameserver/poker"
	"tribehouse.com/gameserver/util"
)

var tableLogger = log.With().Str("logger_name", "game::table").Logger()

// Table is the aggregate root for one poker table. It exclusively owns
// its seats, deck and pot for its lifetime, and is only ever mutated
// under the registry's per-table lock.
//
// Chip conservation invariant: the sum of every seated player's
// (stack + streetBet) plus the pot is unchanged by any action other than
// the transfers at blind post and pot award.
type Table struct {
	ID         string      `json:"id"`
	MaxSeats   int         `json:"maxSeats"`
	DealerSeat int         `json:"dealerSeat"`
	SmallBlind int64       `json:"smallBlind"`
	BigBlind   int64       `json:"bigBlind"`
	Seats      []*Seat     `json:"seats"`
	Status     TableStatus `json:"status"`

	// Per-hand state.
	HandID        string       `json:"handId,omitempty"`
	HandNum       uint32       `json:"handNum"`
	Street        HandStatus   `json:"street"`
	Deck          *poker.Deck  `json:"deck,omitempty"`
	Community     []poker.Card `json:"community,omitempty"`
	Pot           int64        `json:"pot"`
	CurrentBet    int64        `json:"currentBet"`
	MinRaise      int64        `json:"minRaise"`
	ActionSeat    int          `json:"actionSeat"`
	PendingAction map[int]bool `json:"pendingAction,omitempty"`

	LastResult *HandResult `json:"lastResult,omitempty"`
	Log        []string    `json:"log,omitempty"`

	// Players whose seats were cleared during this mutation. The caller
	// settles their wallet credit and registry bookkeeping.
	departed []DepartedPlayer
}

// DepartedPlayer records a seat that was fully vacated, with the chips
// the player walks away with.
type DepartedPlayer struct {
	PlayerID uint64
	Chips    int64
}

func NewTable(id string, smallBlind int64, bigBlind int64) *Table {
	return &Table{
		ID:         id,
		MaxSeats:   MaxSeats,
		DealerSeat: -1,
		ActionSeat: -1,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		Seats:      make([]*Seat, MaxSeats),
		Status:     TableStatusWaiting,
	}
}

func (t *Table) logf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	t.Log = append(t.Log, line)
	if len(t.Log) > tableLogSize {
		t.Log = t.Log[len(t.Log)-tableLogSize:]
	}
}

// SeatOfPlayer returns the seat holding the player, or nil.
func (t *Table) SeatOfPlayer(playerID uint64) *Seat {
	for _, seat := range t.Seats {
		if seat != nil && seat.PlayerID == playerID {
			return seat
		}
	}
	return nil
}

// FreeSeat returns the lowest empty seat index, or -1 when full.
func (t *Table) FreeSeat() int {
	for i, seat := range t.Seats {
		if seat == nil {
			return i
		}
	}
	return -1
}

// OccupiedCount is the number of seats holding a player.
func (t *Table) OccupiedCount() int {
	n := 0
	for _, seat := range t.Seats {
		if seat != nil {
			n++
		}
	}
	return n
}

// FundedCount is the number of seated players holding chips.
func (t *Table) FundedCount() int {
	n := 0
	for _, seat := range t.Seats {
		if seat != nil && seat.Stack > 0 {
			n++
		}
	}
	return n
}

// AddPlayer seats a player with the given buy-in. The wallet debit has
// already happened by the time this is called. New seats sit out until
// the next hand starts.
func (t *Table) AddPlayer(playerID uint64, name string, buyIn int64) (*Seat, error) {
	if t.SeatOfPlayer(playerID) != nil {
		return nil, InvalidActionError{Msg: "player is already seated at this table"}
	}
	seatNo := t.FreeSeat()
	if seatNo < 0 {
		return nil, InvalidActionError{Msg: "table is full"}
	}
	seat := &Seat{
		SeatNo:   seatNo,
		PlayerID: playerID,
		Name:     name,
		Stack:    buyIn,
		Status:   PlayerSittingOut,
	}
	t.Seats[seatNo] = seat
	t.logf("%s joined seat %d with %d chips", name, seatNo, buyIn)
	return seat, nil
}

// RemoveSeat vacates a seat outright and records the departure for the
// caller to settle.
func (t *Table) RemoveSeat(seatNo int) {
	seat := t.Seats[seatNo]
	if seat == nil {
		return
	}
	t.Seats[seatNo] = nil
	t.departed = append(t.departed, DepartedPlayer{PlayerID: seat.PlayerID, Chips: seat.Stack})
	t.logf("%s left seat %d", seat.Name, seatNo)
}

func (t *Table) takeDeparted() []DepartedPlayer {
	d := t.departed
	t.departed = nil
	return d
}

// nextSeat scans clockwise from the given seat for the first seat
// matching the filter. Returns -1 when none match.
func (t *Table) nextSeat(from int, ok func(*Seat) bool) int {
	for i := 1; i <= t.MaxSeats; i++ {
		seatNo := (from + i) % t.MaxSeats
		seat := t.Seats[seatNo]
		if seat != nil && ok(seat) {
			return seatNo
		}
	}
	return -1
}

func canAct(seat *Seat) bool {
	return seat.Status == PlayerActive
}

// commit moves chips from the seat's stack into its street wager, capped
// at the stack. A seat emptied by the commit is marked all-in.
func (t *Table) commit(seat *Seat, amount int64) int64 {
	if amount > seat.Stack {
		amount = seat.Stack
	}
	seat.Stack -= amount
	seat.StreetBet += amount
	seat.HandBet += amount
	if seat.Stack == 0 && seat.Status == PlayerActive {
		seat.Status = PlayerAllIn
	}
	return amount
}

// StartHand deals a new hand. Precondition: at least two seated players
// hold chips.
func (t *Table) StartHand() error {
	if t.Status == TableStatusInHand {
		return IntegrityError{Msg: "hand already in progress"}
	}
	if t.FundedCount() < 2 {
		return InvalidActionError{Msg: "need at least 2 funded players to start a hand"}
	}

	t.HandID = uuid.New().String()
	t.HandNum++
	t.Street = HandStatusPreflop
	t.Status = TableStatusInHand
	t.Deck = poker.NewDeck()
	t.Community = nil
	t.Pot = 0
	t.CurrentBet = 0
	t.MinRaise = t.BigBlind
	t.PendingAction = make(map[int]bool)

	for _, seat := range t.Seats {
		if seat == nil {
			continue
		}
		seat.StreetBet = 0
		seat.HandBet = 0
		seat.HoleCards = nil
		if seat.Stack > 0 {
			seat.Status = PlayerActive
		} else {
			seat.Status = PlayerSittingOut
		}
	}

	t.DealerSeat = t.nextSeat(t.DealerSeat, canAct)
	if t.DealerSeat < 0 {
		return IntegrityError{Msg: "no eligible dealer seat"}
	}

	// Heads-up: the dealer posts the small blind and acts first preflop.
	headsUp := t.activeCount() == 2
	var sbSeat, bbSeat int
	if headsUp {
		sbSeat = t.DealerSeat
	} else {
		sbSeat = t.nextSeat(t.DealerSeat, canAct)
	}
	bbSeat = t.nextSeat(sbSeat, canAct)

	sb := t.commit(t.Seats[sbSeat], t.SmallBlind)
	bb := t.commit(t.Seats[bbSeat], t.BigBlind)
	t.CurrentBet = t.BigBlind
	t.logf("hand #%d: %s posts small blind %d, %s posts big blind %d",
		t.HandNum, t.Seats[sbSeat].Name, sb, t.Seats[bbSeat].Name, bb)

	for _, seat := range t.Seats {
		if seat == nil || !seat.InHand() {
			continue
		}
		cards, err := t.Deck.Draw(2)
		if err != nil {
			return IntegrityError{Msg: err.Error()}
		}
		seat.HoleCards = cards
	}
	util.Metrics.HandDealt()

	// Everyone still able to act owes an action; the big blind keeps the
	// option even when all others just call.
	for _, seat := range t.Seats {
		if seat != nil && seat.Status == PlayerActive {
			t.PendingAction[seat.SeatNo] = true
		}
	}
	t.ActionSeat = t.nextSeat(bbSeat, canAct)

	if len(t.PendingAction) == 0 || t.ActionSeat < 0 {
		// Blind posting put everyone all-in.
		return t.closeBettingRound()
	}
	return nil
}

func (t *Table) activeCount() int {
	n := 0
	for _, seat := range t.Seats {
		if seat != nil && seat.Status == PlayerActive {
			n++
		}
	}
	return n
}

// contestingCount counts seats still able to win a pot this hand.
func (t *Table) contestingCount() int {
	n := 0
	for _, seat := range t.Seats {
		if seat != nil && seat.Contesting() {
			n++
		}
	}
	return n
}

func (t *Table) collectStreetBets() {
	for _, seat := range t.Seats {
		if seat == nil {
			continue
		}
		t.Pot += seat.StreetBet
		seat.StreetBet = 0
	}
}

// finishHand resets per-hand state, clears seats flagged for removal and
// either starts the next hand or parks the table in waiting.
func (t *Table) finishHand(result *HandResult) error {
	t.LastResult = result
	t.HandID = ""
	t.Deck = nil
	t.Community = nil
	t.Pot = 0
	t.CurrentBet = 0
	t.ActionSeat = -1
	t.PendingAction = nil

	for _, seat := range t.Seats {
		if seat == nil {
			continue
		}
		seat.StreetBet = 0
		seat.HandBet = 0
		seat.HoleCards = nil
		if seat.PendingLeave {
			t.RemoveSeat(seat.SeatNo)
			continue
		}
		if seat.Stack == 0 {
			seat.Status = PlayerSittingOut
		}
	}

	if t.FundedCount() >= 2 {
		t.Status = TableStatusWaiting
		return t.StartHand()
	}
	t.Status = TableStatusWaiting
	tableLogger.Info().
		Str("table", t.ID).
		Msg("Not enough funded players. Table is back to waiting")
	return nil
}
