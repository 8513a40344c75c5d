package game

import (
	"tribehouse.com/gameserver/poker"
)

// SeatView is one seat as shown to a particular player. Hole cards are
// present only for the viewer's own seat until showdown.
type SeatView struct {
	SeatNo    int          `json:"seatNo"`
	PlayerID  uint64       `json:"playerId"`
	Name      string       `json:"name"`
	Stack     int64        `json:"stack"`
	Status    string       `json:"status"`
	StreetBet int64        `json:"streetBet"`
	HoleCards []poker.Card `json:"holeCards,omitempty"`
}

// ActionOptions are the legal-action affordances for the player on turn.
type ActionOptions struct {
	CanCheck   bool  `json:"canCheck"`
	CanCall    bool  `json:"canCall"`
	CallAmount int64 `json:"callAmount,omitempty"`
	CanBet     bool  `json:"canBet"`
	MinBet     int64 `json:"minBet,omitempty"`
	CanRaise   bool  `json:"canRaise"`
	MinRaiseTo int64 `json:"minRaiseTo,omitempty"`
	MaxRaiseTo int64 `json:"maxRaiseTo,omitempty"`
}

// TableView is the sanitized per-player snapshot sent to clients.
type TableView struct {
	TableID    string         `json:"tableId"`
	ForPlayer  uint64         `json:"forPlayer"`
	Status     string         `json:"status"`
	Street     string         `json:"street"`
	HandID     string         `json:"handId,omitempty"`
	HandNum    uint32         `json:"handNum,omitempty"`
	DealerSeat int            `json:"dealerSeat"`
	ActionSeat int            `json:"actionSeat"`
	SmallBlind int64          `json:"smallBlind"`
	BigBlind   int64          `json:"bigBlind"`
	Pot        int64          `json:"pot"`
	Community  []poker.Card   `json:"community,omitempty"`
	Seats      []SeatView     `json:"seats"`
	Options    *ActionOptions `json:"options,omitempty"`
	LastResult *HandResult    `json:"lastResult,omitempty"`
	Log        []string       `json:"log,omitempty"`
}

// RenderFor produces the snapshot for one player. Seats of busted or
// departing players are omitted from the view, though the model retains
// them until they are fully vacated.
func (t *Table) RenderFor(playerID uint64) *TableView {
	view := &TableView{
		TableID:    t.ID,
		ForPlayer:  playerID,
		Status:     t.Status.String(),
		Street:     t.Street.String(),
		HandID:     t.HandID,
		HandNum:    t.HandNum,
		DealerSeat: t.DealerSeat,
		ActionSeat: t.ActionSeat,
		SmallBlind: t.SmallBlind,
		BigBlind:   t.BigBlind,
		Pot:        t.potTotal(),
		Community:  t.Community,
		LastResult: t.LastResult,
		Log:        t.Log,
	}

	revealAll := t.Street == HandStatusShowdown || t.Status != TableStatusInHand
	for _, seat := range t.Seats {
		if seat == nil {
			continue
		}
		if seat.PendingLeave || (seat.Stack == 0 && seat.Status == PlayerSittingOut) {
			continue
		}
		seatView := SeatView{
			SeatNo:    seat.SeatNo,
			PlayerID:  seat.PlayerID,
			Name:      seat.Name,
			Stack:     seat.Stack,
			Status:    seat.Status.String(),
			StreetBet: seat.StreetBet,
		}
		if seat.PlayerID == playerID || revealAll {
			seatView.HoleCards = seat.HoleCards
		}
		view.Seats = append(view.Seats, seatView)

		if seat.PlayerID == playerID && t.Status == TableStatusInHand &&
			t.ActionSeat == seat.SeatNo && seat.Status == PlayerActive {
			view.Options = t.optionsFor(seat)
		}
	}
	return view
}

// potTotal includes street wagers not yet collected into the pot.
func (t *Table) potTotal() int64 {
	total := t.Pot
	for _, seat := range t.Seats {
		if seat != nil {
			total += seat.StreetBet
		}
	}
	return total
}

func (t *Table) optionsFor(seat *Seat) *ActionOptions {
	options := &ActionOptions{}
	owed := t.CurrentBet - seat.StreetBet
	if owed <= 0 {
		options.CanCheck = true
	} else {
		options.CanCall = true
		options.CallAmount = owed
		if options.CallAmount > seat.Stack {
			options.CallAmount = seat.Stack
		}
	}
	if t.CurrentBet == 0 && seat.Stack > 0 {
		options.CanBet = true
		options.MinBet = t.BigBlind
		if options.MinBet > seat.Stack {
			options.MinBet = seat.Stack
		}
	}
	if t.CurrentBet > 0 && seat.Stack > owed {
		options.CanRaise = true
		maxTo := seat.StreetBet + seat.Stack
		minTo := t.CurrentBet + t.MinRaise
		if minTo > maxTo {
			minTo = maxTo
		}
		options.MinRaiseTo = minTo
		options.MaxRaiseTo = maxTo
	}
	return options
}
