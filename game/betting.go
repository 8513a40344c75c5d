package game

import (
	"fmt"

	"tribehouse.com/gameserver/poker"
	"tribehouse.com/gameserver/util"
)

// Apply validates and applies one betting action for the player. Every
// rejection happens before any mutation, so a failed action leaves the
// table untouched.
func (t *Table) Apply(playerID uint64, action PlayerAction) error {
	if err := action.Validate(); err != nil {
		return err
	}
	if t.Status != TableStatusInHand {
		return InvalidActionError{Msg: "no hand in progress"}
	}
	seat := t.SeatOfPlayer(playerID)
	if seat == nil {
		return InvalidActionError{Msg: "player is not seated at this table"}
	}
	if seat.SeatNo != t.ActionSeat {
		return InvalidActionError{Msg: fmt.Sprintf("acting out of turn. Seat %d is on turn", t.ActionSeat)}
	}
	if seat.Status != PlayerActive {
		return InvalidActionError{Msg: "player cannot act in this hand"}
	}

	switch action.Type {
	case ActionFold:
		seat.Status = PlayerFolded
		t.logf("%s folds", seat.Name)

	case ActionCheck:
		if seat.StreetBet != t.CurrentBet {
			return InvalidActionError{Msg: "cannot check facing a bet"}
		}
		t.logf("%s checks", seat.Name)

	case ActionCall:
		owed := t.CurrentBet - seat.StreetBet
		if owed <= 0 {
			return InvalidActionError{Msg: "nothing to call"}
		}
		paid := t.commit(seat, owed)
		t.logf("%s calls %d", seat.Name, paid)

	case ActionBet:
		if t.CurrentBet != 0 {
			return InvalidActionError{Msg: "cannot bet over an existing bet; raise instead"}
		}
		if action.Amount > seat.Stack {
			return InvalidActionError{Msg: "bet exceeds stack"}
		}
		if action.Amount < t.BigBlind && action.Amount != seat.Stack {
			return InvalidActionError{Msg: fmt.Sprintf("bet below minimum %d", t.BigBlind)}
		}
		t.commit(seat, action.Amount)
		t.CurrentBet = seat.StreetBet
		t.MinRaise = seat.StreetBet
		t.reopenAction(seat)
		t.logf("%s bets %d", seat.Name, t.CurrentBet)

	case ActionRaise:
		if t.CurrentBet == 0 {
			return InvalidActionError{Msg: "nothing to raise; bet instead"}
		}
		raiseTo := action.Amount
		if raiseTo <= t.CurrentBet {
			return InvalidActionError{Msg: fmt.Sprintf("raise must exceed current bet %d", t.CurrentBet)}
		}
		pay := raiseTo - seat.StreetBet
		if pay > seat.Stack {
			return InvalidActionError{Msg: "raise exceeds stack"}
		}
		increment := raiseTo - t.CurrentBet
		allIn := pay == seat.Stack
		if increment < t.MinRaise && !allIn {
			return InvalidActionError{Msg: fmt.Sprintf("raise increment below minimum %d", t.MinRaise)}
		}
		t.commit(seat, pay)
		t.CurrentBet = raiseTo
		if increment >= t.MinRaise {
			t.MinRaise = increment
			t.reopenAction(seat)
		}
		// A short all-in raise moves the bet without reopening action to
		// players who already acted at the previous level.
		t.logf("%s raises to %d", seat.Name, raiseTo)
	}

	util.Metrics.ActionApplied()
	delete(t.PendingAction, seat.SeatNo)
	return t.afterAction(seat.SeatNo)
}

// reopenAction puts every other player who can still act back on the
// clock after a full bet or raise.
func (t *Table) reopenAction(actor *Seat) {
	for _, seat := range t.Seats {
		if seat != nil && seat != actor && seat.Status == PlayerActive {
			t.PendingAction[seat.SeatNo] = true
		}
	}
}

// afterAction re-evaluates the hand after any action or forced fold:
// single survivor, betting round completion, or pass the turn along.
func (t *Table) afterAction(fromSeat int) error {
	if t.contestingCount() == 1 {
		return t.concludeSingleSurvivor()
	}
	if len(t.PendingAction) > 0 {
		if t.ActionSeat >= 0 && t.ActionSeat != fromSeat && t.PendingAction[t.ActionSeat] {
			// An out of turn forced fold does not move the turn.
			return nil
		}
		next := t.nextSeat(fromSeat, func(s *Seat) bool { return t.PendingAction[s.SeatNo] })
		if next < 0 {
			return IntegrityError{Msg: "pending action set references no seat"}
		}
		t.ActionSeat = next
		return nil
	}
	return t.closeBettingRound()
}

// closeBettingRound collects street wagers into the pot and decides what
// comes next: run the board out, go to showdown, or deal the next street.
func (t *Table) closeBettingRound() error {
	t.collectStreetBets()
	t.CurrentBet = 0
	t.MinRaise = t.BigBlind
	t.ActionSeat = -1

	if t.activeCount() <= 1 {
		// Everyone left in the hand is all-in. No more betting; deal the
		// remaining community cards and show down.
		if err := t.runOutBoard(); err != nil {
			return err
		}
		return t.showdown()
	}
	if t.Street == HandStatusRiver {
		return t.showdown()
	}
	return t.advanceStreet()
}

func (t *Table) advanceStreet() error {
	var draw int
	switch t.Street {
	case HandStatusPreflop:
		t.Street = HandStatusFlop
		draw = 3
	case HandStatusFlop:
		t.Street = HandStatusTurn
		draw = 1
	case HandStatusTurn:
		t.Street = HandStatusRiver
		draw = 1
	default:
		return IntegrityError{Msg: fmt.Sprintf("cannot advance street from %s", t.Street)}
	}
	cards, err := t.Deck.Draw(draw)
	if err != nil {
		return IntegrityError{Msg: err.Error()}
	}
	t.Community = append(t.Community, cards...)

	t.PendingAction = make(map[int]bool)
	for _, seat := range t.Seats {
		if seat != nil && seat.Status == PlayerActive {
			t.PendingAction[seat.SeatNo] = true
		}
	}
	t.ActionSeat = t.nextSeat(t.DealerSeat, canAct)
	t.logf("%s: %s", t.Street, poker.CardsToString(t.Community))
	return nil
}

func (t *Table) runOutBoard() error {
	for len(t.Community) < 5 {
		cards, err := t.Deck.Draw(1)
		if err != nil {
			return IntegrityError{Msg: err.Error()}
		}
		t.Community = append(t.Community, cards...)
	}
	return nil
}

func (t *Table) concludeSingleSurvivor() error {
	t.collectStreetBets()
	var survivor *Seat
	for _, seat := range t.Seats {
		if seat != nil && seat.Contesting() {
			survivor = seat
			break
		}
	}
	if survivor == nil {
		return IntegrityError{Msg: "hand concluded with no surviving player"}
	}
	amount := t.Pot
	survivor.Stack += amount
	t.Pot = 0
	t.logf("%s wins %d uncontested", survivor.Name, amount)

	result := &HandResult{
		HandID:      t.HandID,
		TableID:     t.ID,
		HandNum:     t.HandNum,
		Board:       t.Community,
		Uncontested: true,
		Pots: []PotResult{{
			Amount: amount,
			Winners: []Winner{{
				SeatNo:   survivor.SeatNo,
				PlayerID: survivor.PlayerID,
				Name:     survivor.Name,
				Amount:   amount,
			}},
		}},
	}
	return t.finishHand(result)
}

// forceFold folds a player out of turn, for disconnects and voluntary
// leaves, and re-evaluates the hand.
func (t *Table) forceFold(seat *Seat) error {
	seat.Status = PlayerFolded
	delete(t.PendingAction, seat.SeatNo)
	t.logf("%s is folded out", seat.Name)
	return t.afterAction(seat.SeatNo)
}

// ForceRemove applies disconnect semantics: a player still owed a hand
// outcome is folded and flagged, never deleted mid-hand, so pot math is
// preserved. Outside a hand the seat is vacated outright.
func (t *Table) ForceRemove(playerID uint64) error {
	seat := t.SeatOfPlayer(playerID)
	if seat == nil {
		return nil
	}
	if t.Status == TableStatusInHand && seat.InHand() {
		seat.PendingLeave = true
		if seat.Status == PlayerActive {
			return t.forceFold(seat)
		}
		return nil
	}
	t.RemoveSeat(seat.SeatNo)
	return nil
}
