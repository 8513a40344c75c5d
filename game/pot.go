package game

import (
	"sort"

	"tribehouse.com/gameserver/poker"
)

// SidePot is a pot partition. Folded contributors fund a pot without
// being eligible to win it.
type SidePot struct {
	Amount int64 `json:"amount"`
	Seats  []int `json:"seats"`
}

// buildPots partitions the cumulative hand wagers into a main pot and
// side pots. It walks the distinct wager levels ascending; each level's
// increment is (level - previousLevel) times the number of contributors
// who reached that level. Pots with identical eligibility collapse into
// one.
func (t *Table) buildPots() []SidePot {
	var levels []int64
	seen := map[int64]bool{}
	for _, seat := range t.Seats {
		if seat != nil && seat.HandBet > 0 && !seen[seat.HandBet] {
			seen[seat.HandBet] = true
			levels = append(levels, seat.HandBet)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	var pots []SidePot
	prev := int64(0)
	for _, level := range levels {
		var amount int64
		var eligible []int
		for _, seat := range t.Seats {
			if seat == nil || seat.HandBet < level {
				continue
			}
			amount += level - prev
			if seat.Contesting() {
				eligible = append(eligible, seat.SeatNo)
			}
		}
		prev = level

		if n := len(pots); n > 0 && equalSeats(pots[n-1].Seats, eligible) {
			pots[n-1].Amount += amount
			continue
		}
		pots = append(pots, SidePot{Amount: amount, Seats: eligible})
	}
	return pots
}

func equalSeats(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// distributePots evaluates every pot's eligible hands and pays the
// winners. Split pots divide truncating, with any remainder going to the
// lowest seat index among the winners.
func (t *Table) distributePots() (*HandResult, error) {
	pots := t.buildPots()
	result := &HandResult{
		HandID:  t.HandID,
		TableID: t.ID,
		HandNum: t.HandNum,
		Board:   t.Community,
	}

	ranks := map[int]poker.HandRank{}
	bestCards := map[int][]poker.Card{}
	for _, seat := range t.Seats {
		if seat == nil || !seat.Contesting() {
			continue
		}
		cards := make([]poker.Card, 0, 7)
		cards = append(cards, seat.HoleCards...)
		cards = append(cards, t.Community...)
		rank, best := poker.Evaluate(cards)
		ranks[seat.SeatNo] = rank
		bestCards[seat.SeatNo] = best
		result.Reveals = append(result.Reveals, SeatCards{
			SeatNo:    seat.SeatNo,
			PlayerID:  seat.PlayerID,
			Name:      seat.Name,
			HoleCards: seat.HoleCards,
		})
	}

	for _, pot := range pots {
		if len(pot.Seats) == 0 {
			return nil, IntegrityError{Msg: "pot with no eligible seats"}
		}
		var winners []int
		for _, seatNo := range pot.Seats {
			if len(winners) == 0 {
				winners = []int{seatNo}
				continue
			}
			switch ranks[seatNo].Compare(ranks[winners[0]]) {
			case 1:
				winners = []int{seatNo}
			case 0:
				winners = append(winners, seatNo)
			}
		}
		sort.Ints(winners)

		share := pot.Amount / int64(len(winners))
		remainder := pot.Amount % int64(len(winners))

		potResult := PotResult{Amount: pot.Amount}
		for i, seatNo := range winners {
			amount := share
			if i == 0 {
				// Odd chips go to the lowest seat index. Arbitrary but
				// deterministic, and a stable observable outcome.
				amount += remainder
			}
			seat := t.Seats[seatNo]
			seat.Stack += amount
			t.Pot -= amount
			potResult.Winners = append(potResult.Winners, Winner{
				SeatNo:   seatNo,
				PlayerID: seat.PlayerID,
				Name:     seat.Name,
				Amount:   amount,
				Rank:     ranks[seatNo].String(),
				Cards:    bestCards[seatNo],
			})
			t.logf("%s wins %d with %s", seat.Name, amount, ranks[seatNo])
		}
		result.Pots = append(result.Pots, potResult)
	}

	if t.Pot != 0 {
		return nil, IntegrityError{Msg: "pot distribution did not consume the full pot"}
	}
	return result, nil
}

// showdown builds the side pots, ranks the contenders and pays out, then
// wraps up the hand.
func (t *Table) showdown() error {
	t.Street = HandStatusShowdown
	t.Status = TableStatusShowdown
	result, err := t.distributePots()
	if err != nil {
		return err
	}
	return t.finishHand(result)
}
