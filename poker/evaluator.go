package poker

import (
	"fmt"
	"sort"
)

// HandCategory ranks hand classes from high card (0) up to straight
// flush (8).
type HandCategory int32

const (
	HighCard HandCategory = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryToString = map[HandCategory]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
}

func (hc HandCategory) String() string {
	return categoryToString[hc]
}

// HandRank is the strength of a best five card hand: a category plus an
// ordered tiebreak vector, highest significance first. Two ranks with the
// same category and tiebreaks are an exact tie.
type HandRank struct {
	Category  HandCategory `json:"category"`
	Tiebreaks []int32      `json:"tiebreaks"`
}

// Compare returns 1 if h beats o, -1 if o beats h and 0 on a tie.
func (h HandRank) Compare(o HandRank) int {
	if h.Category != o.Category {
		if h.Category > o.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(h.Tiebreaks) && i < len(o.Tiebreaks); i++ {
		if h.Tiebreaks[i] != o.Tiebreaks[i] {
			if h.Tiebreaks[i] > o.Tiebreaks[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

func (h HandRank) Beats(o HandRank) bool {
	return h.Compare(o) > 0
}

func (h HandRank) String() string {
	return h.Category.String()
}

// Evaluate returns the best five card ranking achievable from 5, 6 or 7
// cards, along with the five cards that make it.
func Evaluate(cards []Card) (HandRank, []Card) {
	switch len(cards) {
	case 5:
		return five(cards...)
	case 6:
		return six(cards...)
	case 7:
		return seven(cards...)
	default:
		panic(fmt.Sprintf("Only support 5, 6 and 7 cards. Got %d", len(cards)))
	}
}

func five(cards ...Card) (HandRank, []Card) {
	return evaluateFive(cards), cards
}

func six(cards ...Card) (HandRank, []Card) {
	var best HandRank
	bestCards := make([]Card, 5)
	targets := make([]Card, len(cards))
	for i := 0; i < len(cards); i++ {
		copy(targets, cards)
		targets := append(targets[:i], targets[i+1:]...)

		rank, evaluatedCards := five(targets...)
		if i == 0 || rank.Beats(best) {
			best = rank
			copy(bestCards, evaluatedCards)
		}
	}
	return best, bestCards
}

func seven(cards ...Card) (HandRank, []Card) {
	var best HandRank
	bestCards := make([]Card, 5)
	targets := make([]Card, len(cards))
	for i := 0; i < len(cards); i++ {
		copy(targets, cards)
		targets := append(targets[:i], targets[i+1:]...)

		rank, evaluatedCards := six(targets...)
		if i == 0 || rank.Beats(best) {
			best = rank
			copy(bestCards, evaluatedCards)
		}
	}
	return best, bestCards
}

func evaluateFive(cards []Card) HandRank {
	ranks := make([]int32, 5)
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })

	flush := cards[0].Suit == cards[1].Suit &&
		cards[0].Suit == cards[2].Suit &&
		cards[0].Suit == cards[3].Suit &&
		cards[0].Suit == cards[4].Suit

	straight, straightHigh := straightHighRank(ranks)

	if flush && straight {
		return HandRank{Category: StraightFlush, Tiebreaks: []int32{straightHigh}}
	}

	counts := map[int32]int32{}
	for _, r := range ranks {
		counts[r]++
	}
	type group struct {
		rank  int32
		count int32
	}
	groups := make([]group, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, group{rank: r, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	switch {
	case groups[0].count == 4:
		return HandRank{Category: FourOfAKind, Tiebreaks: []int32{groups[0].rank, groups[1].rank}}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandRank{Category: FullHouse, Tiebreaks: []int32{groups[0].rank, groups[1].rank}}
	case flush:
		return HandRank{Category: Flush, Tiebreaks: ranks}
	case straight:
		return HandRank{Category: Straight, Tiebreaks: []int32{straightHigh}}
	case groups[0].count == 3:
		return HandRank{Category: ThreeOfAKind, Tiebreaks: []int32{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandRank{Category: TwoPair, Tiebreaks: []int32{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2:
		return HandRank{Category: Pair, Tiebreaks: []int32{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank}}
	default:
		return HandRank{Category: HighCard, Tiebreaks: ranks}
	}
}

// straightHighRank expects ranks sorted descending. The wheel
// (A-2-3-4-5) is checked explicitly since a run search over descending
// ranks misses the low ace.
func straightHighRank(ranks []int32) (bool, int32) {
	run := true
	for i := 1; i < 5; i++ {
		if ranks[i] != ranks[i-1]-1 {
			run = false
			break
		}
	}
	if run {
		return true, ranks[0]
	}
	if ranks[0] == Ace && ranks[1] == 5 && ranks[2] == 4 && ranks[3] == 3 && ranks[4] == 2 {
		return true, 5
	}
	return false, 0
}
