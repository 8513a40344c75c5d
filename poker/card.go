package poker

import (
	"fmt"
	"strings"
)

// Card is an immutable rank/suit pair. Ranks run 2-14 where 11-14 are
// Jack, Queen, King and Ace.
type Card struct {
	Rank int32
	Suit Suit
}

type Suit int32

const (
	Spade Suit = iota
	Heart
	Diamond
	Club
)

const (
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 14
)

var (
	strRanks       = "23456789TJQKA"
	charSuits      = "shdc"
	charRankToRank = map[byte]int32{}
	charSuitToSuit = map[byte]Suit{
		's': Spade,
		'h': Heart,
		'd': Diamond,
		'c': Club,
	}
	prettySuits = map[Suit]string{
		Spade:   "♠",
		Heart:   "❤",
		Diamond: "♦",
		Club:    "♣",
	}
)

func init() {
	for i := range strRanks {
		charRankToRank[strRanks[i]] = int32(i) + 2
	}
}

// NewCard parses the two character form, e.g. "As", "Td", "9c".
func NewCard(s string) Card {
	return Card{
		Rank: charRankToRank[s[0]],
		Suit: charSuitToSuit[s[1]],
	}
}

// NewCards parses a space separated list, e.g. "As Kd 2c".
func NewCards(s string) []Card {
	parts := strings.Fields(s)
	cards := make([]Card, len(parts))
	for i, part := range parts {
		cards[i] = NewCard(part)
	}
	return cards
}

func (c Card) String() string {
	return string(strRanks[c.Rank-2]) + string(charSuits[c.Suit])
}

func (c Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	if len(b) != 4 || b[0] != '"' || b[3] != '"' {
		return fmt.Errorf("invalid card %q", string(b))
	}
	rank, ok := charRankToRank[b[1]]
	if !ok {
		return fmt.Errorf("invalid card rank %q", string(b[1]))
	}
	suit, ok := charSuitToSuit[b[2]]
	if !ok {
		return fmt.Errorf("invalid card suit %q", string(b[2]))
	}
	c.Rank = rank
	c.Suit = suit
	return nil
}

func CardToString(card Card) string {
	return string(strRanks[card.Rank-2]) + prettySuits[card.Suit]
}

func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	fmt.Fprintf(&b, "[")
	for _, c := range cards {
		fmt.Fprintf(&b, " %s ", CardToString(c))
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}
