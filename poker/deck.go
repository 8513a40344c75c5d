package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"github.com/pkg/errors"
)

var fullDeck []Card

func init() {
	fullDeck = initializeFullCards()
}

// ErrDeckExhausted is returned when a draw asks for more cards than remain.
// It indicates a broken deal invariant and is fatal for the hand.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is an ordered sequence of the remaining undealt cards. A deck is
// owned by a single table for the duration of one hand and discarded when
// the hand ends. Cards are drawn from the end of the sequence.
type Deck struct {
	cards []Card
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

func NewDeck() *Deck {
	deck := &Deck{}
	deck.Shuffle()
	return deck
}

func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	return deck
}

// NewDeckFromCards rebuilds a deck around an explicit card order. Used by
// tests to deal known hands.
func NewDeckFromCards(cards []Card) *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(cards))
	copy(deck.cards, cards)
	return deck
}

func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)

	randGen := rand.New(newSeed())
	for i := range deck.cards {
		loc := int(randGen.Uint32() % 52)
		deck.cards[i], deck.cards[loc] = deck.cards[loc], deck.cards[i]
	}

	return deck
}

// Draw removes and returns n cards from the end of the deck.
func (deck *Deck) Draw(n int) ([]Card, error) {
	if n > len(deck.cards) {
		return nil, errors.Wrapf(ErrDeckExhausted, "wanted %d cards, %d remaining", n, len(deck.cards))
	}
	at := len(deck.cards) - n
	cards := make([]Card, n)
	copy(cards, deck.cards[at:])
	deck.cards = deck.cards[:at]
	return cards, nil
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func (deck *Deck) MarshalJSON() ([]byte, error) {
	var b []byte
	b = append(b, '[')
	for i, card := range deck.cards {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '"')
		b = append(b, card.String()...)
		b = append(b, '"')
	}
	b = append(b, ']')
	return b, nil
}

func (deck *Deck) UnmarshalJSON(b []byte) error {
	var cards []Card
	if err := jsonUnmarshalCards(b, &cards); err != nil {
		return err
	}
	deck.cards = cards
	return nil
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

func initializeFullCards() []Card {
	var cards []Card
	for i := range strRanks {
		for _, suit := range []Suit{Spade, Heart, Diamond, Club} {
			cards = append(cards, Card{Rank: int32(i) + 2, Suit: suit})
		}
	}
	return cards
}
