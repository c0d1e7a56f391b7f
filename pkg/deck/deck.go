package deck

import (
	"errors"

	"github.com/sonnh58/lieng.wtf/internal/rng"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck represents a playing deck
type Deck struct {
	Cards []*Card `json:"cards"`
	rng   rng.Generator
}

// New returns a new deck of cards backed by a cryptographically strong
// random number generator.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	d := &Deck{
		rng: rng.Crypto{},
	}

	d.buildDeck()
	return d
}

// SetGenerator overrides the random number generator.
// This should only be used by tests that need a deterministic shuffle.
func (d *Deck) SetGenerator(g rng.Generator) {
	d.rng = g
}

func (d *Deck) buildDeck() {
	cards := make([]*Card, 0, 52)
	for _, suit := range []Suit{Spades, Clubs, Hearts, Diamonds} {
		for rank := 1; rank <= 13; rank++ {
			cards = append(cards, &Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	d.Cards = cards
}

// Shuffle performs a Fisher-Yates shuffle over a freshly built deck
func (d *Deck) Shuffle() {
	// always shuffle from a full deck so a partially drawn deck
	// cannot leak its previous order
	if len(d.Cards) != 52 {
		d.buildDeck()
	}

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned along with a nil card.
func (d *Deck) Draw() (*Card, error) {
	if len(d.Cards) <= 0 {
		return nil, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// Deal draws count cards from the top of the deck
func (d *Deck) Deal(count int) ([]*Card, error) {
	if !d.CanDraw(count) {
		return nil, ErrEndOfDeck
	}

	cards := make([]*Card, count)
	for i := 0; i < count; i++ {
		card, err := d.Draw()
		if err != nil {
			return nil, err
		}

		cards[i] = card
	}

	return cards, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}
