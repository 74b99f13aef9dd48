package cards

import "errors"

// ErrDeckExhausted is returned when a draw asks for more cards than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck deals cards from a fixed, pre-shuffled order. It never reshuffles;
// callers that need a fresh order build a new deck.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck wraps an ordered slice of cards. The deck takes ownership of the
// slice; callers must not mutate it afterwards.
func NewDeck(ordered []Card) *Deck {
	return &Deck{cards: ordered}
}

// Draw removes and returns the next n cards.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n < 0 {
		return nil, errors.New("draw: negative count")
	}
	if d.next+n > len(d.cards) {
		return nil, ErrDeckExhausted
	}
	out := d.cards[d.next : d.next+n]
	d.next += n
	return out, nil
}

// DrawOne removes and returns the next card.
func (d *Deck) DrawOne() (Card, error) {
	cs, err := d.Draw(1)
	if err != nil {
		return Card{}, err
	}
	return cs[0], nil
}

// Burn discards the next card, as before dealing a street.
func (d *Deck) Burn() error {
	_, err := d.Draw(1)
	return err
}

// Remaining reports how many cards are left to draw.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
