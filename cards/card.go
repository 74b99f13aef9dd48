package cards

import (
	"fmt"
	"strings"
)

type Suit string

const (
	Spades   Suit = "s"
	Hearts   Suit = "h"
	Diamonds Suit = "d"
	Clubs    Suit = "c"
)

type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "T"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

var ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
var suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// rankValues maps a rank to its ordering value, deuce low, ace high.
var rankValues = map[Rank]int{
	Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8,
	Nine: 9, Ten: 10, Jack: 11, Queen: 12, King: 13, Ace: 14,
}

// Card is a playing card. The zero value is not a valid card.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// Value returns the numeric rank of the card, 2 through 14 with ace high.
func (c Card) Value() int {
	return rankValues[c.Rank]
}

// String renders the card in two-character shorthand, e.g. "As" or "Td".
func (c Card) String() string {
	return string(c.Rank) + string(c.Suit)
}

// ParseCard parses a two-character shorthand like "Kh" into a Card.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("parse card %q: want 2 characters", s)
	}
	r := Rank(strings.ToUpper(s[:1]))
	if _, ok := rankValues[r]; !ok {
		return Card{}, fmt.Errorf("parse card %q: unknown rank", s)
	}
	st := Suit(strings.ToLower(s[1:]))
	switch st {
	case Spades, Hearts, Diamonds, Clubs:
	default:
		return Card{}, fmt.Errorf("parse card %q: unknown suit", s)
	}
	return Card{Rank: r, Suit: st}, nil
}

// ParseCards parses a space-separated list of card shorthands.
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// CardsString renders cards as space-separated shorthand.
func CardsString(cs []Card) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// FullDeck returns the 52 distinct cards in a fixed canonical order:
// suits in s, h, d, c order, ranks ascending within each suit.
func FullDeck() []Card {
	out := make([]Card, 0, 52)
	for _, st := range suits {
		for _, r := range ranks {
			out = append(out, Card{Rank: r, Suit: st})
		}
	}
	return out
}
