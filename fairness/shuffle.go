package fairness

import "github.com/jokeoa/goigaming/cards"

// Shuffle returns a full 52-card deck in the order determined entirely by the
// seed triple. Anyone holding the revealed server seed can recompute the exact
// deal with a Fisher-Yates pass over the canonical deck order.
func Shuffle(serverSeed, clientSeed string, nonce int64) []cards.Card {
	deck := cards.FullDeck()
	stream := newEntropyStream(serverSeed, clientSeed, nonce)
	for i := len(deck) - 1; i > 0; i-- {
		j := stream.intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}
