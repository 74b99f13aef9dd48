package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckDraw(t *testing.T) {
	d := NewDeck(FullDeck())
	assert.Equal(t, 52, d.Remaining())

	first, err := d.Draw(2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 50, d.Remaining())

	// Draws never repeat cards.
	second, err := d.Draw(2)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestDeckExhausted(t *testing.T) {
	d := NewDeck(FullDeck())
	_, err := d.Draw(52)
	require.NoError(t, err)

	_, err = d.DrawOne()
	assert.ErrorIs(t, err, ErrDeckExhausted)

	// A failed draw does not corrupt the deck.
	assert.Equal(t, 0, d.Remaining())
}

func TestDeckBurn(t *testing.T) {
	d := NewDeck(FullDeck())
	require.NoError(t, d.Burn())
	assert.Equal(t, 51, d.Remaining())
}
