package fairness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokeoa/goigaming/cards"
)

func TestSeedCommitReveal(t *testing.T) {
	seed, err := GenerateServerSeed()
	require.NoError(t, err)
	assert.Len(t, seed, 64)

	hash := HashSeed(seed)
	assert.Len(t, hash, 64)
	assert.True(t, VerifySeed(seed, hash))
	assert.False(t, VerifySeed(seed+"0", hash))
	assert.False(t, VerifySeed(seed, HashSeed("other")))
}

func TestSeedsAreUnique(t *testing.T) {
	a, err := GenerateServerSeed()
	require.NoError(t, err)
	b, err := GenerateServerSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestShuffleDeterministic(t *testing.T) {
	a := Shuffle("server-seed", "client-seed", 7)
	b := Shuffle("server-seed", "client-seed", 7)
	assert.Equal(t, a, b)
}

func TestShuffleIsPermutation(t *testing.T) {
	deck := Shuffle("server-seed", "client-seed", 1)
	require.Len(t, deck, 52)

	seen := map[cards.Card]bool{}
	for _, c := range deck {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
}

func TestShuffleVariesWithInputs(t *testing.T) {
	base := Shuffle("server-seed", "client-seed", 1)
	assert.NotEqual(t, base, Shuffle("server-seed", "client-seed", 2))
	assert.NotEqual(t, base, Shuffle("server-seed", "other-client", 1))
	assert.NotEqual(t, base, Shuffle("other-server", "client-seed", 1))
}

func TestEntropyIntnBounds(t *testing.T) {
	stream := newEntropyStream("seed", "client", 0)
	for i := 0; i < 10000; i++ {
		v := stream.intn(52)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 52)
	}
}

func TestOutcomeDeterministicAndInRange(t *testing.T) {
	first := Outcome("seed", 1)
	assert.Equal(t, first, Outcome("seed", 1))

	for round := int64(0); round < 500; round++ {
		n := Outcome("seed", round)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, WheelSlots)
	}

	assert.NotEqual(t, Outcome("seed", 1), Outcome("seed", 2),
		"distinct rounds should not share an outcome for this seed")
}
