package poker

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokeoa/goigaming/domain"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newSeats(stacks ...int64) []SeatState {
	out := make([]SeatState, len(stacks))
	for i, s := range stacks {
		out[i] = SeatState{PlayerID: uuid.New(), Stack: d(s)}
	}
	return out
}

func TestApplyRejectsOutOfTurn(t *testing.T) {
	seats := newSeats(100, 100, 100)
	st := NewBettingState(seats, d(10), decimal.Zero, 0)

	before := st
	_, err := st.Apply(seats[1].PlayerID, domain.ActionCheck, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrNotYourTurn)

	// A rejected action leaves the state untouched.
	assert.Equal(t, before.Pot, st.Pot)
	assert.Equal(t, before.Turn, st.Turn)
	assert.Equal(t, before.Seats, st.Seats)
}

func TestApplyRejectsUnknownPlayer(t *testing.T) {
	st := NewBettingState(newSeats(100, 100), d(10), decimal.Zero, 0)
	_, err := st.Apply(uuid.New(), domain.ActionFold, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrNotAtTable)
}

func TestCheckIllegalFacingBet(t *testing.T) {
	seats := newSeats(100, 100)
	st := NewBettingState(seats, d(10), decimal.Zero, 0)

	st, err := st.Apply(seats[0].PlayerID, domain.ActionBet, d(20))
	require.NoError(t, err)

	_, err = st.Apply(seats[1].PlayerID, domain.ActionCheck, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
}

func TestBetBelowBigBlind(t *testing.T) {
	seats := newSeats(100, 100)
	st := NewBettingState(seats, d(10), decimal.Zero, 0)

	_, err := st.Apply(seats[0].PlayerID, domain.ActionBet, d(5))
	assert.ErrorIs(t, err, domain.ErrBetTooSmall)
}

func TestRaiseBelowMinimum(t *testing.T) {
	seats := newSeats(100, 100)
	st := NewBettingState(seats, d(10), decimal.Zero, 0)

	st, err := st.Apply(seats[0].PlayerID, domain.ActionBet, d(20))
	require.NoError(t, err)

	// Current bet 20, min raise 20: raising to 30 is short.
	_, err = st.Apply(seats[1].PlayerID, domain.ActionRaise, d(30))
	assert.ErrorIs(t, err, domain.ErrRaiseTooSmall)

	// Raising to exactly 40 is the minimum legal raise.
	st2, err := st.Apply(seats[1].PlayerID, domain.ActionRaise, d(40))
	require.NoError(t, err)
	assert.True(t, st2.CurrentBet.Equal(d(40)))
	assert.True(t, st2.MinRaise.Equal(d(20)))
}

func TestCallAndStreetCompletion(t *testing.T) {
	seats := newSeats(100, 100)
	st := NewBettingState(seats, d(10), decimal.Zero, 0)

	st, err := st.Apply(seats[0].PlayerID, domain.ActionBet, d(20))
	require.NoError(t, err)
	assert.False(t, st.IsComplete())

	st, err = st.Apply(seats[1].PlayerID, domain.ActionCall, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, st.IsComplete())
	assert.True(t, st.Pot.Equal(d(40)))
	assert.True(t, st.Seats[1].Stack.Equal(d(80)))
}

func TestFoldEndsStreetHeadsUp(t *testing.T) {
	seats := newSeats(100, 100)
	st := NewBettingState(seats, d(10), decimal.Zero, 0)

	st, err := st.Apply(seats[0].PlayerID, domain.ActionBet, d(20))
	require.NoError(t, err)

	st, err = st.Apply(seats[1].PlayerID, domain.ActionFold, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, st.IsComplete())
	assert.Equal(t, 1, st.ActiveCount())
}

func TestShortAllInDoesNotReopenAction(t *testing.T) {
	// Seat 2 has only 25 behind. After seat 0 bets 20, seat 2's all-in to
	// 25 is a short raise and must not let seat 0 raise again.
	seats := newSeats(100, 100, 25)
	st := NewBettingState(seats, d(10), decimal.Zero, 0)

	st, err := st.Apply(seats[0].PlayerID, domain.ActionBet, d(20))
	require.NoError(t, err)

	st, err = st.Apply(seats[1].PlayerID, domain.ActionCall, decimal.Zero)
	require.NoError(t, err)

	st, err = st.Apply(seats[2].PlayerID, domain.ActionAllIn, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, st.CurrentBet.Equal(d(25)))
	assert.True(t, st.Seats[2].IsAllIn)

	// Action is not reopened: seat 0 may call or fold but not raise again.
	assert.True(t, st.Seats[0].HasActed)
	assert.True(t, st.Seats[1].HasActed)
	assert.False(t, st.IsComplete(), "callers still owe the short raise")

	_, err = st.Apply(seats[0].PlayerID, domain.ActionRaise, d(60))
	assert.ErrorIs(t, err, domain.ErrInvalidAction)

	st, err = st.Apply(seats[0].PlayerID, domain.ActionCall, decimal.Zero)
	require.NoError(t, err)
	st, err = st.Apply(seats[1].PlayerID, domain.ActionCall, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, st.IsComplete())
}

func TestFullAllInReopensAction(t *testing.T) {
	seats := newSeats(100, 100, 60)
	st := NewBettingState(seats, d(10), decimal.Zero, 0)

	st, err := st.Apply(seats[0].PlayerID, domain.ActionBet, d(20))
	require.NoError(t, err)
	st, err = st.Apply(seats[1].PlayerID, domain.ActionCall, decimal.Zero)
	require.NoError(t, err)

	// All-in to 60 raises by 40, a full raise, so earlier actors may act
	// again.
	st, err = st.Apply(seats[2].PlayerID, domain.ActionAllIn, decimal.Zero)
	require.NoError(t, err)
	assert.False(t, st.Seats[0].HasActed)
	assert.False(t, st.Seats[1].HasActed)
	assert.True(t, st.MinRaise.Equal(d(40)))
}

func TestShortCallGoesAllIn(t *testing.T) {
	seats := newSeats(100, 15)
	st := NewBettingState(seats, d(10), decimal.Zero, 0)

	st, err := st.Apply(seats[0].PlayerID, domain.ActionBet, d(50))
	require.NoError(t, err)

	st, err = st.Apply(seats[1].PlayerID, domain.ActionCall, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, st.Seats[1].IsAllIn)
	assert.True(t, st.Seats[1].Stack.IsZero())
	assert.True(t, st.Pot.Equal(d(65)))
}

func TestPostBlindKeepsOption(t *testing.T) {
	seats := newSeats(100, 100)
	st := NewBettingState(seats, d(10), decimal.Zero, 0)
	st = st.PostBlind(0, d(5))
	st = st.PostBlind(1, d(10))

	assert.True(t, st.CurrentBet.Equal(d(10)))
	assert.True(t, st.Pot.Equal(d(15)))
	assert.False(t, st.Seats[1].HasActed, "big blind keeps the option")

	// Small blind completes, big blind may still check.
	st, err := st.Apply(seats[0].PlayerID, domain.ActionCall, decimal.Zero)
	require.NoError(t, err)
	assert.False(t, st.IsComplete())

	st, err = st.Apply(seats[1].PlayerID, domain.ActionCheck, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, st.IsComplete())
}

// TestChipConservationRandomPlay drives random legal action sequences and
// asserts stacks plus pot stay constant throughout.
func TestChipConservationRandomPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 100; trial++ {
		seats := newSeats(200, 150, 300, 80)
		st := NewBettingState(seats, d(10), decimal.Zero, 0)
		total := st.ChipTotal()

		for step := 0; step < 40 && !st.IsComplete(); step++ {
			idx := st.Turn
			require.GreaterOrEqual(t, idx, 0)
			actor := st.Seats[idx].PlayerID

			actions := []domain.ActionType{
				domain.ActionFold, domain.ActionCheck, domain.ActionCall,
				domain.ActionBet, domain.ActionRaise, domain.ActionAllIn,
			}
			act := actions[rng.Intn(len(actions))]
			amount := decimal.Zero
			switch act {
			case domain.ActionBet:
				amount = d(int64(10 + rng.Intn(50)))
			case domain.ActionRaise:
				amount = st.CurrentBet.Add(d(int64(10 + rng.Intn(50))))
			}

			next, err := st.Apply(actor, act, amount)
			if err != nil {
				// Illegal draw; state must be unchanged.
				assert.True(t, st.ChipTotal().Equal(total))
				continue
			}
			st = next
			assert.True(t, st.ChipTotal().Equal(total),
				"trial %d step %d: chips leaked after %s", trial, step, act)
		}
	}
}
