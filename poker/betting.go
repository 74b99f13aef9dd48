package poker

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
)

// SeatState is one player's betting position within a street.
type SeatState struct {
	PlayerID  uuid.UUID
	Stack     decimal.Decimal
	StreetBet decimal.Decimal
	HasActed  bool
	IsAllIn   bool
	IsFolded  bool
}

// BettingState is the state of one betting street. Methods return a new
// value and never mutate the receiver, so a rejected action leaves the
// caller's state untouched.
type BettingState struct {
	Seats      []SeatState
	CurrentBet decimal.Decimal
	MinRaise   decimal.Decimal
	Pot        decimal.Decimal
	Turn       int
	BigBlind   decimal.Decimal
}

// NewBettingState opens a street. Turn starts at firstToAct. MinRaise resets
// to the big blind each street.
func NewBettingState(seats []SeatState, bigBlind, pot decimal.Decimal, firstToAct int) BettingState {
	return BettingState{
		Seats:      seats,
		CurrentBet: decimal.Zero,
		MinRaise:   bigBlind,
		Pot:        pot,
		Turn:       firstToAct,
		BigBlind:   bigBlind,
	}
}

func (s BettingState) clone() BettingState {
	out := s
	out.Seats = make([]SeatState, len(s.Seats))
	copy(out.Seats, s.Seats)
	return out
}

func (s BettingState) seatIndex(playerID uuid.UUID) int {
	for i, p := range s.Seats {
		if p.PlayerID == playerID {
			return i
		}
	}
	return -1
}

// Apply validates and applies one action, returning the resulting state. Any
// error leaves the input state usable as-is.
func (s BettingState) Apply(playerID uuid.UUID, action domain.ActionType, amount decimal.Decimal) (BettingState, error) {
	idx := s.seatIndex(playerID)
	if idx < 0 {
		return s, domain.ErrNotAtTable
	}
	if idx != s.Turn {
		return s, domain.ErrNotYourTurn
	}
	seat := s.Seats[idx]
	if seat.IsFolded {
		return s, domain.ErrPlayerFolded
	}
	if seat.IsAllIn {
		return s, domain.ErrInvalidAction
	}

	next := s.clone()
	var err error
	switch action {
	case domain.ActionFold:
		err = next.fold(idx)
	case domain.ActionCheck:
		err = next.check(idx)
	case domain.ActionCall:
		err = next.call(idx)
	case domain.ActionBet:
		err = next.bet(idx, amount)
	case domain.ActionRaise:
		err = next.raise(idx, amount)
	case domain.ActionAllIn:
		err = next.allIn(idx)
	default:
		err = domain.ErrInvalidAction
	}
	if err != nil {
		return s, err
	}
	next.Turn = next.nextToAct(idx)
	return next, nil
}

func (s *BettingState) fold(idx int) error {
	s.Seats[idx].IsFolded = true
	s.Seats[idx].HasActed = true
	return nil
}

func (s *BettingState) check(idx int) error {
	if s.Seats[idx].StreetBet.LessThan(s.CurrentBet) {
		return domain.ErrInvalidAction
	}
	s.Seats[idx].HasActed = true
	return nil
}

func (s *BettingState) call(idx int) error {
	owed := s.CurrentBet.Sub(s.Seats[idx].StreetBet)
	if owed.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAction
	}
	if owed.GreaterThanOrEqual(s.Seats[idx].Stack) {
		// Short call puts the player all-in for less.
		return s.allIn(idx)
	}
	s.commit(idx, owed)
	s.Seats[idx].HasActed = true
	return nil
}

func (s *BettingState) bet(idx int, amount decimal.Decimal) error {
	if s.CurrentBet.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidAction
	}
	if amount.LessThan(s.BigBlind) {
		return domain.ErrBetTooSmall
	}
	if amount.GreaterThan(s.Seats[idx].Stack) {
		return domain.ErrInsufficientChips
	}
	s.commit(idx, amount)
	s.CurrentBet = amount
	s.MinRaise = amount
	s.Seats[idx].HasActed = true
	s.reopenAction(idx)
	return nil
}

// raise takes amount as the total street bet the raiser moves to, not the
// increment.
func (s *BettingState) raise(idx int, amount decimal.Decimal) error {
	if s.CurrentBet.IsZero() {
		return domain.ErrInvalidAction
	}
	// HasActed still set means action was not reopened for this seat, as
	// after a short all-in; only calling or folding remains.
	if s.Seats[idx].HasActed {
		return domain.ErrInvalidAction
	}
	raiseBy := amount.Sub(s.CurrentBet)
	if raiseBy.LessThan(s.MinRaise) {
		return domain.ErrRaiseTooSmall
	}
	owed := amount.Sub(s.Seats[idx].StreetBet)
	if owed.GreaterThan(s.Seats[idx].Stack) {
		return domain.ErrInsufficientChips
	}
	s.commit(idx, owed)
	s.CurrentBet = amount
	s.MinRaise = raiseBy
	s.Seats[idx].HasActed = true
	s.reopenAction(idx)
	return nil
}

func (s *BettingState) allIn(idx int) error {
	stack := s.Seats[idx].Stack
	if stack.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInsufficientChips
	}
	total := s.Seats[idx].StreetBet.Add(stack)
	s.commit(idx, stack)
	s.Seats[idx].IsAllIn = true
	s.Seats[idx].HasActed = true
	if total.GreaterThan(s.CurrentBet) {
		raiseBy := total.Sub(s.CurrentBet)
		s.CurrentBet = total
		// A short all-in raise does not reopen action for players who
		// already acted; only a full raise does.
		if raiseBy.GreaterThanOrEqual(s.MinRaise) {
			s.MinRaise = raiseBy
			s.reopenAction(idx)
		}
	}
	return nil
}

// commit moves chips from a seat's stack into its street bet and the pot.
func (s *BettingState) commit(idx int, amount decimal.Decimal) {
	s.Seats[idx].Stack = s.Seats[idx].Stack.Sub(amount)
	s.Seats[idx].StreetBet = s.Seats[idx].StreetBet.Add(amount)
	s.Pot = s.Pot.Add(amount)
}

// reopenAction clears HasActed for everyone still able to act except the
// aggressor.
func (s *BettingState) reopenAction(aggressor int) {
	for i := range s.Seats {
		if i == aggressor || s.Seats[i].IsFolded || s.Seats[i].IsAllIn {
			continue
		}
		s.Seats[i].HasActed = false
	}
}

// PostBlind commits a forced bet without marking the seat as having acted,
// so the blinds still get their option preflop.
func (s BettingState) PostBlind(idx int, amount decimal.Decimal) BettingState {
	next := s.clone()
	if amount.GreaterThanOrEqual(next.Seats[idx].Stack) {
		amount = next.Seats[idx].Stack
		next.Seats[idx].IsAllIn = true
	}
	next.commit(idx, amount)
	if next.Seats[idx].StreetBet.GreaterThan(next.CurrentBet) {
		next.CurrentBet = next.Seats[idx].StreetBet
	}
	return next
}

// nextToAct finds the next seat after from that still has a decision.
// Returns -1 when nobody is left to act.
func (s BettingState) nextToAct(from int) int {
	n := len(s.Seats)
	for step := 1; step <= n; step++ {
		i := (from + step) % n
		seat := s.Seats[i]
		if seat.IsFolded || seat.IsAllIn {
			continue
		}
		if !seat.HasActed || seat.StreetBet.LessThan(s.CurrentBet) {
			return i
		}
	}
	return -1
}

// IsComplete reports whether the street is over: one player left, or every
// unfolded player is all-in or has matched the current bet after acting.
func (s BettingState) IsComplete() bool {
	if s.ActiveCount() <= 1 {
		return true
	}
	for _, seat := range s.Seats {
		if seat.IsFolded || seat.IsAllIn {
			continue
		}
		if !seat.HasActed || seat.StreetBet.LessThan(s.CurrentBet) {
			return false
		}
	}
	return true
}

// ActiveCount counts unfolded players, all-in included.
func (s BettingState) ActiveCount() int {
	n := 0
	for _, seat := range s.Seats {
		if !seat.IsFolded {
			n++
		}
	}
	return n
}

// CanAct counts players who still have chips and live hands.
func (s BettingState) CanAct() int {
	n := 0
	for _, seat := range s.Seats {
		if !seat.IsFolded && !seat.IsAllIn {
			n++
		}
	}
	return n
}

// ChipTotal sums stacks plus the pot. It must be constant across every
// action within a hand.
func (s BettingState) ChipTotal() decimal.Decimal {
	total := s.Pot
	for _, seat := range s.Seats {
		total = total.Add(seat.Stack)
	}
	return total
}

// ResetForStreet clears street bets and HasActed for the next street.
func (s BettingState) ResetForStreet(firstToAct int) BettingState {
	next := s.clone()
	for i := range next.Seats {
		next.Seats[i].StreetBet = decimal.Zero
		next.Seats[i].HasActed = false
	}
	next.CurrentBet = decimal.Zero
	next.MinRaise = next.BigBlind
	next.Turn = firstToAct
	return next
}
