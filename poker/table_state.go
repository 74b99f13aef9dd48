package poker

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/cards"
	"github.com/jokeoa/goigaming/domain"
)

// seatInfo is the hub's view of one seated player across hands. PlayerID is
// the persistent player-row id used for stack persistence.
type seatInfo struct {
	PlayerID   uuid.UUID
	UserID     uuid.UUID
	Username   string
	SeatNumber int
	Stack      decimal.Decimal
	Status     domain.PlayerStatus
	Timeouts   int
}

// handState is everything that exists only while a hand is in play.
type handState struct {
	handID       uuid.UUID
	handNumber   int64
	deck         *cards.Deck
	seed         string
	seedHash     string
	nonce        int64
	holeCards    map[uuid.UUID][]cards.Card
	community    []cards.Card
	stage        domain.GameStage
	betting      BettingState
	contribs     map[uuid.UUID]decimal.Decimal
	allIn        map[uuid.UUID]bool
	folded       map[uuid.UUID]bool
	dealerSeat   int
	chipBaseline decimal.Decimal
	startedAt    time.Time
}

// tableState is the single-goroutine-owned state behind a TableHub.
type tableState struct {
	table      domain.PokerTable
	seats      []*seatInfo
	hand       *handState
	dealerSeat int
	handCount  int64
	frozen     bool
}

func newTableState(table domain.PokerTable) *tableState {
	return &tableState{table: table, dealerSeat: -1}
}

func (ts *tableState) seatByUser(userID uuid.UUID) *seatInfo {
	for _, s := range ts.seats {
		if s.UserID == userID {
			return s
		}
	}
	return nil
}

func (ts *tableState) activeSeats() []*seatInfo {
	var out []*seatInfo
	for _, s := range ts.seats {
		if s.Status != domain.PlayerStatusSittingOut && s.Stack.GreaterThan(decimal.Zero) {
			out = append(out, s)
		}
	}
	return out
}

// nextDealer advances the button to the next occupied seat.
func (ts *tableState) nextDealer() int {
	active := ts.activeSeats()
	if len(active) == 0 {
		return -1
	}
	best := active[0].SeatNumber
	for _, s := range active {
		if s.SeatNumber > ts.dealerSeat && (best <= ts.dealerSeat || s.SeatNumber < best) {
			best = s.SeatNumber
		}
	}
	if best <= ts.dealerSeat {
		// Wrapped around: lowest occupied seat.
		best = active[0].SeatNumber
		for _, s := range active {
			if s.SeatNumber < best {
				best = s.SeatNumber
			}
		}
	}
	return best
}

// snapshot builds the public table view. Hole cards never appear here.
func (ts *tableState) snapshot() domain.WSTableState {
	out := domain.WSTableState{
		TableID:    ts.table.ID,
		Stage:      domain.StageWaiting,
		Pot:        decimal.Zero.String(),
		CurrentBet: decimal.Zero.String(),
	}
	var turnUser uuid.UUID
	if ts.hand != nil {
		out.Stage = ts.hand.stage
		out.CommunityCards = ts.hand.community
		out.Pot = ts.hand.betting.Pot.String()
		out.CurrentBet = ts.hand.betting.CurrentBet.String()
		out.SeedHash = ts.hand.seedHash
		if ts.hand.betting.Turn >= 0 && ts.hand.betting.Turn < len(ts.hand.betting.Seats) {
			turnUser = ts.hand.betting.Seats[ts.hand.betting.Turn].PlayerID
		}
	}
	for _, s := range ts.seats {
		info := domain.WSPlayerInfo{
			UserID:     s.UserID,
			Username:   s.Username,
			SeatNumber: s.SeatNumber,
			Stack:      s.Stack.String(),
			BetAmount:  decimal.Zero.String(),
			Status:     s.Status,
			IsTurn:     s.UserID == turnUser,
			IsDealer:   s.SeatNumber == ts.dealerSeat,
		}
		if ts.hand != nil {
			for _, seat := range ts.hand.betting.Seats {
				if seat.PlayerID == s.UserID {
					info.BetAmount = seat.StreetBet.String()
					break
				}
			}
		}
		out.Players = append(out.Players, info)
	}
	return out
}
