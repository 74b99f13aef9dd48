package roulette

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
)

// TableStore persists roulette tables.
type TableStore interface {
	Create(ctx context.Context, table domain.RouletteTable) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.RouletteTable, error)
	FindActive(ctx context.Context) ([]domain.RouletteTable, error)
}

// RoundStore persists rounds. Seed is stored only at settlement; until then
// the server keeps it in memory and publishes just the hash.
type RoundStore interface {
	Create(ctx context.Context, round domain.RouletteRound) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.RouletteRound, error)
	FindCurrent(ctx context.Context, tableID uuid.UUID) (domain.RouletteRound, error)
	LatestRoundNumber(ctx context.Context, tableID uuid.UUID) (int64, error)
	Settle(ctx context.Context, id uuid.UUID, result int, color, seed string, settledAt time.Time) error
	FindSettled(ctx context.Context, tableID uuid.UUID, limit int) ([]domain.RouletteRound, error)
}

// BetStore persists bets. Create must refuse the insert once the round has
// left the betting status, returning domain.ErrBettingClosed, so a bet can
// never land after settlement snapshots the round's bets.
type BetStore interface {
	Create(ctx context.Context, bet domain.RouletteBet) error
	FindByRound(ctx context.Context, roundID uuid.UUID) ([]domain.RouletteBet, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.RouletteBet, error)
	Settle(ctx context.Context, id uuid.UUID, payout decimal.Decimal, status domain.RouletteBetStatus) error
}

// WalletService is the slice of the wallet the engine needs.
type WalletService interface {
	Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, txType domain.TransactionType, reference string) error
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, txType domain.TransactionType, reference string) error
}

// Broadcaster pushes round lifecycle frames to a table's subscribers.
type Broadcaster interface {
	BroadcastToTable(tableID uuid.UUID, msg domain.WSMessage)
}
