package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RouletteTableStatus string

const (
	RouletteTableActive RouletteTableStatus = "active"
	RouletteTableClosed RouletteTableStatus = "closed"
)

type RouletteTable struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	MinBet    decimal.Decimal     `json:"min_bet"`
	MaxBet    decimal.Decimal     `json:"max_bet"`
	Status    RouletteTableStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

type RouletteRoundStatus string

const (
	RoundStatusBetting RouletteRoundStatus = "betting"
	RoundStatusSettled RouletteRoundStatus = "settled"
)

// RouletteRound is one spin. SeedHash is published when the round opens;
// Seed stays empty in all reads until the round settles.
type RouletteRound struct {
	ID            uuid.UUID           `json:"id"`
	TableID       uuid.UUID           `json:"table_id"`
	RoundNumber   int64               `json:"round_number"`
	SeedHash      string              `json:"seed_hash"`
	Seed          string              `json:"seed,omitempty"`
	Result        *int                `json:"result,omitempty"`
	ResultColor   string              `json:"result_color,omitempty"`
	Status        RouletteRoundStatus `json:"status"`
	BettingEndsAt time.Time           `json:"betting_ends_at"`
	SettledAt     *time.Time          `json:"settled_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type RouletteBetType string

const (
	BetStraight RouletteBetType = "straight"
	BetSplit    RouletteBetType = "split"
	BetStreet   RouletteBetType = "street"
	BetCorner   RouletteBetType = "corner"
	BetLine     RouletteBetType = "line"
	BetRed      RouletteBetType = "red"
	BetBlack    RouletteBetType = "black"
	BetOdd      RouletteBetType = "odd"
	BetEven     RouletteBetType = "even"
	BetLow      RouletteBetType = "low"
	BetHigh     RouletteBetType = "high"
	BetDozen    RouletteBetType = "dozen"
	BetColumn   RouletteBetType = "column"
)

type RouletteBetStatus string

const (
	BetStatusPending RouletteBetStatus = "pending"
	BetStatusWon     RouletteBetStatus = "won"
	BetStatusLost    RouletteBetStatus = "lost"
)

// RouletteBet is a wager on a round. BetValue carries the numbers a straight,
// split, dozen or column bet targets; parity and color bets leave it empty.
type RouletteBet struct {
	ID        uuid.UUID         `json:"id"`
	RoundID   uuid.UUID         `json:"round_id"`
	UserID    uuid.UUID         `json:"user_id"`
	BetType   RouletteBetType   `json:"bet_type"`
	BetValue  string            `json:"bet_value,omitempty"`
	Amount    decimal.Decimal   `json:"amount"`
	Payout    decimal.Decimal   `json:"payout"`
	Status    RouletteBetStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}
