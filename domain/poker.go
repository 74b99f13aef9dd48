package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/cards"
)

type TableStatus string

const (
	TableStatusWaiting TableStatus = "waiting"
	TableStatusPlaying TableStatus = "playing"
	TableStatusFrozen  TableStatus = "frozen"
	TableStatusClosed  TableStatus = "closed"
)

// PokerTable is the persistent table record. Live hand state lives in the
// table hub, not here.
type PokerTable struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	SmallBlind decimal.Decimal `json:"small_blind"`
	BigBlind   decimal.Decimal `json:"big_blind"`
	MinBuyIn   decimal.Decimal `json:"min_buy_in"`
	MaxBuyIn   decimal.Decimal `json:"max_buy_in"`
	MaxPlayers int             `json:"max_players"`
	Status     TableStatus     `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

type PlayerStatus string

const (
	PlayerStatusActive     PlayerStatus = "active"
	PlayerStatusFolded     PlayerStatus = "folded"
	PlayerStatusAllIn      PlayerStatus = "all_in"
	PlayerStatusSittingOut PlayerStatus = "sitting_out"
)

// PokerPlayer is a seat at a table.
type PokerPlayer struct {
	ID         uuid.UUID       `json:"id"`
	TableID    uuid.UUID       `json:"table_id"`
	UserID     uuid.UUID       `json:"user_id"`
	Username   string          `json:"username"`
	SeatNumber int             `json:"seat_number"`
	Stack      decimal.Decimal `json:"stack"`
	Status     PlayerStatus    `json:"status"`
	JoinedAt   time.Time       `json:"joined_at"`
}

type GameStage string

const (
	StageWaiting  GameStage = "waiting"
	StagePreflop  GameStage = "preflop"
	StageFlop     GameStage = "flop"
	StageTurn     GameStage = "turn"
	StageRiver    GameStage = "river"
	StageShowdown GameStage = "showdown"
)

type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
	ActionAllIn ActionType = "all_in"
)

// Pot is a main or side pot with the players eligible to win it.
type Pot struct {
	Amount   decimal.Decimal `json:"amount"`
	Eligible []uuid.UUID     `json:"eligible"`
}

// WinnerInfo records one payout at showdown.
type WinnerInfo struct {
	PlayerID uuid.UUID       `json:"player_id"`
	Amount   decimal.Decimal `json:"amount"`
	HandName string          `json:"hand_name,omitempty"`
}

// HandResult is the outcome of a completed hand.
type HandResult struct {
	Winners []WinnerInfo `json:"winners"`
}

// PokerHand is the archived record of a completed hand.
type PokerHand struct {
	ID             uuid.UUID       `json:"id"`
	TableID        uuid.UUID       `json:"table_id"`
	HandNumber     int64           `json:"hand_number"`
	CommunityCards []cards.Card    `json:"community_cards"`
	Pot            decimal.Decimal `json:"pot"`
	Winners        []WinnerInfo    `json:"winners"`
	SeedHash       string          `json:"seed_hash"`
	Seed           string          `json:"seed,omitempty"`
	StartedAt      time.Time       `json:"started_at"`
	EndedAt        time.Time       `json:"ended_at"`
}
