package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/cards"
)

// WSMessage is the envelope for every websocket frame. Seq is a per-table
// monotonic counter stamped by the broadcaster so clients can detect gaps
// and discard stale frames after a reconnect.
type WSMessage struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Server-to-client message types.
const (
	MsgTableState     = "table_state"
	MsgCardsDealt     = "cards_dealt"
	MsgPlayerActed    = "player_acted"
	MsgCommunityCards = "community_cards"
	MsgPotUpdated     = "pot_updated"
	MsgTurnChanged    = "turn_changed"
	MsgNewHand        = "new_hand"
	MsgHandResult     = "hand_result"
	MsgRoundCreated   = "round_created"
	MsgRoundSettled   = "round_settled"
	MsgError          = "error"
)

// Client-to-server message types.
const (
	MsgAction = "action"
	MsgPing   = "ping"
)

// NewWSMessage builds an envelope around any payload. Marshal failures are a
// programming error and surface as an error frame instead of a panic.
func NewWSMessage(msgType string, payload any) WSMessage {
	raw, err := json.Marshal(payload)
	if err != nil {
		return WSMessage{Type: MsgError, Payload: json.RawMessage(`{"message":"internal encoding error"}`)}
	}
	return WSMessage{Type: msgType, Payload: raw}
}

// WSPlayerInfo is a seat as seen by other players: hole cards are never
// included here.
type WSPlayerInfo struct {
	UserID     uuid.UUID    `json:"user_id"`
	Username   string       `json:"username"`
	SeatNumber int          `json:"seat_number"`
	Stack      string       `json:"stack"`
	BetAmount  string       `json:"bet_amount"`
	Status     PlayerStatus `json:"status"`
	IsTurn     bool         `json:"is_turn"`
	IsDealer   bool         `json:"is_dealer"`
}

// WSTableState is the full public snapshot of a table.
type WSTableState struct {
	TableID        uuid.UUID      `json:"table_id"`
	Stage          GameStage      `json:"stage"`
	Players        []WSPlayerInfo `json:"players"`
	CommunityCards []cards.Card   `json:"community_cards"`
	Pot            string         `json:"pot"`
	CurrentBet     string         `json:"current_bet"`
	SeedHash       string         `json:"seed_hash,omitempty"`
}

// WSCardsDealt carries a player's own hole cards and goes only to that player.
type WSCardsDealt struct {
	Cards []cards.Card `json:"cards"`
}

type WSPlayerActed struct {
	UserID uuid.UUID  `json:"user_id"`
	Action ActionType `json:"action"`
	Amount string     `json:"amount,omitempty"`
}

type WSCommunityCards struct {
	Stage GameStage    `json:"stage"`
	Cards []cards.Card `json:"cards"`
}

type WSPotUpdated struct {
	Pot string `json:"pot"`
}

type WSTurnChanged struct {
	UserID   uuid.UUID `json:"user_id"`
	Deadline time.Time `json:"deadline"`
}

type WSNewHand struct {
	HandNumber int64  `json:"hand_number"`
	SeedHash   string `json:"seed_hash"`
	DealerSeat int    `json:"dealer_seat"`
}

// WSHandResult reveals the seed so players can verify the shuffle.
type WSHandResult struct {
	Winners []WinnerInfo `json:"winners"`
	Seed    string       `json:"seed"`
	Nonce   int64        `json:"nonce"`
}

type WSError struct {
	Message string `json:"message"`
}

// WSRoundCreated announces a new roulette round with its seed commitment.
type WSRoundCreated struct {
	RoundID       uuid.UUID `json:"round_id"`
	RoundNumber   int64     `json:"round_number"`
	SeedHash      string    `json:"seed_hash"`
	BettingEndsAt time.Time `json:"betting_ends_at"`
}

// WSRoundSettled carries the result and the revealed seed.
type WSRoundSettled struct {
	RoundID     uuid.UUID `json:"round_id"`
	RoundNumber int64     `json:"round_number"`
	Result      int       `json:"result"`
	ResultColor string    `json:"result_color"`
	Seed        string    `json:"seed"`
}

// WSAction is the client request to act in a poker hand.
type WSAction struct {
	Action ActionType      `json:"action"`
	Amount decimal.Decimal `json:"amount,omitempty"`
}
