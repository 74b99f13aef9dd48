package domain

import "errors"

// Validation and lookup errors shared across services.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
)

// Wallet errors.
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrOptimisticLock      = errors.New("wallet version conflict")
)

// Poker table errors.
var (
	ErrTableNotFound   = errors.New("table not found")
	ErrTableFull       = errors.New("table is full")
	ErrTableNotWaiting = errors.New("table is not accepting players")
	ErrTableFrozen     = errors.New("table is frozen")
	ErrAlreadySeated   = errors.New("player already seated at table")
	ErrSeatTaken       = errors.New("seat is taken")
	ErrNotAtTable      = errors.New("player is not at this table")
	ErrBuyInTooSmall   = errors.New("buy-in below table minimum")
	ErrBuyInTooLarge   = errors.New("buy-in above table maximum")
	ErrHandInProgress  = errors.New("hand in progress")
	ErrNoHandInPlay    = errors.New("no hand in play")
)

// Betting errors.
var (
	ErrNotYourTurn       = errors.New("not your turn to act")
	ErrInvalidAction     = errors.New("action not allowed in current state")
	ErrBetTooSmall       = errors.New("bet below minimum")
	ErrRaiseTooSmall     = errors.New("raise below minimum")
	ErrInsufficientChips = errors.New("insufficient chips")
	ErrPlayerFolded      = errors.New("player has folded")
)

// Roulette errors.
var (
	ErrRoundNotFound     = errors.New("roulette round not found")
	ErrBettingClosed     = errors.New("betting window closed")
	ErrInvalidBetType    = errors.New("invalid bet type")
	ErrInvalidBetValue   = errors.New("invalid bet value")
	ErrBetBelowMinimum   = errors.New("bet below table minimum")
	ErrBetAboveMaximum   = errors.New("bet above table maximum")
	ErrRoundAlreadySpun  = errors.New("round already settled")
	ErrSeedNotRevealed   = errors.New("seed not yet revealed")
)
