package roulette

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
	"github.com/jokeoa/goigaming/fairness"
)

// Service is the player-facing API: placing bets and reading tables, rounds
// and history. Round lifecycle belongs to the Engine.
type Service struct {
	tables TableStore
	rounds RoundStore
	bets   BetStore
	wallet WalletService
	logger *slog.Logger
}

func NewService(tables TableStore, rounds RoundStore, bets BetStore, wallet WalletService, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{tables: tables, rounds: rounds, bets: bets, wallet: wallet, logger: logger}
}

// CreateTable registers a new roulette table. The engine must be pointed at
// it separately to start spinning rounds.
func (s *Service) CreateTable(ctx context.Context, name string, minBet, maxBet decimal.Decimal) (domain.RouletteTable, error) {
	if name == "" {
		return domain.RouletteTable{}, fmt.Errorf("Service.CreateTable: table name required: %w", domain.ErrInvalidInput)
	}
	if minBet.LessThanOrEqual(decimal.Zero) || maxBet.LessThan(minBet) {
		return domain.RouletteTable{}, fmt.Errorf("Service.CreateTable: bet limits invalid: %w", domain.ErrInvalidInput)
	}
	table := domain.RouletteTable{
		ID:        uuid.New(),
		Name:      name,
		MinBet:    minBet,
		MaxBet:    maxBet,
		Status:    domain.RouletteTableActive,
		CreatedAt: time.Now(),
	}
	if err := s.tables.Create(ctx, table); err != nil {
		return domain.RouletteTable{}, fmt.Errorf("Service.CreateTable: %w", err)
	}
	s.logger.Info("roulette table created", "table_id", table.ID, "name", table.Name)
	return table, nil
}

func (s *Service) ListTables(ctx context.Context) ([]domain.RouletteTable, error) {
	tables, err := s.tables.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("Service.ListTables: %w", err)
	}
	return tables, nil
}

// CurrentRound returns the open round for a table, seed withheld.
func (s *Service) CurrentRound(ctx context.Context, tableID uuid.UUID) (domain.RouletteRound, error) {
	round, err := s.rounds.FindCurrent(ctx, tableID)
	if err != nil {
		return domain.RouletteRound{}, fmt.Errorf("Service.CurrentRound: %w", err)
	}
	round.Seed = ""
	return round, nil
}

// RoundHistory lists settled rounds, seeds included for verification.
func (s *Service) RoundHistory(ctx context.Context, tableID uuid.UUID, limit int) ([]domain.RouletteRound, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rounds, err := s.rounds.FindSettled(ctx, tableID, limit)
	if err != nil {
		return nil, fmt.Errorf("Service.RoundHistory: %w", err)
	}
	return rounds, nil
}

// PlaceBet validates, debits and records a bet on the table's open round.
func (s *Service) PlaceBet(ctx context.Context, tableID, userID uuid.UUID, betType domain.RouletteBetType, betValue string, amount decimal.Decimal) (domain.RouletteBet, error) {
	table, err := s.tables.FindByID(ctx, tableID)
	if err != nil {
		return domain.RouletteBet{}, fmt.Errorf("Service.PlaceBet: %w", err)
	}
	if err := ValidateBet(betType, betValue); err != nil {
		return domain.RouletteBet{}, fmt.Errorf("Service.PlaceBet: %w", err)
	}
	if amount.LessThan(table.MinBet) {
		return domain.RouletteBet{}, fmt.Errorf("Service.PlaceBet: %w", domain.ErrBetBelowMinimum)
	}
	if amount.GreaterThan(table.MaxBet) {
		return domain.RouletteBet{}, fmt.Errorf("Service.PlaceBet: %w", domain.ErrBetAboveMaximum)
	}

	round, err := s.rounds.FindCurrent(ctx, tableID)
	if err != nil {
		return domain.RouletteBet{}, fmt.Errorf("Service.PlaceBet: %w", domain.ErrRoundNotFound)
	}
	if round.Status != domain.RoundStatusBetting || time.Now().After(round.BettingEndsAt) {
		return domain.RouletteBet{}, fmt.Errorf("Service.PlaceBet: %w", domain.ErrBettingClosed)
	}

	ref := "roulette:" + round.ID.String()
	if err := s.wallet.Withdraw(ctx, userID, amount, domain.TxBet, ref); err != nil {
		return domain.RouletteBet{}, fmt.Errorf("Service.PlaceBet: %w", err)
	}

	bet := domain.RouletteBet{
		ID:        uuid.New(),
		RoundID:   round.ID,
		UserID:    userID,
		BetType:   betType,
		BetValue:  betValue,
		Amount:    amount,
		Payout:    decimal.Zero,
		Status:    domain.BetStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.bets.Create(ctx, bet); err != nil {
		if derr := s.wallet.Deposit(ctx, userID, amount, domain.TxRefund, ref); derr != nil {
			s.logger.Error("refund failed", "error", derr, "user_id", userID)
		}
		return domain.RouletteBet{}, fmt.Errorf("Service.PlaceBet: %w", err)
	}
	s.logger.Info("bet placed",
		"round_id", round.ID, "user_id", userID, "type", betType, "amount", amount)
	return bet, nil
}

// UserBets lists a user's recent bets.
func (s *Service) UserBets(ctx context.Context, userID uuid.UUID, limit int) ([]domain.RouletteBet, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	bets, err := s.bets.FindByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("Service.UserBets: %w", err)
	}
	return bets, nil
}

// VerifyRound recomputes the fairness proof for a settled round.
func (s *Service) VerifyRound(ctx context.Context, roundID uuid.UUID) (bool, error) {
	round, err := s.rounds.FindByID(ctx, roundID)
	if err != nil {
		return false, fmt.Errorf("Service.VerifyRound: %w", err)
	}
	if round.Status != domain.RoundStatusSettled || round.Seed == "" || round.Result == nil {
		return false, fmt.Errorf("Service.VerifyRound: %w", domain.ErrSeedNotRevealed)
	}
	if !fairness.VerifySeed(round.Seed, round.SeedHash) {
		return false, nil
	}
	return fairness.Outcome(round.Seed, round.RoundNumber) == *round.Result, nil
}
