// Package wallet manages user balances with an optimistic-locking write path:
// every balance change re-reads the wallet, bumps a version and retries on
// conflict, and records an immutable ledger entry in the same transaction.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
)

const maxRetries = 3

// Store is the persistence surface for wallets and their ledger.
type Store interface {
	Create(ctx context.Context, wallet domain.Wallet) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (domain.Wallet, error)
	// UpdateBalance succeeds only when the stored version matches; a
	// mismatch returns domain.ErrOptimisticLock.
	UpdateBalance(ctx context.Context, walletID uuid.UUID, balance decimal.Decimal, version int64) (domain.Wallet, error)
	RecordTransaction(ctx context.Context, tx domain.Transaction) error
	FindTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
}

// TxManager runs a function against a Store inside one database transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(Store) error) error
}

type Service struct {
	store  Store
	txm    TxManager
	logger *slog.Logger
}

func NewService(store Store, txm TxManager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, txm: txm, logger: logger}
}

// CreateWallet opens an empty wallet for a new user.
func (s *Service) CreateWallet(ctx context.Context, userID uuid.UUID, currency string) (domain.Wallet, error) {
	w := domain.Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		Balance:   decimal.Zero,
		Currency:  currency,
		Version:   1,
		UpdatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, w); err != nil {
		return domain.Wallet{}, fmt.Errorf("Service.CreateWallet: %w", err)
	}
	return w, nil
}

// GetWallet returns a user's wallet.
func (s *Service) GetWallet(ctx context.Context, userID uuid.UUID) (domain.Wallet, error) {
	w, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("Service.GetWallet: %w", err)
	}
	return w, nil
}

// Deposit credits the wallet.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, txType domain.TransactionType, reference string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("Service.Deposit: %w", domain.ErrInvalidAmount)
	}
	err := s.adjust(ctx, userID, amount, txType, reference)
	if err != nil {
		return fmt.Errorf("Service.Deposit: %w", err)
	}
	return nil
}

// Withdraw debits the wallet, failing on insufficient funds.
func (s *Service) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, txType domain.TransactionType, reference string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("Service.Withdraw: %w", domain.ErrInvalidAmount)
	}
	err := s.adjust(ctx, userID, amount.Neg(), txType, reference)
	if err != nil {
		return fmt.Errorf("Service.Withdraw: %w", err)
	}
	return nil
}

// adjust applies a signed balance delta with optimistic-lock retries.
func (s *Service) adjust(ctx context.Context, userID uuid.UUID, delta decimal.Decimal, txType domain.TransactionType, reference string) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		lastErr = s.txm.WithinTx(ctx, func(store Store) error {
			w, err := store.FindByUserID(ctx, userID)
			if err != nil {
				return err
			}
			balance := w.Balance.Add(delta)
			if balance.LessThan(decimal.Zero) {
				return domain.ErrInsufficientBalance
			}
			updated, err := store.UpdateBalance(ctx, w.ID, balance, w.Version)
			if err != nil {
				return err
			}
			return store.RecordTransaction(ctx, domain.Transaction{
				ID:           uuid.New(),
				WalletID:     w.ID,
				UserID:       userID,
				Type:         txType,
				Amount:       delta,
				BalanceAfter: updated.Balance,
				Reference:    reference,
				CreatedAt:    time.Now(),
			})
		})
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, domain.ErrOptimisticLock) {
			return lastErr
		}
		s.logger.Debug("balance update conflict, retrying",
			"user_id", userID, "attempt", attempt+1)
	}
	return lastErr
}

// Transactions lists ledger entries for a user.
func (s *Service) Transactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	txs, err := s.store.FindTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("Service.Transactions: %w", err)
	}
	return txs, nil
}
