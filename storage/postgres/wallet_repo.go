package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
	"github.com/jokeoa/goigaming/wallet"
)

// WalletRepo implements wallet.Store over any DBTX.
type WalletRepo struct {
	db DBTX
}

func NewWalletRepo(db DBTX) *WalletRepo {
	return &WalletRepo{db: db}
}

func (r *WalletRepo) Create(ctx context.Context, w domain.Wallet) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO wallets (id, user_id, balance, currency, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		w.ID, w.UserID, w.Balance, w.Currency, w.Version, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("WalletRepo.Create: %w", err)
	}
	return nil
}

func (r *WalletRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (domain.Wallet, error) {
	var w domain.Wallet
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, balance, currency, version, updated_at
		FROM wallets WHERE user_id = $1`, userID).Scan(
		&w.ID, &w.UserID, &w.Balance, &w.Currency, &w.Version, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Wallet{}, domain.ErrWalletNotFound
	}
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("WalletRepo.FindByUserID: %w", err)
	}
	return w, nil
}

// UpdateBalance applies the optimistic-lock write: the version in the WHERE
// clause must still match.
func (r *WalletRepo) UpdateBalance(ctx context.Context, walletID uuid.UUID, balance decimal.Decimal, version int64) (domain.Wallet, error) {
	var w domain.Wallet
	err := r.db.QueryRow(ctx, `
		UPDATE wallets
		SET balance = $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3
		RETURNING id, user_id, balance, currency, version, updated_at`,
		walletID, balance, version).Scan(
		&w.ID, &w.UserID, &w.Balance, &w.Currency, &w.Version, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Wallet{}, domain.ErrOptimisticLock
	}
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("WalletRepo.UpdateBalance: %w", err)
	}
	return w, nil
}

func (r *WalletRepo) RecordTransaction(ctx context.Context, tx domain.Transaction) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO transactions (id, wallet_id, user_id, type, amount, balance_after, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.WalletID, tx.UserID, tx.Type, tx.Amount, tx.BalanceAfter, tx.Reference, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("WalletRepo.RecordTransaction: %w", err)
	}
	return nil
}

func (r *WalletRepo) FindTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	sql := `
		SELECT id, wallet_id, user_id, type, amount, balance_after, reference, created_at
		FROM transactions WHERE user_id = $1`
	args := []any{filter.UserID}
	if filter.Type != "" {
		sql += ` AND type = $2`
		args = append(args, filter.Type)
	}
	sql += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("WalletRepo.FindTransactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.WalletID, &tx.UserID, &tx.Type,
			&tx.Amount, &tx.BalanceAfter, &tx.Reference, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("WalletRepo.FindTransactions: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// WalletTxManager implements wallet.TxManager by binding a fresh WalletRepo
// to each transaction.
type WalletTxManager struct {
	pool *pgxpool.Pool
}

func NewWalletTxManager(pool *pgxpool.Pool) *WalletTxManager {
	return &WalletTxManager{pool: pool}
}

func (m *WalletTxManager) WithinTx(ctx context.Context, fn func(wallet.Store) error) error {
	return RunInTx(ctx, m.pool, func(tx pgx.Tx) error {
		return fn(NewWalletRepo(tx))
	})
}
