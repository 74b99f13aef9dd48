package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a user's balance. Version backs optimistic locking on updates.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Version   int64           `json:"-"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type TransactionType string

const (
	TxDeposit  TransactionType = "deposit"
	TxWithdraw TransactionType = "withdraw"
	TxBet      TransactionType = "bet"
	TxPayout   TransactionType = "payout"
	TxRefund   TransactionType = "refund"
)

// Transaction is an immutable ledger entry recording a balance change.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	WalletID     uuid.UUID       `json:"wallet_id"`
	UserID       uuid.UUID       `json:"user_id"`
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Reference    string          `json:"reference,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TransactionFilter narrows ledger queries.
type TransactionFilter struct {
	UserID uuid.UUID
	Type   TransactionType
	Limit  int
	Offset int
}
