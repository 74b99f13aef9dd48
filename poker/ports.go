package poker

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
)

// Broadcaster pushes websocket frames to a table's subscribers. The hub calls
// it from its own goroutine; implementations must not block on slow clients.
type Broadcaster interface {
	BroadcastToTable(tableID uuid.UUID, msg domain.WSMessage)
	SendToPlayer(tableID, userID uuid.UUID, msg domain.WSMessage)
}

// NoopBroadcaster drops every frame. Used before a transport is attached and
// in engine tests.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastToTable(uuid.UUID, domain.WSMessage)        {}
func (NoopBroadcaster) SendToPlayer(uuid.UUID, uuid.UUID, domain.WSMessage) {}

// WalletService is the slice of the wallet the game engines need.
type WalletService interface {
	Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, txType domain.TransactionType, reference string) error
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, txType domain.TransactionType, reference string) error
}

// TableStore persists poker tables.
type TableStore interface {
	Create(ctx context.Context, table domain.PokerTable) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.PokerTable, error)
	FindActive(ctx context.Context) ([]domain.PokerTable, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TableStatus) error
}

// PlayerStore persists seats.
type PlayerStore interface {
	Create(ctx context.Context, player domain.PokerPlayer) error
	FindByTableAndUser(ctx context.Context, tableID, userID uuid.UUID) (domain.PokerPlayer, error)
	FindByTableID(ctx context.Context, tableID uuid.UUID) ([]domain.PokerPlayer, error)
	UpdateStack(ctx context.Context, id uuid.UUID, stack decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// HandArchive records completed hands for history and fairness audits.
type HandArchive interface {
	Save(ctx context.Context, hand domain.PokerHand) error
	FindByTable(ctx context.Context, tableID uuid.UUID, limit int) ([]domain.PokerHand, error)
}

// SnapshotStore caches the latest public table state for reads that miss the
// live hub.
type SnapshotStore interface {
	SaveTableState(ctx context.Context, tableID uuid.UUID, state domain.WSTableState) error
	GetTableState(ctx context.Context, tableID uuid.UUID) (domain.WSTableState, bool, error)
}
