package poker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
)

// Service is the application-level API over poker tables. It owns
// persistence and wallet movements; all live play goes through the hubs.
type Service struct {
	tables    TableStore
	players   PlayerStore
	wallet    WalletService
	hubs      *HubManager
	snapshots SnapshotStore
	hands     HandArchive
	logger    *slog.Logger
}

func NewService(tables TableStore, players PlayerStore, wallet WalletService, hubs *HubManager, snapshots SnapshotStore, hands HandArchive, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tables:    tables,
		players:   players,
		wallet:    wallet,
		hubs:      hubs,
		snapshots: snapshots,
		hands:     hands,
		logger:    logger,
	}
}

// CreateTableParams are the operator-supplied table settings.
type CreateTableParams struct {
	Name       string
	SmallBlind decimal.Decimal
	BigBlind   decimal.Decimal
	MinBuyIn   decimal.Decimal
	MaxBuyIn   decimal.Decimal
	MaxPlayers int
}

func (p CreateTableParams) validate() error {
	if p.Name == "" {
		return fmt.Errorf("table name required: %w", domain.ErrInvalidInput)
	}
	if p.SmallBlind.LessThanOrEqual(decimal.Zero) || p.BigBlind.LessThanOrEqual(p.SmallBlind) {
		return fmt.Errorf("blinds must satisfy 0 < small < big: %w", domain.ErrInvalidInput)
	}
	if p.MinBuyIn.LessThan(p.BigBlind) || p.MaxBuyIn.LessThan(p.MinBuyIn) {
		return fmt.Errorf("buy-in range invalid: %w", domain.ErrInvalidInput)
	}
	if p.MaxPlayers < 2 || p.MaxPlayers > 10 {
		return fmt.Errorf("max players must be 2 to 10: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (s *Service) CreateTable(ctx context.Context, params CreateTableParams) (domain.PokerTable, error) {
	if err := params.validate(); err != nil {
		return domain.PokerTable{}, fmt.Errorf("Service.CreateTable: %w", err)
	}
	table := domain.PokerTable{
		ID:         uuid.New(),
		Name:       params.Name,
		SmallBlind: params.SmallBlind,
		BigBlind:   params.BigBlind,
		MinBuyIn:   params.MinBuyIn,
		MaxBuyIn:   params.MaxBuyIn,
		MaxPlayers: params.MaxPlayers,
		Status:     domain.TableStatusWaiting,
		CreatedAt:  time.Now(),
	}
	if err := s.tables.Create(ctx, table); err != nil {
		return domain.PokerTable{}, fmt.Errorf("Service.CreateTable: %w", err)
	}
	s.logger.Info("table created", "table_id", table.ID, "name", table.Name)
	return table, nil
}

func (s *Service) ListTables(ctx context.Context) ([]domain.PokerTable, error) {
	tables, err := s.tables.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("Service.ListTables: %w", err)
	}
	return tables, nil
}

func (s *Service) GetTable(ctx context.Context, tableID uuid.UUID) (domain.PokerTable, error) {
	table, err := s.tables.FindByID(ctx, tableID)
	if err != nil {
		return domain.PokerTable{}, fmt.Errorf("Service.GetTable: %w", err)
	}
	return table, nil
}

// JoinTable debits the buy-in, persists the seat and hands the player to the
// hub. Any failure after the debit refunds it. A negative seatNumber asks for
// the lowest free seat.
func (s *Service) JoinTable(ctx context.Context, tableID, userID uuid.UUID, username string, seatNumber int, buyIn decimal.Decimal) (domain.PokerPlayer, error) {
	table, err := s.tables.FindByID(ctx, tableID)
	if err != nil {
		return domain.PokerPlayer{}, fmt.Errorf("Service.JoinTable: %w", err)
	}
	if table.Status == domain.TableStatusFrozen || table.Status == domain.TableStatusClosed {
		return domain.PokerPlayer{}, fmt.Errorf("Service.JoinTable: %w", domain.ErrTableNotWaiting)
	}
	if buyIn.LessThan(table.MinBuyIn) {
		return domain.PokerPlayer{}, fmt.Errorf("Service.JoinTable: %w", domain.ErrBuyInTooSmall)
	}
	if buyIn.GreaterThan(table.MaxBuyIn) {
		return domain.PokerPlayer{}, fmt.Errorf("Service.JoinTable: %w", domain.ErrBuyInTooLarge)
	}
	if _, err := s.players.FindByTableAndUser(ctx, tableID, userID); err == nil {
		return domain.PokerPlayer{}, fmt.Errorf("Service.JoinTable: %w", domain.ErrAlreadySeated)
	}

	seated, err := s.players.FindByTableID(ctx, tableID)
	if err != nil {
		return domain.PokerPlayer{}, fmt.Errorf("Service.JoinTable: %w", err)
	}
	if len(seated) >= table.MaxPlayers {
		return domain.PokerPlayer{}, fmt.Errorf("Service.JoinTable: %w", domain.ErrTableFull)
	}
	seat, err := pickSeat(seated, seatNumber, table.MaxPlayers)
	if err != nil {
		return domain.PokerPlayer{}, fmt.Errorf("Service.JoinTable: %w", err)
	}

	ref := fmt.Sprintf("poker:%s:buyin", tableID)
	if err := s.wallet.Withdraw(ctx, userID, buyIn, domain.TxBet, ref); err != nil {
		return domain.PokerPlayer{}, fmt.Errorf("Service.JoinTable: %w", err)
	}

	player := domain.PokerPlayer{
		ID:         uuid.New(),
		TableID:    tableID,
		UserID:     userID,
		Username:   username,
		SeatNumber: seat,
		Stack:      buyIn,
		Status:     domain.PlayerStatusActive,
		JoinedAt:   time.Now(),
	}
	if err := s.players.Create(ctx, player); err != nil {
		s.refund(ctx, userID, buyIn, ref)
		return domain.PokerPlayer{}, fmt.Errorf("Service.JoinTable: %w", err)
	}

	hub := s.hubs.GetOrStart(table)
	if err := hub.Join(ctx, player); err != nil {
		if derr := s.players.Delete(ctx, player.ID); derr != nil {
			s.logger.Error("remove seat after failed join", "error", derr, "player_id", player.ID)
		}
		s.refund(ctx, userID, buyIn, ref)
		return domain.PokerPlayer{}, fmt.Errorf("Service.JoinTable: %w", err)
	}
	return player, nil
}

// LeaveTable unseats the player and credits their remaining stack back.
func (s *Service) LeaveTable(ctx context.Context, tableID, userID uuid.UUID) error {
	player, err := s.players.FindByTableAndUser(ctx, tableID, userID)
	if err != nil {
		return fmt.Errorf("Service.LeaveTable: %w", domain.ErrNotAtTable)
	}

	stack := player.Stack
	if hub := s.hubs.Get(tableID); hub != nil {
		stack, err = hub.Leave(ctx, userID)
		if err != nil {
			return fmt.Errorf("Service.LeaveTable: %w", err)
		}
	}

	if err := s.players.Delete(ctx, player.ID); err != nil {
		return fmt.Errorf("Service.LeaveTable: %w", err)
	}
	if stack.GreaterThan(decimal.Zero) {
		ref := fmt.Sprintf("poker:%s:cashout", tableID)
		if err := s.wallet.Deposit(ctx, userID, stack, domain.TxPayout, ref); err != nil {
			return fmt.Errorf("Service.LeaveTable: %w", err)
		}
	}
	return nil
}

// Act forwards a betting action to the table's hub.
func (s *Service) Act(ctx context.Context, tableID, userID uuid.UUID, action domain.ActionType, amount decimal.Decimal) error {
	hub := s.hubs.Get(tableID)
	if hub == nil {
		return fmt.Errorf("Service.Act: %w", domain.ErrNoHandInPlay)
	}
	if err := hub.HandleAction(ctx, userID, action, amount); err != nil {
		return fmt.Errorf("Service.Act: %w", err)
	}
	return nil
}

// SitIn reactivates a seat benched for timeouts; play resumes next hand.
func (s *Service) SitIn(ctx context.Context, tableID, userID uuid.UUID) error {
	hub := s.hubs.Get(tableID)
	if hub == nil {
		return fmt.Errorf("Service.SitIn: %w", domain.ErrNotAtTable)
	}
	if err := hub.SitIn(ctx, userID); err != nil {
		return fmt.Errorf("Service.SitIn: %w", err)
	}
	return nil
}

// GetTableState serves the public snapshot: live hub first, then the cache,
// then a cold rebuild from persistence.
func (s *Service) GetTableState(ctx context.Context, tableID uuid.UUID) (domain.WSTableState, error) {
	if hub := s.hubs.Get(tableID); hub != nil {
		state, err := hub.GetState(ctx)
		if err == nil {
			return state, nil
		}
		s.logger.Warn("live state fetch failed, falling back", "error", err, "table_id", tableID)
	}
	if s.snapshots != nil {
		state, ok, err := s.snapshots.GetTableState(ctx, tableID)
		if err != nil {
			s.logger.Warn("snapshot fetch failed", "error", err, "table_id", tableID)
		} else if ok {
			return state, nil
		}
	}
	return s.coldState(ctx, tableID)
}

// HandHistory lists a table's completed hands, newest first. Revealed seeds
// let players verify past shuffles.
func (s *Service) HandHistory(ctx context.Context, tableID uuid.UUID, limit int) ([]domain.PokerHand, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	hands, err := s.hands.FindByTable(ctx, tableID, limit)
	if err != nil {
		return nil, fmt.Errorf("Service.HandHistory: %w", err)
	}
	return hands, nil
}

func (s *Service) coldState(ctx context.Context, tableID uuid.UUID) (domain.WSTableState, error) {
	if _, err := s.tables.FindByID(ctx, tableID); err != nil {
		return domain.WSTableState{}, fmt.Errorf("Service.GetTableState: %w", err)
	}
	seated, err := s.players.FindByTableID(ctx, tableID)
	if err != nil {
		return domain.WSTableState{}, fmt.Errorf("Service.GetTableState: %w", err)
	}
	state := domain.WSTableState{
		TableID:    tableID,
		Stage:      domain.StageWaiting,
		Pot:        decimal.Zero.String(),
		CurrentBet: decimal.Zero.String(),
	}
	for _, p := range seated {
		state.Players = append(state.Players, domain.WSPlayerInfo{
			UserID:     p.UserID,
			Username:   p.Username,
			SeatNumber: p.SeatNumber,
			Stack:      p.Stack.String(),
			BetAmount:  decimal.Zero.String(),
			Status:     p.Status,
		})
	}
	return state, nil
}

func (s *Service) refund(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, ref string) {
	if err := s.wallet.Deposit(ctx, userID, amount, domain.TxRefund, ref); err != nil {
		s.logger.Error("refund failed", "error", err, "user_id", userID, "amount", amount)
	}
}

// pickSeat resolves a seat request: an explicit seat must be in range and
// unoccupied, a negative one takes the lowest free seat.
func pickSeat(seated []domain.PokerPlayer, requested, maxPlayers int) (int, error) {
	taken := map[int]bool{}
	for _, p := range seated {
		taken[p.SeatNumber] = true
	}
	if requested >= 0 {
		if requested >= maxPlayers {
			return 0, domain.ErrInvalidInput
		}
		if taken[requested] {
			return 0, domain.ErrSeatTaken
		}
		return requested, nil
	}
	for i := 0; i < maxPlayers; i++ {
		if !taken[i] {
			return i, nil
		}
	}
	return 0, domain.ErrTableFull
}
