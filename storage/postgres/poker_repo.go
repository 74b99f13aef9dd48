package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/cards"
	"github.com/jokeoa/goigaming/domain"
)

type PokerTableRepo struct {
	db DBTX
}

func NewPokerTableRepo(db DBTX) *PokerTableRepo {
	return &PokerTableRepo{db: db}
}

func (r *PokerTableRepo) Create(ctx context.Context, t domain.PokerTable) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO poker_tables (id, name, small_blind, big_blind, min_buy_in, max_buy_in, max_players, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Name, t.SmallBlind, t.BigBlind, t.MinBuyIn, t.MaxBuyIn, t.MaxPlayers, t.Status, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("PokerTableRepo.Create: %w", err)
	}
	return nil
}

func (r *PokerTableRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.PokerTable, error) {
	var t domain.PokerTable
	err := r.db.QueryRow(ctx, `
		SELECT id, name, small_blind, big_blind, min_buy_in, max_buy_in, max_players, status, created_at
		FROM poker_tables WHERE id = $1`, id).Scan(
		&t.ID, &t.Name, &t.SmallBlind, &t.BigBlind, &t.MinBuyIn, &t.MaxBuyIn, &t.MaxPlayers, &t.Status, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PokerTable{}, domain.ErrTableNotFound
	}
	if err != nil {
		return domain.PokerTable{}, fmt.Errorf("PokerTableRepo.FindByID: %w", err)
	}
	return t, nil
}

func (r *PokerTableRepo) FindActive(ctx context.Context) ([]domain.PokerTable, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, small_blind, big_blind, min_buy_in, max_buy_in, max_players, status, created_at
		FROM poker_tables WHERE status IN ('waiting', 'playing')
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("PokerTableRepo.FindActive: %w", err)
	}
	defer rows.Close()

	var out []domain.PokerTable
	for rows.Next() {
		var t domain.PokerTable
		if err := rows.Scan(&t.ID, &t.Name, &t.SmallBlind, &t.BigBlind,
			&t.MinBuyIn, &t.MaxBuyIn, &t.MaxPlayers, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("PokerTableRepo.FindActive: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PokerTableRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TableStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE poker_tables SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("PokerTableRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTableNotFound
	}
	return nil
}

type PokerPlayerRepo struct {
	db DBTX
}

func NewPokerPlayerRepo(db DBTX) *PokerPlayerRepo {
	return &PokerPlayerRepo{db: db}
}

func (r *PokerPlayerRepo) Create(ctx context.Context, p domain.PokerPlayer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO poker_players (id, table_id, user_id, username, seat_number, stack, status, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.TableID, p.UserID, p.Username, p.SeatNumber, p.Stack, p.Status, p.JoinedAt)
	if err != nil {
		return fmt.Errorf("PokerPlayerRepo.Create: %w", err)
	}
	return nil
}

func (r *PokerPlayerRepo) FindByTableAndUser(ctx context.Context, tableID, userID uuid.UUID) (domain.PokerPlayer, error) {
	var p domain.PokerPlayer
	err := r.db.QueryRow(ctx, `
		SELECT id, table_id, user_id, username, seat_number, stack, status, joined_at
		FROM poker_players WHERE table_id = $1 AND user_id = $2`, tableID, userID).Scan(
		&p.ID, &p.TableID, &p.UserID, &p.Username, &p.SeatNumber, &p.Stack, &p.Status, &p.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PokerPlayer{}, domain.ErrNotAtTable
	}
	if err != nil {
		return domain.PokerPlayer{}, fmt.Errorf("PokerPlayerRepo.FindByTableAndUser: %w", err)
	}
	return p, nil
}

func (r *PokerPlayerRepo) FindByTableID(ctx context.Context, tableID uuid.UUID) ([]domain.PokerPlayer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, table_id, user_id, username, seat_number, stack, status, joined_at
		FROM poker_players WHERE table_id = $1 ORDER BY seat_number`, tableID)
	if err != nil {
		return nil, fmt.Errorf("PokerPlayerRepo.FindByTableID: %w", err)
	}
	defer rows.Close()

	var out []domain.PokerPlayer
	for rows.Next() {
		var p domain.PokerPlayer
		if err := rows.Scan(&p.ID, &p.TableID, &p.UserID, &p.Username,
			&p.SeatNumber, &p.Stack, &p.Status, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("PokerPlayerRepo.FindByTableID: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PokerPlayerRepo) UpdateStack(ctx context.Context, id uuid.UUID, stack decimal.Decimal) error {
	_, err := r.db.Exec(ctx,
		`UPDATE poker_players SET stack = $2 WHERE id = $1`, id, stack)
	if err != nil {
		return fmt.Errorf("PokerPlayerRepo.UpdateStack: %w", err)
	}
	return nil
}

func (r *PokerPlayerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM poker_players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("PokerPlayerRepo.Delete: %w", err)
	}
	return nil
}

// HandRepo archives completed hands. Cards are stored in shorthand text and
// winners as JSON.
type HandRepo struct {
	db DBTX
}

func NewHandRepo(db DBTX) *HandRepo {
	return &HandRepo{db: db}
}

func (r *HandRepo) Save(ctx context.Context, hand domain.PokerHand) error {
	winners, err := json.Marshal(hand.Winners)
	if err != nil {
		return fmt.Errorf("HandRepo.Save: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO poker_hands (id, table_id, hand_number, community_cards, pot, winners, seed_hash, seed, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		hand.ID, hand.TableID, hand.HandNumber, cards.CardsString(hand.CommunityCards),
		hand.Pot, winners, hand.SeedHash, hand.Seed, hand.StartedAt, hand.EndedAt)
	if err != nil {
		return fmt.Errorf("HandRepo.Save: %w", err)
	}
	return nil
}

// FindByTable lists recent archived hands, newest first.
func (r *HandRepo) FindByTable(ctx context.Context, tableID uuid.UUID, limit int) ([]domain.PokerHand, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, table_id, hand_number, community_cards, pot, winners, seed_hash, seed, started_at, ended_at
		FROM poker_hands WHERE table_id = $1
		ORDER BY hand_number DESC LIMIT $2`, tableID, limit)
	if err != nil {
		return nil, fmt.Errorf("HandRepo.FindByTable: %w", err)
	}
	defer rows.Close()

	var out []domain.PokerHand
	for rows.Next() {
		var h domain.PokerHand
		var community string
		var winners []byte
		if err := rows.Scan(&h.ID, &h.TableID, &h.HandNumber, &community,
			&h.Pot, &winners, &h.SeedHash, &h.Seed, &h.StartedAt, &h.EndedAt); err != nil {
			return nil, fmt.Errorf("HandRepo.FindByTable: %w", err)
		}
		if h.CommunityCards, err = cards.ParseCards(community); err != nil {
			return nil, fmt.Errorf("HandRepo.FindByTable: %w", err)
		}
		if err := json.Unmarshal(winners, &h.Winners); err != nil {
			return nil, fmt.Errorf("HandRepo.FindByTable: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
