package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
)

type RouletteTableRepo struct {
	db DBTX
}

func NewRouletteTableRepo(db DBTX) *RouletteTableRepo {
	return &RouletteTableRepo{db: db}
}

func (r *RouletteTableRepo) Create(ctx context.Context, t domain.RouletteTable) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO roulette_tables (id, name, min_bet, max_bet, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Name, t.MinBet, t.MaxBet, t.Status, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("RouletteTableRepo.Create: %w", err)
	}
	return nil
}

func (r *RouletteTableRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.RouletteTable, error) {
	var t domain.RouletteTable
	err := r.db.QueryRow(ctx, `
		SELECT id, name, min_bet, max_bet, status, created_at
		FROM roulette_tables WHERE id = $1`, id).Scan(
		&t.ID, &t.Name, &t.MinBet, &t.MaxBet, &t.Status, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RouletteTable{}, domain.ErrTableNotFound
	}
	if err != nil {
		return domain.RouletteTable{}, fmt.Errorf("RouletteTableRepo.FindByID: %w", err)
	}
	return t, nil
}

func (r *RouletteTableRepo) FindActive(ctx context.Context) ([]domain.RouletteTable, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, min_bet, max_bet, status, created_at
		FROM roulette_tables WHERE status = 'active' ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("RouletteTableRepo.FindActive: %w", err)
	}
	defer rows.Close()

	var out []domain.RouletteTable
	for rows.Next() {
		var t domain.RouletteTable
		if err := rows.Scan(&t.ID, &t.Name, &t.MinBet, &t.MaxBet, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("RouletteTableRepo.FindActive: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// RouletteRoundRepo persists rounds. The seed column stays empty until
// settlement reveals it.
type RouletteRoundRepo struct {
	db DBTX
}

func NewRouletteRoundRepo(db DBTX) *RouletteRoundRepo {
	return &RouletteRoundRepo{db: db}
}

const roundColumns = `id, table_id, round_number, seed_hash, COALESCE(seed, ''), result, COALESCE(result_color, ''), status, betting_ends_at, settled_at, created_at`

func (r *RouletteRoundRepo) Create(ctx context.Context, round domain.RouletteRound) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO roulette_rounds (id, table_id, round_number, seed_hash, status, betting_ends_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		round.ID, round.TableID, round.RoundNumber, round.SeedHash,
		round.Status, round.BettingEndsAt, round.CreatedAt)
	if err != nil {
		return fmt.Errorf("RouletteRoundRepo.Create: %w", err)
	}
	return nil
}

func (r *RouletteRoundRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.RouletteRound, error) {
	round, err := r.scanOne(r.db.QueryRow(ctx,
		`SELECT `+roundColumns+` FROM roulette_rounds WHERE id = $1`, id))
	if err != nil {
		return domain.RouletteRound{}, fmt.Errorf("RouletteRoundRepo.FindByID: %w", err)
	}
	return round, nil
}

func (r *RouletteRoundRepo) FindCurrent(ctx context.Context, tableID uuid.UUID) (domain.RouletteRound, error) {
	round, err := r.scanOne(r.db.QueryRow(ctx, `
		SELECT `+roundColumns+` FROM roulette_rounds
		WHERE table_id = $1 AND status = 'betting'
		ORDER BY round_number DESC LIMIT 1`, tableID))
	if err != nil {
		return domain.RouletteRound{}, fmt.Errorf("RouletteRoundRepo.FindCurrent: %w", err)
	}
	return round, nil
}

func (r *RouletteRoundRepo) LatestRoundNumber(ctx context.Context, tableID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(round_number), 0) FROM roulette_rounds WHERE table_id = $1`,
		tableID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("RouletteRoundRepo.LatestRoundNumber: %w", err)
	}
	return n, nil
}

func (r *RouletteRoundRepo) Settle(ctx context.Context, id uuid.UUID, result int, color, seed string, settledAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE roulette_rounds
		SET result = $2, result_color = $3, seed = $4, status = 'settled', settled_at = $5
		WHERE id = $1 AND status = 'betting'`,
		id, result, color, seed, settledAt)
	if err != nil {
		return fmt.Errorf("RouletteRoundRepo.Settle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoundAlreadySpun
	}
	return nil
}

func (r *RouletteRoundRepo) FindSettled(ctx context.Context, tableID uuid.UUID, limit int) ([]domain.RouletteRound, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+roundColumns+` FROM roulette_rounds
		WHERE table_id = $1 AND status = 'settled'
		ORDER BY round_number DESC LIMIT $2`, tableID, limit)
	if err != nil {
		return nil, fmt.Errorf("RouletteRoundRepo.FindSettled: %w", err)
	}
	defer rows.Close()

	var out []domain.RouletteRound
	for rows.Next() {
		round, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("RouletteRoundRepo.FindSettled: %w", err)
		}
		out = append(out, round)
	}
	return out, rows.Err()
}

func (r *RouletteRoundRepo) scanOne(row pgx.Row) (domain.RouletteRound, error) {
	var round domain.RouletteRound
	err := row.Scan(&round.ID, &round.TableID, &round.RoundNumber, &round.SeedHash,
		&round.Seed, &round.Result, &round.ResultColor, &round.Status,
		&round.BettingEndsAt, &round.SettledAt, &round.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RouletteRound{}, domain.ErrRoundNotFound
	}
	if err != nil {
		return domain.RouletteRound{}, err
	}
	return round, nil
}

type RouletteBetRepo struct {
	db DBTX
}

func NewRouletteBetRepo(db DBTX) *RouletteBetRepo {
	return &RouletteBetRepo{db: db}
}

// Create inserts the bet only while its round still accepts bets. The status
// predicate closes the race against the engine moving the round to spinning
// between the service's window check and the insert.
func (r *RouletteBetRepo) Create(ctx context.Context, bet domain.RouletteBet) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO roulette_bets (id, round_id, user_id, bet_type, bet_value, amount, payout, status, created_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
		WHERE EXISTS (SELECT 1 FROM roulette_rounds WHERE id = $2 AND status = 'betting')`,
		bet.ID, bet.RoundID, bet.UserID, bet.BetType, bet.BetValue,
		bet.Amount, bet.Payout, bet.Status, bet.CreatedAt)
	if err != nil {
		return fmt.Errorf("RouletteBetRepo.Create: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("RouletteBetRepo.Create: %w", domain.ErrBettingClosed)
	}
	return nil
}

func (r *RouletteBetRepo) FindByRound(ctx context.Context, roundID uuid.UUID) ([]domain.RouletteBet, error) {
	return r.list(ctx, `
		SELECT id, round_id, user_id, bet_type, bet_value, amount, payout, status, created_at
		FROM roulette_bets WHERE round_id = $1 ORDER BY created_at`, roundID)
}

func (r *RouletteBetRepo) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.RouletteBet, error) {
	return r.list(ctx, `
		SELECT id, round_id, user_id, bet_type, bet_value, amount, payout, status, created_at
		FROM roulette_bets WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
}

func (r *RouletteBetRepo) Settle(ctx context.Context, id uuid.UUID, payout decimal.Decimal, status domain.RouletteBetStatus) error {
	_, err := r.db.Exec(ctx, `
		UPDATE roulette_bets SET payout = $2, status = $3 WHERE id = $1 AND status = 'pending'`,
		id, payout, status)
	if err != nil {
		return fmt.Errorf("RouletteBetRepo.Settle: %w", err)
	}
	return nil
}

func (r *RouletteBetRepo) list(ctx context.Context, sql string, args ...any) ([]domain.RouletteBet, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("RouletteBetRepo: %w", err)
	}
	defer rows.Close()

	var out []domain.RouletteBet
	for rows.Next() {
		var b domain.RouletteBet
		if err := rows.Scan(&b.ID, &b.RoundID, &b.UserID, &b.BetType, &b.BetValue,
			&b.Amount, &b.Payout, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("RouletteBetRepo: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
