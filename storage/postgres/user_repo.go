package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jokeoa/goigaming/domain"
)

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("UserRepo.Create: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return r.scanOne(ctx, `
		SELECT id, username, email, password_hash, refresh_token, created_at
		FROM users WHERE id = $1`, id)
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.scanOne(ctx, `
		SELECT id, username, email, password_hash, refresh_token, created_at
		FROM users WHERE username = $1`, username)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanOne(ctx, `
		SELECT id, username, email, password_hash, refresh_token, created_at
		FROM users WHERE email = $1`, email)
}

func (r *UserRepo) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token = $2 WHERE id = $1`, id, token)
	if err != nil {
		return fmt.Errorf("UserRepo.UpdateRefreshToken: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(ctx context.Context, sql string, arg any) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, sql, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.RefreshToken, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("UserRepo: %w", err)
	}
	return u, nil
}
