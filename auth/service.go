// Package auth issues and validates JWT access tokens and manages user
// credentials with bcrypt password hashing.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jokeoa/goigaming/domain"
)

// welcomeBalance is credited to every new account so players can sit down
// immediately.
var welcomeBalance = decimal.NewFromInt(1000)

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
}

// WalletCreator is the slice of the wallet service used at registration.
type WalletCreator interface {
	CreateWallet(ctx context.Context, userID uuid.UUID, currency string) (domain.Wallet, error)
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, txType domain.TransactionType, reference string) error
}

// Config sets signing material and token lifetimes.
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.AccessTTL == 0 {
		c.AccessTTL = 15 * time.Minute
	}
	if c.RefreshTTL == 0 {
		c.RefreshTTL = 7 * 24 * time.Hour
	}
	return c
}

type Service struct {
	users   UserStore
	wallets WalletCreator
	cfg     Config
	logger  *slog.Logger
}

func NewService(users UserStore, wallets WalletCreator, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, wallets: wallets, cfg: cfg.withDefaults(), logger: logger}
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Register creates an account, opens its wallet and credits the welcome
// balance.
func (s *Service) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	if username == "" || email == "" || len(password) < 8 {
		return domain.User{}, fmt.Errorf("Service.Register: %w", domain.ErrInvalidInput)
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return domain.User{}, fmt.Errorf("Service.Register: %w", domain.ErrUserAlreadyExists)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.User{}, fmt.Errorf("Service.Register: %w", domain.ErrUserAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("Service.Register: %w", err)
	}
	user := domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("Service.Register: %w", err)
	}

	if s.wallets != nil {
		if _, err := s.wallets.CreateWallet(ctx, user.ID, "USD"); err != nil {
			s.logger.Error("create wallet for new user", "error", err, "user_id", user.ID)
		} else if err := s.wallets.Deposit(ctx, user.ID, welcomeBalance, domain.TxDeposit, "welcome"); err != nil {
			s.logger.Error("credit welcome balance", "error", err, "user_id", user.ID)
		}
	}
	s.logger.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Login checks credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("Service.Login: %w", domain.ErrInvalidCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.TokenPair{}, fmt.Errorf("Service.Login: %w", domain.ErrInvalidCredentials)
	}
	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("Service.Login: %w", err)
	}
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new pair, rotating the
// stored token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	tc, err := s.parse(refreshToken)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("Service.Refresh: %w", err)
	}
	user, err := s.users.FindByID(ctx, tc.UserID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("Service.Refresh: %w", domain.ErrInvalidToken)
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return domain.TokenPair{}, fmt.Errorf("Service.Refresh: %w", domain.ErrInvalidToken)
	}
	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("Service.Refresh: %w", err)
	}
	return pair, nil
}

// ValidateToken parses an access token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (domain.TokenClaims, error) {
	tc, err := s.parse(tokenString)
	if err != nil {
		return domain.TokenClaims{}, fmt.Errorf("Service.ValidateToken: %w", err)
	}
	return tc, nil
}

func (s *Service) issuePair(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	access, err := s.sign(user, s.cfg.AccessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.sign(user, s.cfg.RefreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, &refresh); err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) sign(user domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			// A unique jti keeps two tokens minted in the same second
			// distinct, so rotation really invalidates the old one.
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *Service) parse(tokenString string) (domain.TokenClaims, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.TokenClaims{}, domain.ErrTokenExpired
		}
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}
	if !token.Valid {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}
	return domain.TokenClaims{UserID: userID, Username: c.Username}, nil
}
