package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokeoa/goigaming/domain"
)

type memUsers struct {
	byID map[uuid.UUID]domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[uuid.UUID]domain.User{}}
}

func (m *memUsers) Create(_ context.Context, u domain.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (domain.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (m *memUsers) UpdateRefreshToken(_ context.Context, id uuid.UUID, token *string) error {
	u := m.byID[id]
	u.RefreshToken = token
	m.byID[id] = u
	return nil
}

type nullWallets struct{}

func (nullWallets) CreateWallet(_ context.Context, userID uuid.UUID, currency string) (domain.Wallet, error) {
	return domain.Wallet{ID: uuid.New(), UserID: userID, Currency: currency}, nil
}

func (nullWallets) Deposit(context.Context, uuid.UUID, decimal.Decimal, domain.TransactionType, string) error {
	return nil
}

func newTestService() (*Service, *memUsers) {
	users := newMemUsers()
	svc := NewService(users, nullWallets{}, Config{Secret: "test-secret"}, nil)
	return svc, users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)

	pair, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@b.c", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(ctx, "bob", "a@b.c", "short")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(ctx, "carol", "carol@example.com", "password123")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "carol", "other@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	_, err = svc.Register(ctx, "carol2", "carol@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestLoginBadPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "dave", "dave@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "dave", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefreshRotation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "erin", "erin@example.com", "password123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "erin", "password123")
	require.NoError(t, err)

	// The issued refresh token works once and then is rotated out.
	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// Rotation must produce a distinct token even within the same second.
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)
}

func TestTokensUniquePerIssue(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "frank", "frank@example.com", "password123")
	require.NoError(t, err)

	first, err := svc.Login(ctx, "frank", "password123")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "frank", "password123")
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestExpiredToken(t *testing.T) {
	users := newMemUsers()
	svc := NewService(users, nullWallets{}, Config{
		Secret:    "test-secret",
		AccessTTL: -time.Minute,
	}, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "frank", "frank@example.com", "password123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "frank", "password123")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTamperedToken(t *testing.T) {
	svc, _ := newTestService()
	other := NewService(newMemUsers(), nullWallets{}, Config{Secret: "other-secret"}, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "gina", "gina@example.com", "password123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "gina", "password123")
	require.NoError(t, err)

	_, err = other.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
