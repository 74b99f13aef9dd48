// Package user serves public account profiles.
package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jokeoa/goigaming/domain"
)

// Store is the read surface over accounts.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}

type Service struct {
	users Store
}

func NewService(users Store) *Service {
	return &Service{users: users}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("Service.GetProfile: %w", err)
	}
	return u.Profile(), nil
}

func (s *Service) GetProfileByUsername(ctx context.Context, username string) (domain.UserProfile, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("Service.GetProfileByUsername: %w", err)
	}
	return u.Profile(), nil
}
