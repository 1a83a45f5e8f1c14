package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// ProfileValidator checks a profile edit before it is stored.
type ProfileValidator interface {
	ValidateProfile(p *ProfileUpdate) error
}

// Service defines the interface for user-related business logic.
type Service interface {
	GetUser(ctx context.Context, id int64) (*User, error)
	UpdateProfile(ctx context.Context, id int64, p *ProfileUpdate) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

type service struct {
	repo      Repository
	validator ProfileValidator
	log       *logrus.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, validator ProfileValidator, logger *logrus.Logger) Service {
	return &service{repo: repo, validator: validator, log: logger}
}

func (s *service) GetUser(ctx context.Context, id int64) (*User, error) {
	u, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if !found {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, id int64, p *ProfileUpdate) (*User, error) {
	clean := &ProfileUpdate{
		Name:      strings.TrimSpace(p.Name),
		Address:   strings.TrimSpace(p.Address),
		RUT:       strings.TrimSpace(p.RUT),
		BirthDate: strings.TrimSpace(p.BirthDate),
	}
	if err := s.validator.ValidateProfile(clean); err != nil {
		return nil, &InvalidProfileError{Err: err}
	}
	ok, err := s.repo.UpdateProfile(ctx, id, clean)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	s.log.WithField("user_id", id).Info("Users: profile updated")
	return s.GetUser(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}
