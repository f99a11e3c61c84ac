package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/repository"
	"github.com/spec-kit/homeservice/pkg/util"
)

// UserService manages account profiles.
type UserService struct {
	users repository.UserRepository
}

// ProfileUpdateInput describes the mutable profile fields. Nil pointers
// leave the current value untouched.
type ProfileUpdateInput struct {
	Name      *string
	Phone     *string
	AvatarURL *string
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile returns the account for the given id.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user")
		}
		return nil, util.NewInternalError(err)
	}
	return user, nil
}

// UpdateProfile applies partial profile changes.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, util.NewValidationError("name cannot be empty", nil)
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}

	if err := s.users.Update(ctx, user); err != nil {
		if util.IsUniqueViolation(err) {
			return nil, util.NewConflict("phone already in use", nil)
		}
		return nil, util.NewInternalError(err)
	}
	return user, nil
}

// ListUsers returns a page of accounts. Admin only, enforced at the route.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return users, nil
}

// DeleteUser removes an account and its dependent rows via cascade.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("user")
		}
		return util.NewInternalError(err)
	}
	return nil
}
