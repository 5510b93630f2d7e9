package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/flowsocial/internal/models"
	"github.com/maheshrc27/flowsocial/internal/repository"
	"github.com/maheshrc27/flowsocial/pkg/plans"
)

type UserService interface {
	// GetUserInfo returns the account with its plan normalized, so clients
	// never see a legacy or misspelled plan value.
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	// RemoveUser deletes the account; brands, posts, keys and usage rows
	// cascade.
	RemoveUser(ctx context.Context, userID int64) error
}

type userService struct {
	u repository.UserRepository
}

func NewUserService(u repository.UserRepository) UserService {
	return &userService{u: u}
}

func (s *userService) find(ctx context.Context, id int64) (*models.User, error) {
	user, found, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	if !found {
		slog.Info(ErrUserNotFound.Error(), "user_id", id)
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Plan = string(plans.Normalize(user.Plan))
	return user, nil
}

func (s *userService) RemoveUser(ctx context.Context, userID int64) error {
	if _, err := s.find(ctx, userID); err != nil {
		return err
	}

	if err := s.u.Remove(ctx, userID); err != nil {
		return fmt.Errorf("remove user %d: %w", userID, err)
	}
	slog.Info("user removed", "user_id", userID)
	return nil
}
