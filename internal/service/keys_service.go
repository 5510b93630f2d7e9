package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/flowsocial/internal/models"
	"github.com/maheshrc27/flowsocial/internal/repository"
	"github.com/maheshrc27/flowsocial/internal/transfer"
	"github.com/maheshrc27/flowsocial/pkg/utils"
)

const maxApiKeys = 5

type ApiKeyService interface {
	Create(ctx context.Context, userID int64, name string) (*transfer.CreatedApiKey, error)
	List(ctx context.Context, userID int64) ([]*models.ApiKey, error)
	GetUserID(ctx context.Context, apiKey string) (int64, error)
	RemoveAPIKey(ctx context.Context, userID, keyID int64) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{
		k: k,
	}
}

func (s *apiKeyService) Create(ctx context.Context, userID int64, name string) (*transfer.CreatedApiKey, error) {
	count, err := s.k.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= maxApiKeys {
		slog.Info(ErrApiKeyLimit.Error(), "user_id", userID)
		return nil, ErrApiKeyLimit
	}

	key, prefix, err := utils.GenerateApiKey()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error generating API key: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Default"
	}

	id, err := s.k.Create(ctx, &models.ApiKey{
		UserID:  userID,
		Name:    name,
		KeyHash: utils.HashKey(key),
		Prefix:  prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("error saving API key: %w", err)
	}

	return &transfer.CreatedApiKey{ID: id, Name: name, Key: key, Prefix: prefix}, nil
}

func (s *apiKeyService) GetUserID(ctx context.Context, apiKey string) (int64, error) {
	if !strings.HasPrefix(apiKey, utils.ApiKeyPrefix) {
		return 0, ErrApiKeyNotFound
	}

	userID, isExist, err := s.k.GetUserIDByHash(ctx, utils.HashKey(apiKey))
	if err != nil {
		return 0, err
	}
	if !isExist {
		return 0, ErrApiKeyNotFound
	}

	return userID, nil
}

func (s *apiKeyService) List(ctx context.Context, userID int64) ([]*models.ApiKey, error) {
	apiKeys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting API keys: %w", err)
	}
	return apiKeys, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, userID, keyID int64) error {
	if keyID == 0 {
		err := errors.New("key id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.k.CheckByUserID(ctx, keyID, userID)
	if err != nil {
		return err
	}
	if !isValid {
		slog.Info(ErrApiKeyNotFound.Error(), "key_id", keyID)
		return ErrApiKeyNotFound
	}

	return s.k.Remove(ctx, keyID)
}
