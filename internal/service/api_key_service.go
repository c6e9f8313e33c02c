package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"simvado-be/internal/dto"
	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/apperr"
	"simvado-be/internal/pkg/logger"
	"simvado-be/internal/repository/specification"
	"simvado-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	ApiKeyPrefix       = "sk_sim_"
	apiKeyRandomBytes  = 32
	apiKeyDisplayChars = 15
)

type IApiKeyService interface {
	IssueKey(ctx context.Context, req *dto.IssueApiKeyRequest) (*dto.IssueApiKeyResponse, error)
	VerifyKey(ctx context.Context, plaintext string) (*entity.ApiKey, error)
	RevokeKey(ctx context.Context, id uuid.UUID) error
}

type apiKeyService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	now        func() time.Time
}

func NewApiKeyService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IApiKeyService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &apiKeyService{
		uowFactory: uowFactory,
		logger:     log,
		now:        time.Now,
	}
}

// GenerateApiKey returns a new plaintext key with its storage hash and display prefix.
func GenerateApiKey() (key, hash, prefix string, err error) {
	buf := make([]byte, apiKeyRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", "", err
	}
	key = ApiKeyPrefix + hex.EncodeToString(buf)
	return key, HashApiKey(key), key[:apiKeyDisplayChars], nil
}

func HashApiKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (s *apiKeyService) IssueKey(ctx context.Context, req *dto.IssueApiKeyRequest) (*dto.IssueApiKeyResponse, error) {
	key, hash, prefix, err := GenerateApiKey()
	if err != nil {
		return nil, apperr.Internal("Failed to generate API key", err)
	}

	record := entity.ApiKey{
		Id:        uuid.New(),
		StudioId:  req.StudioId,
		Name:      req.Name,
		KeyHash:   hash,
		KeyPrefix: prefix,
		IsActive:  true,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: s.now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ApiKeyRepository().Create(ctx, &record); err != nil {
		return nil, err
	}

	s.logger.Info("GAME", "API key issued", map[string]interface{}{
		"api_key_id": record.Id.String(),
		"prefix":     prefix,
	})

	return &dto.IssueApiKeyResponse{
		Id:        record.Id,
		Key:       key,
		KeyPrefix: prefix,
	}, nil
}

// VerifyKey returns nil without error for unknown, revoked or expired keys.
func (s *apiKeyService) VerifyKey(ctx context.Context, plaintext string) (*entity.ApiKey, error) {
	if !strings.HasPrefix(plaintext, ApiKeyPrefix) {
		return nil, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.ApiKeyRepository().FindOne(ctx, specification.ByKeyHash{Hash: HashApiKey(plaintext)})
	if err != nil {
		return nil, err
	}
	now := s.now()
	if record == nil || !record.IsUsable(now) {
		return nil, nil
	}

	if err := uow.ApiKeyRepository().TouchLastUsed(ctx, record.Id, now); err != nil {
		s.logger.Warn("GAME", "Failed to touch API key", map[string]interface{}{
			"api_key_id": record.Id.String(),
			"error":      err.Error(),
		})
	} else {
		record.LastUsedAt = &now
	}
	return record, nil
}

func (s *apiKeyService) RevokeKey(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.ApiKeyRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if record == nil {
		return apperr.NotFound("API key not found")
	}
	record.IsActive = false
	return uow.ApiKeyRepository().Update(ctx, record)
}
