package mapper

import (
	"simvado-be/internal/entity"
	"simvado-be/internal/model"
)

type ApiKeyMapper struct{}

func NewApiKeyMapper() *ApiKeyMapper {
	return &ApiKeyMapper{}
}

func (m *ApiKeyMapper) ToEntity(k *model.ApiKey) *entity.ApiKey {
	if k == nil {
		return nil
	}
	return &entity.ApiKey{
		Id:         k.Id,
		StudioId:   k.StudioId,
		Name:       k.Name,
		KeyHash:    k.KeyHash,
		KeyPrefix:  k.KeyPrefix,
		IsActive:   k.IsActive,
		ExpiresAt:  k.ExpiresAt,
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt,
	}
}

func (m *ApiKeyMapper) ToModel(k *entity.ApiKey) *model.ApiKey {
	if k == nil {
		return nil
	}
	return &model.ApiKey{
		Id:         k.Id,
		StudioId:   k.StudioId,
		Name:       k.Name,
		KeyHash:    k.KeyHash,
		KeyPrefix:  k.KeyPrefix,
		IsActive:   k.IsActive,
		ExpiresAt:  k.ExpiresAt,
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt,
	}
}
