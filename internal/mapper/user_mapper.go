package mapper

import (
	"simvado-be/internal/entity"
	"simvado-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:               u.Id,
		ExternalId:       u.ExternalId,
		Email:            u.Email,
		Name:             u.Name,
		Role:             entity.UserRole(u.Role),
		SubscriptionTier: entity.SubscriptionTier(u.SubscriptionTier),
		OrganizationId:   u.OrganizationId,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:               u.Id,
		ExternalId:       u.ExternalId,
		Email:            u.Email,
		Name:             u.Name,
		Role:             string(u.Role),
		SubscriptionTier: string(u.SubscriptionTier),
		OrganizationId:   u.OrganizationId,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
