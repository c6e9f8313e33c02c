package mapper

import (
	"simvado-be/internal/entity"
	"simvado-be/internal/model"
)

type AssignmentMapper struct{}

func NewAssignmentMapper() *AssignmentMapper {
	return &AssignmentMapper{}
}

func (m *AssignmentMapper) ToEntity(a *model.Assignment) *entity.Assignment {
	if a == nil {
		return nil
	}
	return &entity.Assignment{
		Id:               a.Id,
		OrganizationId:   a.OrganizationId,
		ModuleId:         a.ModuleId,
		AssignedToUserId: a.AssignedToUserId,
		AssignedByUserId: a.AssignedByUserId,
		NotifyEmail:      a.NotifyEmail,
		Status:           entity.AssignmentStatus(a.Status),
		DueDate:          a.DueDate,
		CompletedAt:      a.CompletedAt,
		CreatedAt:        a.CreatedAt,
	}
}

func (m *AssignmentMapper) ToModel(a *entity.Assignment) *model.Assignment {
	if a == nil {
		return nil
	}
	return &model.Assignment{
		Id:               a.Id,
		OrganizationId:   a.OrganizationId,
		ModuleId:         a.ModuleId,
		AssignedToUserId: a.AssignedToUserId,
		AssignedByUserId: a.AssignedByUserId,
		NotifyEmail:      a.NotifyEmail,
		Status:           string(a.Status),
		DueDate:          a.DueDate,
		CompletedAt:      a.CompletedAt,
		CreatedAt:        a.CreatedAt,
	}
}
