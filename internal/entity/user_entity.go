package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type SubscriptionTier string

const (
	UserRoleUser          UserRole = "user"
	UserRoleStudio        UserRole = "studio"
	UserRolePlatformAdmin UserRole = "platform_admin"

	SubscriptionTierFree       SubscriptionTier = "free"
	SubscriptionTierProMonthly SubscriptionTier = "pro_monthly"
	SubscriptionTierProAnnual  SubscriptionTier = "pro_annual"
	SubscriptionTierEnterprise SubscriptionTier = "enterprise"
)

// User mirrors the identity provider's account. Tier is written by billing webhooks.
type User struct {
	Id               uuid.UUID
	ExternalId       string
	Email            string
	Name             string
	Role             UserRole
	SubscriptionTier SubscriptionTier
	OrganizationId   *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (u *User) IsFreeTier() bool {
	return u.SubscriptionTier == "" || u.SubscriptionTier == SubscriptionTierFree
}

func (u *User) CanAuthorContent() bool {
	return u.Role == UserRoleStudio || u.Role == UserRolePlatformAdmin
}
