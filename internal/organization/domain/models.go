// Package domain contains persistence models for organizations and their owners.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a tenant. It is retired by setting DeactivatedAt, never deleted.
type Organization struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string     `gorm:"type:text;not null" json:"name"`
	Slug            string     `gorm:"type:text;not null;uniqueIndex:ux_organizations_slug" json:"slug"`
	ProfileImageURL *string    `gorm:"type:text;column:profile_image_url" json:"profile_image_url,omitempty"`
	SvixAppID       *string    `gorm:"type:text;column:svix_app_id" json:"-"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	DeactivatedAt   *time.Time `gorm:"column:deactivated_at" json:"deactivated_at,omitempty"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// Owner binds the creating user to an organization. One per organization.
type Owner struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_owners_organization" json:"organization_id"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (Owner) TableName() string { return "owners" }
