package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project belongs to exactly one organization.
type Project struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string     `gorm:"type:text;not null" json:"name"`
	OrganizationID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProfileImageURL *string    `gorm:"type:text;column:profile_image_url" json:"profile_image_url,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;index" json:"created_at"`
	DeactivatedAt   *time.Time `gorm:"column:deactivated_at" json:"deactivated_at,omitempty"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }
