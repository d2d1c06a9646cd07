package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Credential records an OAuth2 client issued to an organization. The client
// secret is never stored.
type Credential struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string      `gorm:"type:text;not null" json:"name"`
	OrganizationID uuid.UUID   `gorm:"type:uuid;not null;index" json:"organization_id"`
	ClientID       string      `gorm:"type:text;not null;uniqueIndex:ux_credentials_client" json:"client_id"`
	CreatedBy      uuid.UUID   `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time   `gorm:"not null;index" json:"created_at"`
	ProjectIDs     []uuid.UUID `gorm:"-" json:"project_ids"`
}

func (Credential) TableName() string { return "credentials" }

// ProjectCredential scopes a credential to a project.
type ProjectCredential struct {
	ProjectID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CredentialID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (ProjectCredential) TableName() string { return "project_credentials" }

// CreatedCredential is returned once, at creation. ClientSecret cannot be read again.
type CreatedCredential struct {
	Credential   Credential        `json:"credential"`
	ClientSecret string            `json:"client_secret"`
	Registration datatypes.JSONMap `json:"registration,omitempty"`
}
