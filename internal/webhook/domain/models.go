package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Webhook is an endpoint registered with the delivery provider. The signing
// secret lives only at the provider.
type Webhook struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EndpointID     string         `gorm:"type:text;not null;uniqueIndex:ux_webhooks_endpoint" json:"endpoint_id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	URL            string         `gorm:"type:text;not null" json:"url"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	FilterTypes    pq.StringArray `gorm:"type:text[]" json:"filter_types"`
	CreatedBy      uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt      *time.Time     `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
	ProjectIDs     []uuid.UUID    `gorm:"-" json:"project_ids"`
}

func (Webhook) TableName() string { return "webhooks" }

type WebhookProject struct {
	WebhookID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (WebhookProject) TableName() string { return "webhook_projects" }

type CreatedWebhook struct {
	Webhook Webhook `json:"webhook"`
	Secret  string  `json:"secret"`
}
