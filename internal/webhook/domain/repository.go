package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
	"gorm.io/gorm"
)

// Repository finders return (nil, nil) when no row matches. Loaded webhooks
// carry their project ids.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, webhook Webhook) error
	LinkProjects(ctx context.Context, webhookID uuid.UUID, projectIDs []uuid.UUID) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Webhook, error)
	List(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]Webhook, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
