package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/identity"
	"github.com/holaplex/hub-orgs/internal/providers/webhookdelivery"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, orgID uuid.UUID, caller identity.Identity, req CreateWebhookRequest) (*CreatedWebhook, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	Get(ctx context.Context, orgID, id uuid.UUID) (*Webhook, error)
	List(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]Webhook, error)
	ListEventTypes(ctx context.Context) ([]webhookdelivery.EventType, error)
}

type CreateWebhookRequest struct {
	URL         string
	Description string
	ProjectIDs  []uuid.UUID
	FilterTypes []FilterType
}

var (
	ErrInvalidURL         = errors.New("invalid_endpoint_url")
	ErrInvalidFilterType  = errors.New("invalid_filter_type")
	ErrNotFound           = errors.New("webhook_not_found")
	ErrApplicationMissing = errors.New("webhook_application_missing")
)
