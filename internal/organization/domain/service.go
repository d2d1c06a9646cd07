package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/identity"
)

type Service interface {
	Create(ctx context.Context, caller identity.Identity, req CreateOrganizationRequest) (*Organization, error)
	Edit(ctx context.Context, id uuid.UUID, req EditOrganizationRequest) (*Organization, error)
	Get(ctx context.Context, id uuid.UUID) (*Organization, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	GetOwner(ctx context.Context, orgID uuid.UUID) (*Owner, error)
}

type CreateOrganizationRequest struct {
	Name            string
	ProfileImageURL *string
}

// EditOrganizationRequest applies only the fields that are set.
type EditOrganizationRequest struct {
	Name            *string
	ProfileImageURL *string
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidSlug = errors.New("invalid_slug")
	ErrNotFound    = errors.New("organization_not_found")
)
