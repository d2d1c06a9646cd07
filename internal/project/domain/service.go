package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/identity"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, orgID uuid.UUID, caller identity.Identity, req CreateProjectRequest) (*Project, error)
	Edit(ctx context.Context, orgID, id uuid.UUID, req EditProjectRequest) (*Project, error)
	Deactivate(ctx context.Context, orgID, id uuid.UUID, caller identity.Identity) (*Project, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*Project, error)
	List(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]Project, error)
	// EnsureInOrganization fails with ErrNotFound unless every id is a project of orgID.
	EnsureInOrganization(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) error
}

type CreateProjectRequest struct {
	Name            string
	ProfileImageURL *string
}

type EditProjectRequest struct {
	Name            *string
	ProfileImageURL *string
}

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrNotFound           = errors.New("project_not_found")
	ErrAlreadyDeactivated = errors.New("project_already_deactivated")
)
