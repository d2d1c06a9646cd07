package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/identity"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, orgID uuid.UUID, caller identity.Identity, req CreateCredentialRequest) (*CreatedCredential, error)
	// Delete retires the provider client first; the local row survives a provider failure.
	Delete(ctx context.Context, orgID, id uuid.UUID, caller identity.Identity) error
	Get(ctx context.Context, orgID, id uuid.UUID) (*Credential, error)
	List(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]Credential, error)
}

type CreateCredentialRequest struct {
	Name       string
	ProjectIDs []uuid.UUID
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrNotFound    = errors.New("credential_not_found")
)
