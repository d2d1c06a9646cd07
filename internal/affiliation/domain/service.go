package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
)

type Service interface {
	// List returns owner affiliations before member affiliations, each newest first.
	List(ctx context.Context, userID uuid.UUID, page pagination.Page) ([]Affiliation, error)
	OrganizationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	LoginRoute(ctx context.Context, userID uuid.UUID) (Route, error)
	// SelectOrganization fails with ErrNotAffiliated unless the user owns or belongs to orgID.
	SelectOrganization(ctx context.Context, userID, orgID uuid.UUID) error
}

var ErrNotAffiliated = errors.New("user not affiliated to the organization")
