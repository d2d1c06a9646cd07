package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository finders return (nil, nil) when no row matches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrganization(ctx context.Context, org Organization) error
	CreateOwner(ctx context.Context, owner Owner) error
	UpdateOrganization(ctx context.Context, org Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	FindBySlug(ctx context.Context, slug string) (*Organization, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	FindOwner(ctx context.Context, orgID uuid.UUID) (*Owner, error)
}
