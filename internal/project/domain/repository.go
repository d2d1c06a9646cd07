package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, project Project) error
	Update(ctx context.Context, project Project) error
	Deactivate(ctx context.Context, orgID, id uuid.UUID, at time.Time) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Project, error)
	List(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]Project, error)
	// CountInOrganization counts how many of ids are projects of orgID.
	CountInOrganization(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) (int64, error)
}
