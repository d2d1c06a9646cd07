package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/project/domain"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, project domain.Project) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO projects (id, name, organization_id, profile_image_url, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		project.ID,
		project.Name,
		project.OrganizationID,
		project.ProfileImageURL,
		project.CreatedAt,
	).Error
}

func (r *repository) Update(ctx context.Context, project domain.Project) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE projects SET name = ?, profile_image_url = ? WHERE id = ? AND organization_id = ?`,
		project.Name,
		project.ProfileImageURL,
		project.ID,
		project.OrganizationID,
	).Error
}

func (r *repository) Deactivate(ctx context.Context, orgID, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE projects SET deactivated_at = ? WHERE id = ? AND organization_id = ?`,
		at,
		id,
		orgID,
	).Error
}

func (r *repository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repository) List(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]domain.Project, error) {
	var projects []domain.Project
	err := page.Apply(r.db.WithContext(ctx)).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *repository) CountInOrganization(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("organization_id = ? AND id IN ?", orgID, ids).
		Count(&count).Error
	return count, err
}
