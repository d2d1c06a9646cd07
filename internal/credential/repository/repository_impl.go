package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/credential/domain"
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

func (r *repository) Insert(ctx context.Context, credential domain.Credential) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO credentials (id, name, organization_id, client_id, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		credential.ID,
		credential.Name,
		credential.OrganizationID,
		credential.ClientID,
		credential.CreatedBy,
		credential.CreatedAt,
	).Error
}

func (r *repository) LinkProjects(ctx context.Context, credentialID uuid.UUID, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	links := make([]domain.ProjectCredential, 0, len(projectIDs))
	for _, projectID := range projectIDs {
		links = append(links, domain.ProjectCredential{ProjectID: projectID, CredentialID: credentialID})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *repository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Credential, error) {
	var credential domain.Credential
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&credential).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	credentials := []domain.Credential{credential}
	if err := r.attachProjects(ctx, credentials); err != nil {
		return nil, err
	}
	return &credentials[0], nil
}

func (r *repository) List(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]domain.Credential, error) {
	var credentials []domain.Credential
	err := page.Apply(r.db.WithContext(ctx)).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&credentials).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachProjects(ctx, credentials); err != nil {
		return nil, err
	}
	return credentials, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec(`DELETE FROM project_credentials WHERE credential_id = ?`, id).Error; err != nil {
		return err
	}
	return db.Exec(`DELETE FROM credentials WHERE id = ?`, id).Error
}

func (r *repository) attachProjects(ctx context.Context, credentials []domain.Credential) error {
	if len(credentials) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(credentials))
	index := make(map[uuid.UUID]int, len(credentials))
	for i := range credentials {
		ids = append(ids, credentials[i].ID)
		index[credentials[i].ID] = i
		credentials[i].ProjectIDs = []uuid.UUID{}
	}

	var links []domain.ProjectCredential
	if err := r.db.WithContext(ctx).
		Where("credential_id IN ?", ids).
		Order("project_id").
		Find(&links).Error; err != nil {
		return err
	}
	for _, link := range links {
		i := index[link.CredentialID]
		credentials[i].ProjectIDs = append(credentials[i].ProjectIDs, link.ProjectID)
	}
	return nil
}
