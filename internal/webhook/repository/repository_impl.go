package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/webhook/domain"
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

func (r *repository) Insert(ctx context.Context, webhook domain.Webhook) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO webhooks (id, endpoint_id, organization_id, url, description, filter_types, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		webhook.ID,
		webhook.EndpointID,
		webhook.OrganizationID,
		webhook.URL,
		webhook.Description,
		webhook.FilterTypes,
		webhook.CreatedBy,
		webhook.CreatedAt,
	).Error
}

func (r *repository) LinkProjects(ctx context.Context, webhookID uuid.UUID, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	links := make([]domain.WebhookProject, 0, len(projectIDs))
	for _, projectID := range projectIDs {
		links = append(links, domain.WebhookProject{WebhookID: webhookID, ProjectID: projectID})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *repository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Webhook, error) {
	var webhook domain.Webhook
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&webhook).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	webhooks := []domain.Webhook{webhook}
	if err := r.attachProjects(ctx, webhooks); err != nil {
		return nil, err
	}
	return &webhooks[0], nil
}

func (r *repository) List(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]domain.Webhook, error) {
	var webhooks []domain.Webhook
	err := page.Apply(r.db.WithContext(ctx)).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&webhooks).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachProjects(ctx, webhooks); err != nil {
		return nil, err
	}
	return webhooks, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec(`DELETE FROM webhook_projects WHERE webhook_id = ?`, id).Error; err != nil {
		return err
	}
	return db.Exec(`DELETE FROM webhooks WHERE id = ?`, id).Error
}

func (r *repository) attachProjects(ctx context.Context, webhooks []domain.Webhook) error {
	if len(webhooks) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(webhooks))
	index := make(map[uuid.UUID]int, len(webhooks))
	for i := range webhooks {
		ids = append(ids, webhooks[i].ID)
		index[webhooks[i].ID] = i
		webhooks[i].ProjectIDs = []uuid.UUID{}
	}

	var links []domain.WebhookProject
	if err := r.db.WithContext(ctx).
		Where("webhook_id IN ?", ids).
		Order("project_id").
		Find(&links).Error; err != nil {
		return err
	}
	for _, link := range links {
		i := index[link.WebhookID]
		webhooks[i].ProjectIDs = append(webhooks[i].ProjectIDs, link.ProjectID)
	}
	return nil
}
