package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/holaplex/hub-orgs/internal/clock"
	"github.com/holaplex/hub-orgs/internal/events"
	"github.com/holaplex/hub-orgs/internal/identity"
	"github.com/holaplex/hub-orgs/internal/organization/domain"
	"github.com/holaplex/hub-orgs/internal/providers/webhookdelivery"
	"github.com/holaplex/hub-orgs/internal/saga"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Repo      domain.Repository
	Publisher events.Publisher
	Webhooks  webhookdelivery.Provider `optional:"true"`
	Runner    *saga.Runner
	Clock     clock.Clock
	Log       *zap.Logger
}

type service struct {
	db        *gorm.DB
	repo      domain.Repository
	publisher events.Publisher
	webhooks  webhookdelivery.Provider
	runner    *saga.Runner
	clock     clock.Clock
	log       *zap.Logger
}

func NewService(p Params) domain.Service {
	return &service{
		db:        p.DB,
		repo:      p.Repo,
		publisher: p.Publisher,
		webhooks:  p.Webhooks,
		runner:    p.Runner,
		clock:     p.Clock,
		log:       p.Log.Named("organization.service"),
	}
}

// Create inserts the organization and its owner in one transaction together with
// the OrganizationCreated event. When a delivery provider is configured the
// organization's webhook application is registered first and deleted again if
// the transaction fails.
func (s *service) Create(ctx context.Context, caller identity.Identity, req domain.CreateOrganizationRequest) (*domain.Organization, error) {
	userID, err := caller.RequireUser()
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	org := domain.Organization{
		ID:              uuid.New(),
		Name:            name,
		ProfileImageURL: trimOptional(req.ProfileImageURL),
		CreatedAt:       s.clock.Now(),
	}

	if s.webhooks == nil {
		if err := s.insert(ctx, &org, userID); err != nil {
			return nil, err
		}
		return &org, nil
	}

	_, _, err = saga.Run(ctx, s.runner, saga.Step[*webhookdelivery.Application]{
		Resource: "organization",
		Remote: func(ctx context.Context) (*webhookdelivery.Application, error) {
			return s.webhooks.CreateApplication(ctx, org.Name, org.ID.String())
		},
		Local: func(ctx context.Context, app *webhookdelivery.Application) error {
			org.SvixAppID = &app.ID
			return s.insert(ctx, &org, userID)
		},
		Compensate: func(ctx context.Context, app *webhookdelivery.Application) error {
			return s.webhooks.DeleteApplication(ctx, app.ID)
		},
		Fields: func(app *webhookdelivery.Application) []zap.Field {
			return []zap.Field{
				zap.String("organization_id", org.ID.String()),
				zap.String("svix_app_id", app.ID),
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (s *service) insert(ctx context.Context, org *domain.Organization, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		orgSlug, err := uniqueSlug(ctx, repo, org.Name, org.ID)
		if err != nil {
			return err
		}
		org.Slug = orgSlug

		if err := repo.CreateOrganization(ctx, *org); err != nil {
			return err
		}
		if err := repo.CreateOwner(ctx, domain.Owner{
			ID:             uuid.New(),
			UserID:         userID,
			OrganizationID: org.ID,
			CreatedAt:      org.CreatedAt,
		}); err != nil {
			return err
		}

		return s.publisher.WithTx(tx).Publish(ctx, events.Event{
			Topic:          events.TopicOrganizationCreated,
			OrganizationID: org.ID,
			Key:            events.Key{ID: org.ID, UserID: &userID},
			Payload:        events.OrganizationPayload{Name: org.Name, Slug: org.Slug},
		})
	})
}

func (s *service) Edit(ctx context.Context, id uuid.UUID, req domain.EditOrganizationRequest) (*domain.Organization, error) {
	org, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		org.Name = name
	}
	if req.ProfileImageURL != nil {
		org.ProfileImageURL = trimOptional(req.ProfileImageURL)
	}

	if err := s.repo.UpdateOrganization(ctx, *org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (s *service) GetBySlug(ctx context.Context, orgSlug string) (*domain.Organization, error) {
	orgSlug = strings.TrimSpace(orgSlug)
	if orgSlug == "" {
		return nil, domain.ErrInvalidSlug
	}
	org, err := s.repo.FindBySlug(ctx, orgSlug)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (s *service) GetOwner(ctx context.Context, orgID uuid.UUID) (*domain.Owner, error) {
	owner, err := s.repo.FindOwner(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, domain.ErrNotFound
	}
	return owner, nil
}

// uniqueSlug derives the slug from the name and falls back to suffixing the
// first eight hex characters of the id when it is taken.
func uniqueSlug(ctx context.Context, repo domain.Repository, name string, id uuid.UUID) (string, error) {
	suffix := strings.ReplaceAll(id.String(), "-", "")[:8]
	base := slug.Make(name)
	if base == "" {
		return suffix, nil
	}

	taken, err := repo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return base + "-" + suffix, nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
