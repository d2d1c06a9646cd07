package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/clock"
	"github.com/holaplex/hub-orgs/internal/identity"
	"github.com/holaplex/hub-orgs/internal/observability/logger"
	orgdomain "github.com/holaplex/hub-orgs/internal/organization/domain"
	projectdomain "github.com/holaplex/hub-orgs/internal/project/domain"
	projectservice "github.com/holaplex/hub-orgs/internal/project/service"
	"github.com/holaplex/hub-orgs/internal/providers"
	"github.com/holaplex/hub-orgs/internal/providers/webhookdelivery"
	"github.com/holaplex/hub-orgs/internal/saga"
	"github.com/holaplex/hub-orgs/internal/webhook/domain"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
	"github.com/lib/pq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	resource        = "webhook"
	endpointVersion = 1
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Repo          domain.Repository
	Organizations orgdomain.Repository
	Projects      projectdomain.Repository
	Provider      webhookdelivery.Provider `optional:"true"`
	Runner        *saga.Runner
	Clock         clock.Clock
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	orgs     orgdomain.Repository
	projects projectdomain.Repository
	provider webhookdelivery.Provider
	runner   *saga.Runner
	clock    clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("webhook.service"),
		repo:     p.Repo,
		orgs:     p.Organizations,
		projects: p.Projects,
		provider: p.Provider,
		runner:   p.Runner,
		clock:    p.Clock,
	}
}

// endpoint identifies a provider-side endpoint.
type endpoint struct {
	appID string
	id    string
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, caller identity.Identity, req domain.CreateWebhookRequest) (*domain.CreatedWebhook, error) {
	userID, err := caller.RequireUser()
	if err != nil {
		return nil, err
	}
	endpointURL, err := validateURL(req.URL)
	if err != nil {
		return nil, err
	}
	filterTypes, err := domain.EventTypes(req.FilterTypes)
	if err != nil {
		return nil, err
	}
	projectIDs := projectservice.Dedupe(req.ProjectIDs)
	if err := projectservice.EnsureInOrganization(ctx, s.projects, orgID, projectIDs); err != nil {
		return nil, err
	}
	appID, err := s.application(ctx, orgID)
	if err != nil {
		return nil, err
	}

	channels := make([]string, 0, len(projectIDs))
	for _, id := range projectIDs {
		channels = append(channels, id.String())
	}
	webhook := domain.Webhook{
		ID:             uuid.New(),
		OrganizationID: orgID,
		URL:            endpointURL,
		Description:    strings.TrimSpace(req.Description),
		FilterTypes:    pq.StringArray(filterTypes),
		CreatedBy:      userID,
		ProjectIDs:     projectIDs,
	}

	var secret string
	_, _, err = saga.Run(ctx, s.runner, saga.Step[endpoint]{
		Resource: resource,
		Remote: func(ctx context.Context) (endpoint, error) {
			ep, err := s.provider.CreateEndpoint(ctx, appID, webhookdelivery.EndpointIn{
				URL:         endpointURL,
				Version:     endpointVersion,
				Description: webhook.Description,
				FilterTypes: filterTypes,
				Channels:    channels,
			})
			if err != nil {
				return endpoint{}, err
			}
			return endpoint{appID: appID, id: ep.ID}, nil
		},
		// The secret is read here so that failing to read it also removes the endpoint.
		Local: func(ctx context.Context, ep endpoint) error {
			fetched, err := s.provider.GetEndpointSecret(ctx, ep.appID, ep.id)
			if err != nil {
				return err
			}
			webhook.EndpointID = ep.id
			webhook.CreatedAt = s.clock.Now()
			if err := s.persist(ctx, webhook); err != nil {
				return err
			}
			secret = fetched
			return nil
		},
		Compensate: func(ctx context.Context, ep endpoint) error {
			if err := s.provider.DeleteEndpoint(ctx, ep.appID, ep.id); err != nil && !providers.IsNotFound(err) {
				return err
			}
			return nil
		},
		Fields: func(ep endpoint) []zap.Field {
			return []zap.Field{
				zap.String("organization_id", orgID.String()),
				zap.String("svix_app_id", ep.appID),
				zap.String("endpoint_id", ep.id),
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return &domain.CreatedWebhook{Webhook: webhook, Secret: secret}, nil
}

func (s *Service) persist(ctx context.Context, webhook domain.Webhook) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Insert(ctx, webhook); err != nil {
			return err
		}
		return repo.LinkProjects(ctx, webhook.ID, webhook.ProjectIDs)
	})
}

// Delete removes the provider endpoint before the local row, so a provider
// failure leaves the row in place for a retry.
func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	appID, err := s.application(ctx, orgID)
	if err != nil {
		return err
	}
	webhook, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}

	if err := s.provider.DeleteEndpoint(ctx, appID, webhook.EndpointID); err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, webhook.ID)
	})
	if err != nil {
		logger.WithContext(ctx, s.log).Error("webhook row kept after provider endpoint deletion",
			zap.Bool("reconciliation_required", true),
			zap.String("webhook_id", webhook.ID.String()),
			zap.String("endpoint_id", webhook.EndpointID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*domain.Webhook, error) {
	webhook, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if webhook == nil {
		return nil, domain.ErrNotFound
	}
	return webhook, nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]domain.Webhook, error) {
	return s.repo.List(ctx, orgID, page)
}

// ListEventTypes is empty when webhook delivery is switched off.
func (s *Service) ListEventTypes(ctx context.Context) ([]webhookdelivery.EventType, error) {
	if s.provider == nil {
		return []webhookdelivery.EventType{}, nil
	}
	return s.provider.ListEventTypes(ctx)
}

// application resolves the organization's delivery application id.
func (s *Service) application(ctx context.Context, orgID uuid.UUID) (string, error) {
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return "", err
	}
	if org == nil {
		return "", orgdomain.ErrNotFound
	}
	if s.provider == nil || org.SvixAppID == nil || *org.SvixAppID == "" {
		return "", domain.ErrApplicationMissing
	}
	return *org.SvixAppID, nil
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", domain.ErrInvalidURL
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return "", domain.ErrInvalidURL
	}
	return raw, nil
}
