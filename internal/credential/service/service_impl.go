package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/clock"
	"github.com/holaplex/hub-orgs/internal/credential/domain"
	"github.com/holaplex/hub-orgs/internal/events"
	"github.com/holaplex/hub-orgs/internal/identity"
	"github.com/holaplex/hub-orgs/internal/observability/logger"
	projectdomain "github.com/holaplex/hub-orgs/internal/project/domain"
	projectservice "github.com/holaplex/hub-orgs/internal/project/service"
	"github.com/holaplex/hub-orgs/internal/providers"
	"github.com/holaplex/hub-orgs/internal/providers/oauthclient"
	"github.com/holaplex/hub-orgs/internal/saga"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resource = "credential"

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      domain.Repository
	Projects  projectdomain.Repository
	Provider  oauthclient.Provider
	Runner    *saga.Runner
	Publisher events.Publisher
	Clock     clock.Clock
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	projects  projectdomain.Repository
	provider  oauthclient.Provider
	runner    *saga.Runner
	publisher events.Publisher
	clock     clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("credential.service"),
		repo:      p.Repo,
		projects:  p.Projects,
		provider:  p.Provider,
		runner:    p.Runner,
		publisher: p.Publisher,
		clock:     p.Clock,
	}
}

// Create registers the OAuth2 client first and records it locally second. If
// the local write fails the client is deleted again.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, caller identity.Identity, req domain.CreateCredentialRequest) (*domain.CreatedCredential, error) {
	userID, err := caller.RequireUser()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	projectIDs := projectservice.Dedupe(req.ProjectIDs)
	if err := projectservice.EnsureInOrganization(ctx, s.projects, orgID, projectIDs); err != nil {
		return nil, err
	}

	credential := domain.Credential{
		ID:             uuid.New(),
		Name:           name,
		OrganizationID: orgID,
		CreatedBy:      userID,
		ProjectIDs:     projectIDs,
	}

	client, _, err := saga.Run(ctx, s.runner, saga.Step[*oauthclient.Client]{
		Resource: resource,
		Remote: func(ctx context.Context) (*oauthclient.Client, error) {
			return s.provider.CreateClient(ctx, oauthclient.CreateClientRequest{Name: name, Owner: orgID.String()})
		},
		Local: func(ctx context.Context, client *oauthclient.Client) error {
			credential.ClientID = client.ID
			credential.CreatedAt = s.clock.Now()
			return s.persist(ctx, userID, credential)
		},
		Compensate: func(ctx context.Context, client *oauthclient.Client) error {
			if err := s.provider.DeleteClient(ctx, client.ID); err != nil && !providers.IsNotFound(err) {
				return err
			}
			return nil
		},
		Fields: func(client *oauthclient.Client) []zap.Field {
			return []zap.Field{
				zap.String("organization_id", orgID.String()),
				zap.String("client_id", client.ID),
			}
		},
	})
	if err != nil {
		return nil, err
	}

	return &domain.CreatedCredential{
		Credential:   credential,
		ClientSecret: client.Secret,
		Registration: client.Registration,
	}, nil
}

func (s *Service) persist(ctx context.Context, userID uuid.UUID, credential domain.Credential) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Insert(ctx, credential); err != nil {
			return err
		}
		if err := repo.LinkProjects(ctx, credential.ID, credential.ProjectIDs); err != nil {
			return err
		}
		return s.publisher.WithTx(tx).Publish(ctx, events.Event{
			Topic:          events.TopicCredentialCreated,
			OrganizationID: credential.OrganizationID,
			Key:            events.Key{ID: credential.ID, UserID: &userID},
			Payload: events.CredentialPayload{
				Name:       credential.Name,
				ClientID:   credential.ClientID,
				ProjectIDs: credential.ProjectIDs,
			},
		})
	})
}

func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID, caller identity.Identity) error {
	credential, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}

	if err := s.provider.DeleteClient(ctx, credential.ClientID); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, credential.ID); err != nil {
			return err
		}
		return s.publisher.WithTx(tx).Publish(ctx, events.Event{
			Topic:          events.TopicCredentialDeleted,
			OrganizationID: orgID,
			Key:            events.Key{ID: credential.ID, UserID: caller.UserID},
			Payload: events.CredentialPayload{
				Name:       credential.Name,
				ClientID:   credential.ClientID,
				ProjectIDs: credential.ProjectIDs,
			},
		})
	})
	if err != nil {
		logger.WithContext(ctx, s.log).Error("credential row kept after provider client deletion",
			zap.Bool("reconciliation_required", true),
			zap.String("credential_id", credential.ID.String()),
			zap.String("client_id", credential.ClientID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*domain.Credential, error) {
	credential, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if credential == nil {
		return nil, domain.ErrNotFound
	}
	return credential, nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]domain.Credential, error) {
	return s.repo.List(ctx, orgID, page)
}
