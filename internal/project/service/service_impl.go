package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/clock"
	"github.com/holaplex/hub-orgs/internal/events"
	"github.com/holaplex/hub-orgs/internal/identity"
	"github.com/holaplex/hub-orgs/internal/project/domain"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      domain.Repository
	Publisher events.Publisher
	Clock     clock.Clock
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	publisher events.Publisher
	clock     clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("project.service"),
		repo:      p.Repo,
		publisher: p.Publisher,
		clock:     p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, caller identity.Identity, req domain.CreateProjectRequest) (*domain.Project, error) {
	userID, err := caller.RequireUser()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	project := domain.Project{
		ID:              uuid.New(),
		Name:            name,
		OrganizationID:  orgID,
		ProfileImageURL: trimOptional(req.ProfileImageURL),
		CreatedAt:       s.clock.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Insert(ctx, project); err != nil {
			return err
		}
		return s.publisher.WithTx(tx).Publish(ctx, events.Event{
			Topic:          events.TopicProjectCreated,
			OrganizationID: orgID,
			Key:            events.Key{ID: project.ID, UserID: &userID},
			Payload:        events.ProjectPayload{Name: project.Name, ProfileImageURL: project.ProfileImageURL},
		})
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Service) Edit(ctx context.Context, orgID, id uuid.UUID, req domain.EditProjectRequest) (*domain.Project, error) {
	project, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		project.Name = name
	}
	if req.ProfileImageURL != nil {
		project.ProfileImageURL = trimOptional(req.ProfileImageURL)
	}

	if err := s.repo.Update(ctx, *project); err != nil {
		return nil, err
	}
	return project, nil
}

// Deactivate stamps deactivated_at once; the project row is kept.
func (s *Service) Deactivate(ctx context.Context, orgID, id uuid.UUID, caller identity.Identity) (*domain.Project, error) {
	var project *domain.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		found, err := repo.FindByID(ctx, orgID, id)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.ErrNotFound
		}
		if found.DeactivatedAt != nil {
			return domain.ErrAlreadyDeactivated
		}

		now := s.clock.Now()
		if err := repo.Deactivate(ctx, orgID, id, now); err != nil {
			return err
		}
		found.DeactivatedAt = &now
		project = found

		return s.publisher.WithTx(tx).Publish(ctx, events.Event{
			Topic:          events.TopicProjectDeactivated,
			OrganizationID: orgID,
			Key:            events.Key{ID: id, UserID: caller.UserID},
			Payload:        events.ProjectPayload{Name: found.Name, ProfileImageURL: found.ProfileImageURL},
		})
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*domain.Project, error) {
	project, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	return project, nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]domain.Project, error) {
	return s.repo.List(ctx, orgID, page)
}

func (s *Service) EnsureInOrganization(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) error {
	return EnsureInOrganization(ctx, s.repo, orgID, ids)
}

// EnsureInOrganization is exposed for callers that already hold a transaction-bound repository.
func EnsureInOrganization(ctx context.Context, repo domain.Repository, orgID uuid.UUID, ids []uuid.UUID) error {
	unique := Dedupe(ids)
	if len(unique) == 0 {
		return nil
	}
	count, err := repo.CountInOrganization(ctx, orgID, unique)
	if err != nil {
		return err
	}
	if count != int64(len(unique)) {
		return domain.ErrNotFound
	}
	return nil
}

// Dedupe drops repeated ids, keeping first-seen order.
func Dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
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
