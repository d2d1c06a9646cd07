package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/affiliation/domain"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:  p.Log.Named("affiliation.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, page pagination.Page) ([]domain.Affiliation, error) {
	all, err := s.all(ctx, userID)
	if err != nil {
		return nil, err
	}
	return pagination.Slice(all, page), nil
}

func (s *Service) OrganizationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	all, err := s.all(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.OrganizationIDs(all), nil
}

func (s *Service) LoginRoute(ctx context.Context, userID uuid.UUID) (domain.Route, error) {
	ids, err := s.OrganizationIDs(ctx, userID)
	if err != nil {
		return domain.Route{}, err
	}
	return domain.RouteFor(ids), nil
}

func (s *Service) SelectOrganization(ctx context.Context, userID, orgID uuid.UUID) error {
	ids, err := s.OrganizationIDs(ctx, userID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == orgID {
			return nil
		}
	}
	return domain.ErrNotAffiliated
}

// all concatenates owners before members. There is no interleaving by time
// across the two kinds.
func (s *Service) all(ctx context.Context, userID uuid.UUID) ([]domain.Affiliation, error) {
	owners, err := s.repo.OwnersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.MembersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Affiliation, 0, len(owners)+len(members))
	for _, owner := range owners {
		out = append(out, domain.FromOwner(owner))
	}
	for _, member := range members {
		out = append(out, domain.FromMember(member))
	}
	return out, nil
}
