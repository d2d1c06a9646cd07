package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/clock"
	"github.com/holaplex/hub-orgs/internal/events"
	"github.com/holaplex/hub-orgs/internal/identity"
	"github.com/holaplex/hub-orgs/internal/membership/domain"
	"github.com/holaplex/hub-orgs/internal/observability/logger"
	obsmetrics "github.com/holaplex/hub-orgs/internal/observability/metrics"
	orgdomain "github.com/holaplex/hub-orgs/internal/organization/domain"
	"github.com/holaplex/hub-orgs/pkg/db"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Repo          domain.Repository
	Organizations orgdomain.Repository
	Publisher     events.Publisher
	Clock         clock.Clock
	Metrics       *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	orgs      orgdomain.Repository
	publisher events.Publisher
	clock     clock.Clock
	metrics   *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("membership.service"),
		repo:      p.Repo,
		orgs:      p.Organizations,
		publisher: p.Publisher,
		clock:     p.Clock,
		metrics:   p.Metrics,
	}
}

func (s *Service) InviteMember(ctx context.Context, orgID uuid.UUID, caller identity.Identity, req domain.InviteMemberRequest) (*domain.Invite, error) {
	userID, err := caller.RequireUser()
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	invite := domain.Invite{
		ID:             uuid.New(),
		Email:          email,
		Status:         domain.InviteStatusSent,
		OrganizationID: orgID,
		CreatedBy:      userID,
		CreatedAt:      s.clock.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindSentInvite(ctx, orgID, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrInviteAlreadyExists
		}

		org, err := s.orgs.WithTx(tx).FindByID(ctx, orgID)
		if err != nil {
			return err
		}
		if org == nil {
			return orgdomain.ErrNotFound
		}

		if err := repo.InsertInvite(ctx, invite); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrInviteAlreadyExists
			}
			return err
		}

		return s.publisher.WithTx(tx).Publish(ctx, events.Event{
			Topic:          events.TopicInvitationSent,
			OrganizationID: orgID,
			Key:            events.Key{ID: invite.ID, UserID: &userID},
			Payload: events.InvitationPayload{
				OrganizationName: org.Name,
				Email:            invite.Email,
				InviteID:         invite.ID.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordInviteTransition(ctx, string(domain.InviteStatusSent))
	return &invite, nil
}

// AcceptInvite turns a sent invite into a membership for the caller. The
// caller's email must match the invite.
func (s *Service) AcceptInvite(ctx context.Context, inviteID uuid.UUID, caller identity.Identity) (*domain.Invite, error) {
	userID, userEmail, err := caller.RequireUserAndEmail()
	if err != nil {
		return nil, err
	}

	var accepted *domain.Invite
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		invite, err := repo.FindInvite(ctx, inviteID)
		if err != nil {
			return err
		}
		if invite == nil {
			return domain.ErrInviteNotFound
		}
		if !strings.EqualFold(strings.TrimSpace(invite.Email), strings.TrimSpace(userEmail)) {
			return domain.ErrEmailMismatch
		}
		if invite.Status == domain.InviteStatusAccepted {
			return domain.ErrInviteAlreadyUsed
		}
		if invite.Status != domain.InviteStatusSent {
			return domain.ErrInviteNotPending
		}

		now := s.clock.Now()
		moved, err := repo.TransitionInvite(ctx, invite.ID, domain.InviteStatusSent, domain.InviteStatusAccepted, now)
		if err != nil {
			return err
		}
		if !moved {
			return domain.ErrInviteAlreadyUsed
		}

		member := domain.Member{
			ID:             uuid.New(),
			UserID:         userID,
			OrganizationID: invite.OrganizationID,
			InviteID:       invite.ID,
			CreatedAt:      now,
		}
		if err := repo.InsertMember(ctx, member); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrInviteAlreadyUsed
			}
			return err
		}

		publisher := s.publisher.WithTx(tx)
		if err := publisher.Publish(ctx, events.Event{
			Topic:          events.TopicInvitationAccepted,
			OrganizationID: invite.OrganizationID,
			Key:            events.Key{ID: invite.ID, UserID: &userID},
			Payload: events.InvitationPayload{
				Email:    invite.Email,
				InviteID: invite.ID.String(),
			},
		}); err != nil {
			return err
		}
		if err := publisher.Publish(ctx, events.Event{
			Topic:          events.TopicMemberAdded,
			OrganizationID: invite.OrganizationID,
			Key:            events.Key{ID: member.ID, UserID: &userID},
			Payload:        events.MemberPayload{OrganizationID: invite.OrganizationID, InviteID: &invite.ID},
		}); err != nil {
			return err
		}

		invite.Status = domain.InviteStatusAccepted
		invite.UpdatedAt = &now
		accepted = invite
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailMismatch) {
			logger.WithContext(ctx, s.log).Warn("invite accept rejected",
				zap.String("invite_id", inviteID.String()),
				zap.String("user_id", userID.String()),
			)
		}
		return nil, err
	}

	s.metrics.RecordInviteTransition(ctx, string(domain.InviteStatusAccepted))
	s.metrics.RecordMemberTransition(ctx, "added")
	return accepted, nil
}

func (s *Service) RevokeInvite(ctx context.Context, orgID, inviteID uuid.UUID, caller identity.Identity) (*domain.Invite, error) {
	var revoked *domain.Invite
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		invite, err := repo.FindInvite(ctx, inviteID)
		if err != nil {
			return err
		}
		if invite == nil || invite.OrganizationID != orgID {
			return domain.ErrInviteNotFound
		}
		if invite.Status != domain.InviteStatusSent {
			return domain.ErrInviteNotPending
		}

		now := s.clock.Now()
		moved, err := repo.TransitionInvite(ctx, invite.ID, domain.InviteStatusSent, domain.InviteStatusRevoked, now)
		if err != nil {
			return err
		}
		if !moved {
			return domain.ErrInviteNotPending
		}

		invite.Status = domain.InviteStatusRevoked
		invite.UpdatedAt = &now
		revoked = invite

		return s.publisher.WithTx(tx).Publish(ctx, events.Event{
			Topic:          events.TopicInvitationRevoked,
			OrganizationID: orgID,
			Key:            events.Key{ID: invite.ID, UserID: caller.UserID},
			Payload: events.InvitationPayload{
				Email:    invite.Email,
				InviteID: invite.ID.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordInviteTransition(ctx, string(domain.InviteStatusRevoked))
	return revoked, nil
}

func (s *Service) GetInvite(ctx context.Context, id uuid.UUID) (*domain.Invite, error) {
	invite, err := s.repo.FindInvite(ctx, id)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, domain.ErrInviteNotFound
	}
	return invite, nil
}

func (s *Service) ListInvites(ctx context.Context, orgID uuid.UUID, req domain.ListInvitesRequest) ([]domain.Invite, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.ListInvites(ctx, orgID, req.Status, req.Page)
}

func (s *Service) DeactivateMember(ctx context.Context, orgID, memberID uuid.UUID, caller identity.Identity) (*domain.Member, error) {
	now := s.clock.Now()
	return s.setDeactivatedAt(ctx, orgID, memberID, &now, events.TopicMemberDeactivated, "deactivated")
}

func (s *Service) ReactivateMember(ctx context.Context, orgID, memberID uuid.UUID, caller identity.Identity) (*domain.Member, error) {
	return s.setDeactivatedAt(ctx, orgID, memberID, nil, events.TopicMemberReactivated, "reactivated")
}

// setDeactivatedAt is a plain field write; repeating it is harmless.
func (s *Service) setDeactivatedAt(ctx context.Context, orgID, memberID uuid.UUID, at *time.Time, topic, transition string) (*domain.Member, error) {
	var member *domain.Member
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindMember(ctx, orgID, memberID)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.ErrMemberNotFound
		}
		if err := repo.SetMemberDeactivatedAt(ctx, found.ID, at); err != nil {
			return err
		}
		found.DeactivatedAt = at
		member = found

		return s.publisher.WithTx(tx).Publish(ctx, events.Event{
			Topic:          topic,
			OrganizationID: orgID,
			Key:            events.Key{ID: found.ID, UserID: &found.UserID},
			Payload:        events.MemberPayload{OrganizationID: orgID, InviteID: &found.InviteID},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordMemberTransition(ctx, transition)
	return member, nil
}

func (s *Service) GetMember(ctx context.Context, orgID, id uuid.UUID) (*domain.Member, error) {
	member, err := s.repo.FindMember(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}
	return member, nil
}

func (s *Service) ListMembers(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]domain.Member, error) {
	return s.repo.ListMembers(ctx, orgID, page)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}
