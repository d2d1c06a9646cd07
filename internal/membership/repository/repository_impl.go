package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/membership/domain"
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

func (r *repository) InsertInvite(ctx context.Context, invite domain.Invite) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO invites (id, email, status, organization_id, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		invite.ID,
		invite.Email,
		invite.Status,
		invite.OrganizationID,
		invite.CreatedBy,
		invite.CreatedAt,
	).Error
}

func (r *repository) FindInvite(ctx context.Context, id uuid.UUID) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) FindSentInvite(ctx context.Context, orgID uuid.UUID, email string) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND email = ? AND status = ?", orgID, email, domain.InviteStatusSent).
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) TransitionInvite(ctx context.Context, id uuid.UUID, from, to domain.InviteStatus, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE invites SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to,
		at,
		id,
		from,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListInvites(ctx context.Context, orgID uuid.UUID, status *domain.InviteStatus, page pagination.Page) ([]domain.Invite, error) {
	query := page.Apply(r.db.WithContext(ctx)).Where("organization_id = ?", orgID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var invites []domain.Invite
	err := query.Order("created_at DESC").Find(&invites).Error
	return invites, err
}

func (r *repository) InsertMember(ctx context.Context, member domain.Member) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO members (id, user_id, organization_id, invite_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		member.ID,
		member.UserID,
		member.OrganizationID,
		member.InviteID,
		member.CreatedAt,
	).Error
}

func (r *repository) FindMember(ctx context.Context, orgID, id uuid.UUID) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) SetMemberDeactivatedAt(ctx context.Context, id uuid.UUID, at *time.Time) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE members SET deactivated_at = ? WHERE id = ?`,
		at,
		id,
	).Error
}

func (r *repository) ListMembers(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]domain.Member, error) {
	var members []domain.Member
	err := page.Apply(r.db.WithContext(ctx)).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&members).Error
	return members, err
}
