package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/affiliation/domain"
	memberdomain "github.com/holaplex/hub-orgs/internal/membership/domain"
	orgdomain "github.com/holaplex/hub-orgs/internal/organization/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) OwnersByUser(ctx context.Context, userID uuid.UUID) ([]orgdomain.Owner, error) {
	var owners []orgdomain.Owner
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&owners).Error
	return owners, err
}

func (r *repository) MembersByUser(ctx context.Context, userID uuid.UUID) ([]memberdomain.Member, error) {
	var members []memberdomain.Member
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Order("created_at DESC").
		Find(&members).Error
	return members, err
}
