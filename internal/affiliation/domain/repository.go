package domain

import (
	"context"

	"github.com/google/uuid"
	memberdomain "github.com/holaplex/hub-orgs/internal/membership/domain"
	orgdomain "github.com/holaplex/hub-orgs/internal/organization/domain"
)

type Repository interface {
	OwnersByUser(ctx context.Context, userID uuid.UUID) ([]orgdomain.Owner, error)
	// MembersByUser skips members whose membership was revoked.
	MembersByUser(ctx context.Context, userID uuid.UUID) ([]memberdomain.Member, error)
}
