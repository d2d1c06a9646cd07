package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
	"gorm.io/gorm"
)

// Repository finders return (nil, nil) when no row matches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	InsertInvite(ctx context.Context, invite Invite) error
	FindInvite(ctx context.Context, id uuid.UUID) (*Invite, error)
	FindSentInvite(ctx context.Context, orgID uuid.UUID, email string) (*Invite, error)
	// TransitionInvite moves an invite out of from. It reports false when the
	// invite was no longer in that state.
	TransitionInvite(ctx context.Context, id uuid.UUID, from, to InviteStatus, at time.Time) (bool, error)
	ListInvites(ctx context.Context, orgID uuid.UUID, status *InviteStatus, page pagination.Page) ([]Invite, error)

	InsertMember(ctx context.Context, member Member) error
	FindMember(ctx context.Context, orgID, id uuid.UUID) (*Member, error)
	SetMemberDeactivatedAt(ctx context.Context, id uuid.UUID, at *time.Time) error
	ListMembers(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]Member, error)
}
