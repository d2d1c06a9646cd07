package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/identity"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
)

type Service interface {
	InviteMember(ctx context.Context, orgID uuid.UUID, caller identity.Identity, req InviteMemberRequest) (*Invite, error)
	AcceptInvite(ctx context.Context, inviteID uuid.UUID, caller identity.Identity) (*Invite, error)
	RevokeInvite(ctx context.Context, orgID, inviteID uuid.UUID, caller identity.Identity) (*Invite, error)
	GetInvite(ctx context.Context, id uuid.UUID) (*Invite, error)
	ListInvites(ctx context.Context, orgID uuid.UUID, req ListInvitesRequest) ([]Invite, error)

	DeactivateMember(ctx context.Context, orgID, memberID uuid.UUID, caller identity.Identity) (*Member, error)
	ReactivateMember(ctx context.Context, orgID, memberID uuid.UUID, caller identity.Identity) (*Member, error)
	GetMember(ctx context.Context, orgID, id uuid.UUID) (*Member, error)
	ListMembers(ctx context.Context, orgID uuid.UUID, page pagination.Page) ([]Member, error)
}

type InviteMemberRequest struct {
	Email string
}

type ListInvitesRequest struct {
	Status *InviteStatus
	Page   pagination.Page
}

var (
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidStatus       = errors.New("invalid_invite_status")
	ErrInviteNotFound      = errors.New("invite_not_found")
	ErrInviteAlreadyExists = errors.New("invite_already_exists")
	ErrInviteNotPending    = errors.New("invite_not_pending")
	ErrInviteAlreadyUsed   = errors.New("invite_already_accepted")
	ErrEmailMismatch       = errors.New("user email does not match the invite")
	ErrMemberNotFound      = errors.New("member_not_found")
)
