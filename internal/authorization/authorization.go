package authorization

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

const (
	ObjectOrganization = "organization"
	ObjectProject      = "project"
	ObjectInvite       = "invite"
	ObjectMember       = "member"
	ObjectCredential   = "credential"
	ObjectWebhook      = "webhook"
)

const (
	ActionOrganizationView = "organization.view"
	ActionOrganizationEdit = "organization.edit"

	ActionProjectView       = "project.view"
	ActionProjectCreate     = "project.create"
	ActionProjectEdit       = "project.edit"
	ActionProjectDeactivate = "project.deactivate"

	ActionInviteView   = "invite.view"
	ActionInviteCreate = "invite.create"
	ActionInviteRevoke = "invite.revoke"

	ActionMemberView       = "member.view"
	ActionMemberDeactivate = "member.deactivate"
	ActionMemberReactivate = "member.reactivate"

	ActionCredentialView   = "credential.view"
	ActionCredentialCreate = "credential.create"
	ActionCredentialDelete = "credential.delete"

	ActionWebhookView   = "webhook.view"
	ActionWebhookCreate = "webhook.create"
	ActionWebhookDelete = "webhook.delete"
)

const (
	RoleOwner  = "role:owner"
	RoleMember = "role:member"
)

var (
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidActor        = errors.New("invalid_actor")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidObject       = errors.New("invalid_object")
	ErrInvalidAction       = errors.New("invalid_action")
)

// Service decides whether a user may act on an organization. Roles come from
// ownership and active membership rows.
type Service interface {
	Authorize(ctx context.Context, userID, orgID uuid.UUID, object, action string) error
}
