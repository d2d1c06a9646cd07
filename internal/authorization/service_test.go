package authorization

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	memberdomain "github.com/holaplex/hub-orgs/internal/membership/domain"
	orgdomain "github.com/holaplex/hub-orgs/internal/organization/domain"
	"github.com/holaplex/hub-orgs/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, Service) {
	t.Helper()
	db := dbtest.Open(t, &orgdomain.Owner{}, &memberdomain.Member{})
	enforcer, err := NewEnforcer(db)
	require.NoError(t, err)
	return db, NewService(Params{DB: db, Log: zaptest.NewLogger(t), Enforcer: enforcer})
}

func TestOwnerAndMemberPermissions(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	orgID := uuid.New()
	ownerID, memberID, strangerID := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, db.Create(&orgdomain.Owner{ID: uuid.New(), UserID: ownerID, OrganizationID: orgID, CreatedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&memberdomain.Member{
		ID: uuid.New(), UserID: memberID, OrganizationID: orgID, InviteID: uuid.New(), CreatedAt: time.Now(),
	}).Error)

	tests := []struct {
		name    string
		user    uuid.UUID
		object  string
		action  string
		allowed bool
	}{
		{"owner edits organization", ownerID, ObjectOrganization, ActionOrganizationEdit, true},
		{"owner creates credential", ownerID, ObjectCredential, ActionCredentialCreate, true},
		{"owner invites", ownerID, ObjectInvite, ActionInviteCreate, true},
		{"member invites", memberID, ObjectInvite, ActionInviteCreate, true},
		{"member creates project", memberID, ObjectProject, ActionProjectCreate, true},
		{"member cannot edit organization", memberID, ObjectOrganization, ActionOrganizationEdit, false},
		{"member cannot revoke invites", memberID, ObjectInvite, ActionInviteRevoke, false},
		{"member cannot delete webhooks", memberID, ObjectWebhook, ActionWebhookDelete, false},
		{"stranger cannot view", strangerID, ObjectProject, ActionProjectView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Authorize(ctx, tt.user, orgID, tt.object, tt.action)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}

	// Ownership of one organization grants nothing in another.
	assert.ErrorIs(t, svc.Authorize(ctx, ownerID, uuid.New(), ObjectProject, ActionProjectView), ErrForbidden)
}

func TestDeactivatedMemberLosesRole(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	orgID, userID := uuid.New(), uuid.New()

	member := memberdomain.Member{ID: uuid.New(), UserID: userID, OrganizationID: orgID, InviteID: uuid.New(), CreatedAt: time.Now()}
	require.NoError(t, db.Create(&member).Error)
	require.NoError(t, svc.Authorize(ctx, userID, orgID, ObjectProject, ActionProjectCreate))

	require.NoError(t, db.Model(&memberdomain.Member{}).Where("id = ?", member.ID).Update("deactivated_at", time.Now()).Error)
	assert.ErrorIs(t, svc.Authorize(ctx, userID, orgID, ObjectProject, ActionProjectCreate), ErrForbidden)
}

func TestAuthorizeValidatesInput(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Authorize(ctx, uuid.Nil, uuid.New(), ObjectProject, ActionProjectView), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, uuid.New(), uuid.Nil, ObjectProject, ActionProjectView), ErrInvalidOrganization)
	assert.ErrorIs(t, svc.Authorize(ctx, uuid.New(), uuid.New(), " ", ActionProjectView), ErrInvalidObject)
	assert.ErrorIs(t, svc.Authorize(ctx, uuid.New(), uuid.New(), ObjectProject, ""), ErrInvalidAction)
}

func TestEnforcerWithoutAdapter(t *testing.T) {
	enforcer, err := newEnforcer(nil)
	require.NoError(t, err)

	ok, err := enforcer.HasPolicy(RoleOwner, ObjectWebhook, ActionWebhookCreate)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = enforcer.HasPolicy(RoleMember, ObjectWebhook, ActionWebhookCreate)
	require.NoError(t, err)
	assert.False(t, ok)
}
