package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/clock"
	"github.com/holaplex/hub-orgs/internal/events"
	"github.com/holaplex/hub-orgs/internal/identity"
	"github.com/holaplex/hub-orgs/internal/membership/domain"
	"github.com/holaplex/hub-orgs/internal/membership/repository"
	orgdomain "github.com/holaplex/hub-orgs/internal/organization/domain"
	orgrepository "github.com/holaplex/hub-orgs/internal/organization/repository"
	"github.com/holaplex/hub-orgs/pkg/db/dbtest"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// blindRepo never sees existing invites, leaving the unique index as the only guard.
type blindRepo struct {
	domain.Repository
}

func (r blindRepo) WithTx(tx *gorm.DB) domain.Repository {
	return blindRepo{Repository: r.Repository.WithTx(tx)}
}

func (r blindRepo) FindSentInvite(context.Context, uuid.UUID, string) (*domain.Invite, error) {
	return nil, nil
}

type fixture struct {
	db  *gorm.DB
	svc domain.Service
	org orgdomain.Organization
}

func setup(t *testing.T, wrap func(domain.Repository) domain.Repository) fixture {
	t.Helper()
	db := dbtest.Open(t, &orgdomain.Organization{}, &domain.Invite{}, &domain.Member{}, &events.Record{})
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX ux_invites_pending ON invites (organization_id, email) WHERE status = 'sent'`,
	).Error)

	org := orgdomain.Organization{
		ID:        uuid.New(),
		Name:      "Holaplex",
		Slug:      "holaplex",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&org).Error)

	clk := clock.NewSteppingClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Second)
	repo := repository.NewRepository(db)
	if wrap != nil {
		repo = wrap(repo)
	}
	svc := New(Params{
		DB:            db,
		Log:           zaptest.NewLogger(t),
		Repo:          repo,
		Organizations: orgrepository.NewRepository(db),
		Publisher:     events.NewOutboxPublisher(db, dbtest.Node(t), clk),
		Clock:         clk,
	})
	return fixture{db: db, svc: svc, org: org}
}

func (f fixture) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func TestInviteMemberLowercasesAndPublishes(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	inviter := uuid.New()

	invite, err := f.svc.InviteMember(ctx, f.org.ID, identity.New(inviter, ""), domain.InviteMemberRequest{Email: "  Ada@Example.COM "})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", invite.Email)
	assert.Equal(t, domain.InviteStatusSent, invite.Status)
	assert.Equal(t, inviter, invite.CreatedBy)
	assert.Nil(t, invite.UpdatedAt)

	var record events.Record
	require.NoError(t, f.db.Where("topic = ?", events.TopicInvitationSent).First(&record).Error)
	var payload events.InvitationPayload
	require.NoError(t, json.Unmarshal(record.Payload, &payload))
	assert.Equal(t, "Holaplex", payload.OrganizationName)
	assert.Equal(t, "ada@example.com", payload.Email)
	assert.Equal(t, invite.ID.String(), payload.InviteID)
}

func TestInviteMemberRejectsDuplicatePendingInvite(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	caller := identity.New(uuid.New(), "")

	first, err := f.svc.InviteMember(ctx, f.org.ID, caller, domain.InviteMemberRequest{Email: "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusSent, first.Status)

	_, err = f.svc.InviteMember(ctx, f.org.ID, caller, domain.InviteMemberRequest{Email: "A@B.com"})
	assert.ErrorIs(t, err, domain.ErrInviteAlreadyExists)

	assert.Equal(t, int64(1), f.count(t, &domain.Invite{}, "organization_id = ? AND status = ?", f.org.ID, domain.InviteStatusSent))
	assert.Equal(t, int64(1), f.count(t, &events.Record{}, "topic = ?", events.TopicInvitationSent))
}

func TestInviteMemberUniqueIndexBackstop(t *testing.T) {
	f := setup(t, func(r domain.Repository) domain.Repository { return blindRepo{Repository: r} })
	ctx := context.Background()
	caller := identity.New(uuid.New(), "")

	_, err := f.svc.InviteMember(ctx, f.org.ID, caller, domain.InviteMemberRequest{Email: "a@b.com"})
	require.NoError(t, err)

	_, err = f.svc.InviteMember(ctx, f.org.ID, caller, domain.InviteMemberRequest{Email: "a@b.com"})
	assert.ErrorIs(t, err, domain.ErrInviteAlreadyExists)
	assert.Equal(t, int64(1), f.count(t, &domain.Invite{}, "email = ?", "a@b.com"))
}

func TestInviteMemberValidation(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	_, err := f.svc.InviteMember(ctx, f.org.ID, identity.Identity{}, domain.InviteMemberRequest{Email: "a@b.com"})
	assert.ErrorIs(t, err, identity.ErrAuthenticationRequired)

	_, err = f.svc.InviteMember(ctx, f.org.ID, identity.New(uuid.New(), ""), domain.InviteMemberRequest{Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = f.svc.InviteMember(ctx, uuid.New(), identity.New(uuid.New(), ""), domain.InviteMemberRequest{Email: "a@b.com"})
	assert.ErrorIs(t, err, orgdomain.ErrNotFound)

	assert.Equal(t, int64(0), f.count(t, &domain.Invite{}, "1 = 1"))
	assert.Equal(t, int64(0), f.count(t, &events.Record{}, "1 = 1"))
}

func TestAcceptInviteIgnoresEmailCase(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	invite, err := f.svc.InviteMember(ctx, f.org.ID, identity.New(uuid.New(), ""), domain.InviteMemberRequest{Email: "X@Y.com"})
	require.NoError(t, err)

	invitee := uuid.New()
	accepted, err := f.svc.AcceptInvite(ctx, invite.ID, identity.New(invitee, "x@y.com"))
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.UpdatedAt)

	var member domain.Member
	require.NoError(t, f.db.Where("invite_id = ?", invite.ID).First(&member).Error)
	assert.Equal(t, invitee, member.UserID)
	assert.Equal(t, f.org.ID, member.OrganizationID)
	assert.True(t, member.Active())

	assert.Equal(t, int64(1), f.count(t, &events.Record{}, "topic = ?", events.TopicMemberAdded))
	assert.Equal(t, int64(1), f.count(t, &events.Record{}, "topic = ?", events.TopicInvitationAccepted))

	stored, err := f.svc.GetInvite(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusAccepted, stored.Status)
}

func TestAcceptInviteEmailMismatch(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	invite, err := f.svc.InviteMember(ctx, f.org.ID, identity.New(uuid.New(), ""), domain.InviteMemberRequest{Email: "X@Y.com"})
	require.NoError(t, err)

	_, err = f.svc.AcceptInvite(ctx, invite.ID, identity.New(uuid.New(), "other@z.com"))
	assert.ErrorIs(t, err, domain.ErrEmailMismatch)

	assert.Equal(t, int64(0), f.count(t, &domain.Member{}, "invite_id = ?", invite.ID))
	stored, err := f.svc.GetInvite(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusSent, stored.Status)
}

func TestAcceptInviteTwiceConflicts(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	invite, err := f.svc.InviteMember(ctx, f.org.ID, identity.New(uuid.New(), ""), domain.InviteMemberRequest{Email: "a@b.com"})
	require.NoError(t, err)

	caller := identity.New(uuid.New(), "a@b.com")
	_, err = f.svc.AcceptInvite(ctx, invite.ID, caller)
	require.NoError(t, err)

	_, err = f.svc.AcceptInvite(ctx, invite.ID, caller)
	assert.ErrorIs(t, err, domain.ErrInviteAlreadyUsed)
	assert.Equal(t, int64(1), f.count(t, &domain.Member{}, "invite_id = ?", invite.ID))
}

func TestAcceptInviteRequiresEmailAndExistingInvite(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	_, err := f.svc.AcceptInvite(ctx, uuid.New(), identity.New(uuid.New(), ""))
	assert.ErrorIs(t, err, identity.ErrAuthenticationRequired)

	_, err = f.svc.AcceptInvite(ctx, uuid.New(), identity.New(uuid.New(), "a@b.com"))
	assert.ErrorIs(t, err, domain.ErrInviteNotFound)
}

func TestRevokeInvite(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	owner := identity.New(uuid.New(), "")

	invite, err := f.svc.InviteMember(ctx, f.org.ID, owner, domain.InviteMemberRequest{Email: "a@b.com"})
	require.NoError(t, err)

	_, err = f.svc.RevokeInvite(ctx, uuid.New(), invite.ID, owner)
	assert.ErrorIs(t, err, domain.ErrInviteNotFound)

	revoked, err := f.svc.RevokeInvite(ctx, f.org.ID, invite.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusRevoked, revoked.Status)

	_, err = f.svc.RevokeInvite(ctx, f.org.ID, invite.ID, owner)
	assert.ErrorIs(t, err, domain.ErrInviteNotPending)

	_, err = f.svc.AcceptInvite(ctx, invite.ID, identity.New(uuid.New(), "a@b.com"))
	assert.ErrorIs(t, err, domain.ErrInviteNotPending)

	again, err := f.svc.InviteMember(ctx, f.org.ID, owner, domain.InviteMemberRequest{Email: "a@b.com"})
	require.NoError(t, err)
	assert.NotEqual(t, invite.ID, again.ID)
	assert.Equal(t, int64(1), f.count(t, &events.Record{}, "topic = ?", events.TopicInvitationRevoked))
}

func TestListInvitesFiltersByStatus(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	owner := identity.New(uuid.New(), "")

	for _, email := range []string{"a@b.com", "c@d.com", "e@f.com"} {
		_, err := f.svc.InviteMember(ctx, f.org.ID, owner, domain.InviteMemberRequest{Email: email})
		require.NoError(t, err)
	}
	invites, err := f.svc.ListInvites(ctx, f.org.ID, domain.ListInvitesRequest{})
	require.NoError(t, err)
	require.Len(t, invites, 3)
	assert.Equal(t, "e@f.com", invites[0].Email)
	assert.Equal(t, "a@b.com", invites[2].Email)

	_, err = f.svc.AcceptInvite(ctx, invites[1].ID, identity.New(uuid.New(), "c@d.com"))
	require.NoError(t, err)

	sent := domain.InviteStatusSent
	pending, err := f.svc.ListInvites(ctx, f.org.ID, domain.ListInvitesRequest{Status: &sent})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	window, err := f.svc.ListInvites(ctx, f.org.ID, domain.ListInvitesRequest{Page: pagination.Page{Limit: 1, Offset: 2}})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "a@b.com", window[0].Email)

	bogus := domain.InviteStatus("pending")
	_, err = f.svc.ListInvites(ctx, f.org.ID, domain.ListInvitesRequest{Status: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDeactivateAndReactivateMember(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	owner := identity.New(uuid.New(), "")

	invite, err := f.svc.InviteMember(ctx, f.org.ID, owner, domain.InviteMemberRequest{Email: "a@b.com"})
	require.NoError(t, err)
	_, err = f.svc.AcceptInvite(ctx, invite.ID, identity.New(uuid.New(), "a@b.com"))
	require.NoError(t, err)

	members, err := f.svc.ListMembers(ctx, f.org.ID, pagination.Page{})
	require.NoError(t, err)
	require.Len(t, members, 1)
	memberID := members[0].ID

	_, err = f.svc.DeactivateMember(ctx, uuid.New(), memberID, owner)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	deactivated, err := f.svc.DeactivateMember(ctx, f.org.ID, memberID, owner)
	require.NoError(t, err)
	require.NotNil(t, deactivated.DeactivatedAt)
	assert.False(t, deactivated.Active())

	_, err = f.svc.DeactivateMember(ctx, f.org.ID, memberID, owner)
	require.NoError(t, err)

	reactivated, err := f.svc.ReactivateMember(ctx, f.org.ID, memberID, owner)
	require.NoError(t, err)
	assert.Nil(t, reactivated.DeactivatedAt)

	stored, err := f.svc.GetMember(ctx, f.org.ID, memberID)
	require.NoError(t, err)
	assert.True(t, stored.Active())

	assert.Equal(t, int64(2), f.count(t, &events.Record{}, "topic = ?", events.TopicMemberDeactivated))
	assert.Equal(t, int64(1), f.count(t, &events.Record{}, "topic = ?", events.TopicMemberReactivated))
}
