package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/clock"
	"github.com/holaplex/hub-orgs/internal/events"
	"github.com/holaplex/hub-orgs/internal/identity"
	"github.com/holaplex/hub-orgs/internal/project/domain"
	"github.com/holaplex/hub-orgs/internal/project/repository"
	"github.com/holaplex/hub-orgs/pkg/db/dbtest"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, domain.Service) {
	t.Helper()
	db := dbtest.Open(t, &domain.Project{}, &events.Record{})
	clk := clock.NewSteppingClock(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Minute)
	return db, New(Params{
		DB:        db,
		Log:       zaptest.NewLogger(t),
		Repo:      repository.NewRepository(db),
		Publisher: events.NewOutboxPublisher(db, dbtest.Node(t), clk),
		Clock:     clk,
	})
}

func TestCreateAndListNewestFirst(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	orgID := uuid.New()
	caller := identity.New(uuid.New(), "")

	for _, name := range []string{"alpha", "beta", "gamma"} {
		_, err := svc.Create(ctx, orgID, caller, domain.CreateProjectRequest{Name: name})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, uuid.New(), caller, domain.CreateProjectRequest{Name: "elsewhere"})
	require.NoError(t, err)

	projects, err := svc.List(ctx, orgID, pagination.Page{})
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "gamma", projects[0].Name)
	assert.Equal(t, "alpha", projects[2].Name)

	page, err := svc.List(ctx, orgID, pagination.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "beta", page[0].Name)

	var count int64
	require.NoError(t, db.Model(&events.Record{}).Where("topic = ?", events.TopicProjectCreated).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestGetIsScopedToOrganization(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()
	orgID := uuid.New()

	project, err := svc.Create(ctx, orgID, identity.New(uuid.New(), ""), domain.CreateProjectRequest{Name: "alpha"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, uuid.New(), project.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.Get(ctx, orgID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)
}

func TestEditAndDeactivate(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	orgID := uuid.New()
	caller := identity.New(uuid.New(), "")

	project, err := svc.Create(ctx, orgID, caller, domain.CreateProjectRequest{Name: "alpha"})
	require.NoError(t, err)

	name := "renamed"
	edited, err := svc.Edit(ctx, orgID, project.ID, domain.EditProjectRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", edited.Name)

	blank := " "
	_, err = svc.Edit(ctx, orgID, project.ID, domain.EditProjectRequest{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	deactivated, err := svc.Deactivate(ctx, orgID, project.ID, caller)
	require.NoError(t, err)
	require.NotNil(t, deactivated.DeactivatedAt)

	_, err = svc.Deactivate(ctx, orgID, project.ID, caller)
	assert.ErrorIs(t, err, domain.ErrAlreadyDeactivated)

	var count int64
	require.NoError(t, db.Model(&events.Record{}).Where("topic = ?", events.TopicProjectDeactivated).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureInOrganization(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()
	orgID := uuid.New()
	caller := identity.New(uuid.New(), "")

	p1, err := svc.Create(ctx, orgID, caller, domain.CreateProjectRequest{Name: "one"})
	require.NoError(t, err)
	p2, err := svc.Create(ctx, orgID, caller, domain.CreateProjectRequest{Name: "two"})
	require.NoError(t, err)
	foreign, err := svc.Create(ctx, uuid.New(), caller, domain.CreateProjectRequest{Name: "foreign"})
	require.NoError(t, err)

	assert.NoError(t, svc.EnsureInOrganization(ctx, orgID, nil))
	assert.NoError(t, svc.EnsureInOrganization(ctx, orgID, []uuid.UUID{p1.ID, p2.ID, p1.ID}))
	assert.ErrorIs(t, svc.EnsureInOrganization(ctx, orgID, []uuid.UUID{p1.ID, foreign.ID}), domain.ErrNotFound)
}

func TestCreateRequiresUser(t *testing.T) {
	_, svc := setup(t)
	_, err := svc.Create(context.Background(), uuid.New(), identity.Identity{}, domain.CreateProjectRequest{Name: "x"})
	assert.ErrorIs(t, err, identity.ErrAuthenticationRequired)
}
