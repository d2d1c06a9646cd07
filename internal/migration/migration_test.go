package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestSourceWalksVersions(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	count := 1
	for version := first; ; count++ {
		next, err := src.Next(version)
		if err != nil {
			break
		}
		version = next
	}
	assert.Equal(t, 6, count)
}

func TestAutoMigrateEnforcesPendingInviteIndex(t *testing.T) {
	conn := dbtest.Open(t)
	require.NoError(t, AutoMigrate(conn))

	orgID := uuid.New()
	insert := `INSERT INTO invites (id, email, status, organization_id, created_by, created_at) VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`
	require.NoError(t, conn.Exec(insert, uuid.New(), "a@b.com", "accepted", orgID, uuid.New()).Error)
	require.NoError(t, conn.Exec(insert, uuid.New(), "a@b.com", "sent", orgID, uuid.New()).Error)
	assert.Error(t, conn.Exec(insert, uuid.New(), "a@b.com", "sent", orgID, uuid.New()).Error)
}

func TestAutoMigrateRejectsOtherDialects(t *testing.T) {
	conn := dbtest.Open(t)
	conn.Dialector = gormpostgres.Dialector{Config: &gormpostgres.Config{}}

	err := AutoMigrate(conn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported dialect "postgres"`)
}
