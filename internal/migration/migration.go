package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	credentialdomain "github.com/holaplex/hub-orgs/internal/credential/domain"
	"github.com/holaplex/hub-orgs/internal/events"
	memberdomain "github.com/holaplex/hub-orgs/internal/membership/domain"
	orgdomain "github.com/holaplex/hub-orgs/internal/organization/domain"
	projectdomain "github.com/holaplex/hub-orgs/internal/project/domain"
	webhookdomain "github.com/holaplex/hub-orgs/internal/webhook/domain"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Source returns the embedded postgres migrations.
func Source() (source.Driver, error) {
	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}
	return src, nil
}

// New builds a migrator over db. Closing the migrator closes db.
func New(db *sql.DB) (*migrate.Migrate, error) {
	if db == nil {
		return nil, errors.New("migration database handle is required")
	}

	src, err := Source()
	if err != nil {
		return nil, err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return migrator, nil
}

// RunMigrations applies every pending postgres migration.
func RunMigrations(db *sql.DB) error {
	migrator, err := New(db)
	if err != nil {
		return err
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// Models lists the tables owned by the service, parents first.
func Models() []any {
	return []any{
		&orgdomain.Organization{},
		&orgdomain.Owner{},
		&projectdomain.Project{},
		&memberdomain.Invite{},
		&memberdomain.Member{},
		&credentialdomain.Credential{},
		&credentialdomain.ProjectCredential{},
		&webhookdomain.Webhook{},
		&webhookdomain.WebhookProject{},
		&events.Record{},
	}
}

// AutoMigrate creates the sqlite schema from the models, including the partial
// pending-invite index. Postgres uses the SQL migrations instead.
func AutoMigrate(conn *gorm.DB) error {
	if name := conn.Dialector.Name(); name != "sqlite" {
		return fmt.Errorf("auto migrate: unsupported dialect %q", name)
	}
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return conn.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_invites_pending ON invites (organization_id, email) WHERE status = 'sent'`,
	).Error
}
