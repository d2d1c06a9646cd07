package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/holaplex/hub-orgs/internal/config"
	"github.com/holaplex/hub-orgs/internal/logger"
	"github.com/holaplex/hub-orgs/internal/migration"
	"github.com/holaplex/hub-orgs/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type UpCmd struct{}

func (UpCmd) Run(ctx context.Context) error {
	return withMigrator(ctx, func(m *migrate.Migrate, log *zap.Logger) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return report(m, log)
	})
}

type DownCmd struct {
	Steps int  `help:"Number of migrations to roll back." default:"1"`
	All   bool `help:"Roll back every migration."`
}

func (d DownCmd) Run(ctx context.Context) error {
	return withMigrator(ctx, func(m *migrate.Migrate, log *zap.Logger) error {
		var err error
		if d.All {
			err = m.Down()
		} else {
			if d.Steps <= 0 {
				return fmt.Errorf("steps must be positive, got %d", d.Steps)
			}
			err = m.Steps(-d.Steps)
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return report(m, log)
	})
}

type StatusCmd struct{}

func (StatusCmd) Run(ctx context.Context) error {
	return withMigrator(ctx, func(m *migrate.Migrate, log *zap.Logger) error {
		return report(m, log)
	})
}

type ForceCmd struct {
	Version int `arg:"" help:"Schema version to record."`
}

func (f ForceCmd) Run(ctx context.Context) error {
	return withMigrator(ctx, func(m *migrate.Migrate, log *zap.Logger) error {
		if err := m.Force(f.Version); err != nil {
			return err
		}
		return report(m, log)
	})
}

func withMigrator(ctx context.Context, fn func(*migrate.Migrate, *zap.Logger) error) error {
	cfg := config.Load()
	log, err := logger.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	dbCfg := db.FromAppConfig(cfg)
	if dbCfg.Type != "postgres" {
		return fmt.Errorf("migrations target postgres, DATABASE_TYPE is %q", dbCfg.Type)
	}
	dialector, err := db.Dialect(dbCfg)
	if err != nil {
		return err
	}
	conn, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn("close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	return fn(m, log.Named("migrator"))
}

func report(m *migrate.Migrate, log *zap.Logger) error {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("schema is empty")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
	return nil
}
