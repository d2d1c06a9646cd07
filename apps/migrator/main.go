package main

import (
	"context"

	"github.com/alecthomas/kong"
)

var version = "dev"

var cli struct {
	Up      UpCmd     `cmd:"" help:"Apply every pending migration."`
	Down    DownCmd   `cmd:"" help:"Roll back applied migrations."`
	Status  StatusCmd `cmd:"" help:"Print the current schema version."`
	Force   ForceCmd  `cmd:"" help:"Set the schema version without running migrations."`
	Version kong.VersionFlag
}

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("migrator"),
		kong.Description("Postgres schema migrations for hub-orgs."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	cmd.FatalIfErrorf(cmd.Run())
}
