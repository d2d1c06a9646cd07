package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/holaplex/hub-orgs/internal/clock"
	"github.com/holaplex/hub-orgs/internal/config"
	"github.com/holaplex/hub-orgs/internal/events"
	"github.com/holaplex/hub-orgs/internal/migration"
	"github.com/holaplex/hub-orgs/internal/observability"
	"github.com/holaplex/hub-orgs/internal/providers/oauthclient"
	"github.com/holaplex/hub-orgs/internal/providers/webhookdelivery"
	"github.com/holaplex/hub-orgs/internal/ratelimit"
	"github.com/holaplex/hub-orgs/internal/saga"
	"github.com/holaplex/hub-orgs/internal/server"
	"github.com/holaplex/hub-orgs/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Providers and delivery
		oauthclient.Module,
		webhookdelivery.Module,
		saga.Module,
		ratelimit.Module,
		events.Module,
		events.RelayModule,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
