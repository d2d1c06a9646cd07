// Command relay drains the organization event outbox into the redis stream
// without serving HTTP.
package main

import (
	"github.com/holaplex/hub-orgs/internal/clock"
	"github.com/holaplex/hub-orgs/internal/config"
	"github.com/holaplex/hub-orgs/internal/events"
	"github.com/holaplex/hub-orgs/internal/observability"
	"github.com/holaplex/hub-orgs/internal/ratelimit"
	"github.com/holaplex/hub-orgs/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		ratelimit.Module,

		// No server module!
		events.RelayModule,
	)
	app.Run()
}
