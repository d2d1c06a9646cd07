package membership

import (
	"github.com/holaplex/hub-orgs/internal/membership/repository"
	"github.com/holaplex/hub-orgs/internal/membership/service"
	"go.uber.org/fx"
)

var Module = fx.Module("membership.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
