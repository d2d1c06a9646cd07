package affiliation

import (
	"github.com/holaplex/hub-orgs/internal/affiliation/repository"
	"github.com/holaplex/hub-orgs/internal/affiliation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("affiliation.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
