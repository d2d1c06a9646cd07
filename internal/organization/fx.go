package organization

import (
	"github.com/holaplex/hub-orgs/internal/organization/repository"
	"github.com/holaplex/hub-orgs/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
