package credential

import (
	"github.com/holaplex/hub-orgs/internal/credential/repository"
	"github.com/holaplex/hub-orgs/internal/credential/service"
	"go.uber.org/fx"
)

var Module = fx.Module("credential.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
