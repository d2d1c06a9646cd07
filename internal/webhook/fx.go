package webhook

import (
	"github.com/holaplex/hub-orgs/internal/webhook/repository"
	"github.com/holaplex/hub-orgs/internal/webhook/service"
	"go.uber.org/fx"
)

var Module = fx.Module("webhook.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
