package project

import (
	"github.com/holaplex/hub-orgs/internal/project/repository"
	"github.com/holaplex/hub-orgs/internal/project/service"
	"go.uber.org/fx"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
