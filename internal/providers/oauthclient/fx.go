package oauthclient

import (
	"github.com/holaplex/hub-orgs/internal/config"
	"github.com/holaplex/hub-orgs/internal/providers"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.oauthclient",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Provider {
	return NewOry(cfg.Identity.BaseURL, providers.NewHTTPClient(cfg.Identity.AdminToken, cfg.Identity.Timeout))
}
