package webhookdelivery

import (
	"github.com/holaplex/hub-orgs/internal/config"
	"github.com/holaplex/hub-orgs/internal/providers"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.webhookdelivery",
	fx.Provide(NewFromConfig),
)

// NewFromConfig returns nil when webhook delivery is switched off. Organizations
// are then created without an application and webhook creation is refused.
func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	if !cfg.Webhooks.Enabled {
		log.Info("webhook delivery provider disabled")
		return nil
	}
	return NewSvix(cfg.Webhooks.BaseURL, providers.NewHTTPClient(cfg.Webhooks.Token, cfg.Webhooks.Timeout))
}
