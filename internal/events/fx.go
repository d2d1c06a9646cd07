package events

import (
	"context"

	"github.com/holaplex/hub-orgs/internal/clock"
	"github.com/holaplex/hub-orgs/internal/config"
	obsmetrics "github.com/holaplex/hub-orgs/internal/observability/metrics"
	"github.com/holaplex/hub-orgs/internal/ratelimit"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("events",
	fx.Provide(NewOutboxPublisher),
)

// RelayModule runs the outbox relay alongside the process.
var RelayModule = fx.Module("events.relay",
	fx.Provide(provideRelay),
	fx.Invoke(StartRelay),
)

type RelayParams struct {
	fx.In

	DB      *gorm.DB
	Config  config.Config
	Redis   *redis.Client     `optional:"true"`
	Locker  *ratelimit.Locker `optional:"true"`
	Clock   clock.Clock
	Metrics *obsmetrics.Metrics
	Log     *zap.Logger
}

// provideRelay returns nil when redis is not configured or the relay is switched
// off; events then stay in the outbox.
func provideRelay(p RelayParams) *Relay {
	if p.Redis == nil || !p.Config.Events.RelayEnabled {
		return nil
	}
	return NewRelay(
		p.DB,
		NewStreamSink(p.Redis, p.Config.Events.Stream),
		p.Locker,
		p.Clock,
		p.Metrics,
		p.Log,
		RelayConfig{
			Interval: p.Config.Events.RelayInterval,
			Batch:    p.Config.Events.RelayBatch,
			LockTTL:  p.Config.Events.RelayLockTTL,
		},
	)
}

func StartRelay(lc fx.Lifecycle, relay *Relay, log *zap.Logger) {
	if relay == nil {
		log.Info("event relay disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				relay.RunForever(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
