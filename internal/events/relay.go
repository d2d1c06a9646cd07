package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/holaplex/hub-orgs/internal/clock"
	obsmetrics "github.com/holaplex/hub-orgs/internal/observability/metrics"
	"github.com/holaplex/hub-orgs/internal/ratelimit"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const relayLockKey = "hub-orgs:events:relay"

// RelayConfig tunes how often and how much the relay drains.
type RelayConfig struct {
	Interval time.Duration
	Batch    int
	LockTTL  time.Duration
}

// Relay moves unpublished outbox rows to a Sink in id order.
type Relay struct {
	db      *gorm.DB
	sink    Sink
	locker  *ratelimit.Locker
	clock   clock.Clock
	metrics *obsmetrics.Metrics
	log     *zap.Logger
	cfg     RelayConfig
}

func NewRelay(db *gorm.DB, sink Sink, locker *ratelimit.Locker, clk clock.Clock, metrics *obsmetrics.Metrics, log *zap.Logger, cfg RelayConfig) *Relay {
	if cfg.Batch <= 0 {
		cfg.Batch = 100
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	return &Relay{
		db:      db,
		sink:    sink,
		locker:  locker,
		clock:   clk,
		metrics: metrics,
		log:     log.Named("events.relay"),
		cfg:     cfg,
	}
}

// RunOnce drains up to one batch. Delivery stops at the first failing event so
// the bus never sees events out of order; the failed row is retried next run.
// A nil locker runs without cross-process exclusion.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	if r.locker == nil {
		return r.drain(ctx)
	}

	var sent int
	err := r.locker.WithLock(ctx, relayLockKey, r.cfg.LockTTL, func(ctx context.Context) error {
		var err error
		sent, err = r.drain(ctx)
		return err
	})
	if errors.Is(err, ratelimit.ErrLockHeld) {
		return 0, nil
	}
	return sent, err
}

func (r *Relay) drain(ctx context.Context) (int, error) {
	var rows []Record
	err := r.db.WithContext(ctx).
		Where("published = ?", false).
		Order("id ASC").
		Limit(r.cfg.Batch).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, row := range rows {
		env, err := row.Envelope()
		if err != nil {
			return sent, fmt.Errorf("decode event %s: %w", row.ID, err)
		}
		if err := r.sink.Send(ctx, env); err != nil {
			return sent, fmt.Errorf("send event %s: %w", row.ID, err)
		}

		now := r.clock.Now()
		err = r.db.WithContext(ctx).
			Model(&Record{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{"published": true, "published_at": now}).Error
		if err != nil {
			return sent, fmt.Errorf("mark event %s published: %w", row.ID, err)
		}
		sent++
		r.metrics.RecordEventsRelayed(ctx, row.Topic, 1)
	}
	return sent, nil
}

// RunForever drains on every tick until ctx is cancelled.
func (r *Relay) RunForever(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		n, err := r.RunOnce(ctx)
		if err != nil && ctx.Err() == nil {
			r.log.Warn("event relay run failed", zap.Int("sent", n), zap.Error(err))
		} else if n > 0 {
			r.log.Debug("events relayed", zap.Int("sent", n))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
