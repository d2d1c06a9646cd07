package ratelimit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/config"
	obsmetrics "github.com/holaplex/hub-orgs/internal/observability/metrics"
)

const keyInviteOrg = "invites:org:%s"

// InviteLimiter throttles invite creation per organization. A nil limiter allows everything.
type InviteLimiter struct {
	bucket  *TokenBucket
	metrics *obsmetrics.Metrics
	rate    float64
	burst   int
}

func NewInviteLimiter(cfg config.Config, bucket *TokenBucket, metrics *obsmetrics.Metrics) *InviteLimiter {
	if bucket == nil || cfg.RateLimit.InviteRate <= 0 || cfg.RateLimit.InviteBurst <= 0 {
		return nil
	}
	return &InviteLimiter{
		bucket:  bucket,
		metrics: metrics,
		rate:    cfg.RateLimit.InviteRate,
		burst:   cfg.RateLimit.InviteBurst,
	}
}

func (l *InviteLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// AllowOrg takes one token from the organization's invite bucket.
func (l *InviteLimiter) AllowOrg(ctx context.Context, orgID uuid.UUID) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	res, err := l.bucket.Allow(ctx, InviteKey(orgID), l.rate, l.burst)
	if err != nil {
		return res, err
	}
	if res.Allowed {
		l.metrics.RecordRateLimitAllowed(ctx, "invite")
	} else {
		l.metrics.RecordRateLimitDenied(ctx, "invite", "bucket_empty")
	}
	return res, nil
}

func InviteKey(orgID uuid.UUID) string {
	return fmt.Sprintf(keyInviteOrg, orgID)
}
