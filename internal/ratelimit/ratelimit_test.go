package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilInviteLimiterAllows(t *testing.T) {
	limiter := NewInviteLimiter(config.Config{}, nil, nil)
	require.Nil(t, limiter)
	assert.False(t, limiter.Enabled())

	res, err := limiter.AllowOrg(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestInviteKey(t *testing.T) {
	id := uuid.MustParse("6f0f4f5e-2a67-4c29-a8e4-0b4f3d0b7a10")
	assert.Equal(t, "invites:org:6f0f4f5e-2a67-4c29-a8e4-0b4f3d0b7a10", InviteKey(id))
}

func TestNilLockerAndBucket(t *testing.T) {
	assert.Nil(t, NewLocker(nil))
	assert.Nil(t, NewTokenBucket(nil))

	var locker *Locker
	_, ok, err := locker.TryLock(context.Background(), "k", time.Second)
	assert.False(t, ok)
	assert.Error(t, err)
	assert.NoError(t, locker.Release(context.Background(), "k", "t"))

	var bucket *TokenBucket
	res, err := bucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
	assert.False(t, res.Allowed)
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, 40*time.Second, defaultBucketTTL(1, 20))
	assert.Equal(t, time.Second, defaultBucketTTL(100, 1))
	assert.Equal(t, time.Second, defaultBucketTTL(0, 0))
}

func TestCastHelpers(t *testing.T) {
	assert.Equal(t, int64(1), castToInt(int64(1)))
	assert.Equal(t, 2.5, castToFloat("2.5"))
	assert.Equal(t, 0.0, castToFloat("nan-ish"))
	assert.Equal(t, 3.0, castToFloat(int64(3)))
}
