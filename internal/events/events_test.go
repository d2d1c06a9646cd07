package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&Record{}))
	return db
}

type recordingSink struct {
	sent   []Envelope
	failOn string
}

func (s *recordingSink) Send(_ context.Context, env Envelope) error {
	if env.Topic == s.failOn {
		return errors.New("bus unavailable")
	}
	s.sent = append(s.sent, env)
	return nil
}

func newPublisher(t *testing.T, db *gorm.DB) Publisher {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewOutboxPublisher(db, node, clock.NewSteppingClock(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Second))
}

func TestPublishWritesOutboxRow(t *testing.T) {
	db := setupDB(t)
	pub := newPublisher(t, db)

	orgID, userID, inviteID := uuid.New(), uuid.New(), uuid.New()
	err := pub.Publish(context.Background(), Event{
		Topic:          TopicInvitationSent,
		OrganizationID: orgID,
		Key:            Key{ID: inviteID, UserID: &userID},
		Payload:        InvitationPayload{OrganizationName: "Acme", Email: "a@b.com", InviteID: inviteID.String()},
	})
	require.NoError(t, err)

	var rows []Record
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, TopicInvitationSent, rows[0].Topic)
	assert.Equal(t, orgID, rows[0].OrganizationID)
	assert.False(t, rows[0].Published)

	env, err := rows[0].Envelope()
	require.NoError(t, err)
	assert.Equal(t, inviteID, env.Key.ID)
	require.NotNil(t, env.Key.UserID)
	assert.Equal(t, userID, *env.Key.UserID)

	var payload InvitationPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "Acme", payload.OrganizationName)
}

func TestPublishRejectsIncompleteEvents(t *testing.T) {
	pub := newPublisher(t, setupDB(t))

	err := pub.Publish(context.Background(), Event{OrganizationID: uuid.New()})
	assert.ErrorIs(t, err, ErrMissingTopic)

	err = pub.Publish(context.Background(), Event{Topic: TopicProjectCreated})
	assert.ErrorIs(t, err, ErrMissingOrganization)
}

func TestPublishRollsBackWithTransaction(t *testing.T) {
	db := setupDB(t)
	pub := newPublisher(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := pub.WithTx(tx).Publish(context.Background(), Event{
			Topic:          TopicProjectCreated,
			OrganizationID: uuid.New(),
			Key:            Key{ID: uuid.New()},
		}); err != nil {
			return err
		}
		return errors.New("insert failed")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&Record{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRelayDeliversInOrderAndStopsOnFailure(t *testing.T) {
	db := setupDB(t)
	pub := newPublisher(t, db)
	orgID := uuid.New()
	ctx := context.Background()

	for _, topic := range []string{TopicOrganizationCreated, TopicProjectCreated, TopicMemberAdded} {
		require.NoError(t, pub.Publish(ctx, Event{Topic: topic, OrganizationID: orgID, Key: Key{ID: uuid.New()}}))
	}

	sink := &recordingSink{failOn: TopicProjectCreated}
	relay := NewRelay(db, sink, nil, clock.NewFakeClock(time.Now()), nil, zap.NewNop(), RelayConfig{Batch: 10})

	sent, err := relay.RunOnce(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, sink.sent, 1)
	assert.Equal(t, TopicOrganizationCreated, sink.sent[0].Topic)

	sink.failOn = ""
	sent, err = relay.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, sink.sent, 3)
	assert.Equal(t, TopicProjectCreated, sink.sent[1].Topic)
	assert.Equal(t, TopicMemberAdded, sink.sent[2].Topic)

	var pending int64
	require.NoError(t, db.Model(&Record{}).Where("published = ?", false).Count(&pending).Error)
	assert.Zero(t, pending)

	sent, err = relay.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}
