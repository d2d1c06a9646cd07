package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/clock"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrMissingTopic        = errors.New("missing_topic")
	ErrMissingOrganization = errors.New("missing_organization_id")
)

// Publisher appends events to the outbox. Bind it to the mutation's transaction
// with WithTx so the event and the row commit or roll back together.
type Publisher interface {
	WithTx(tx *gorm.DB) Publisher
	Publish(ctx context.Context, evt Event) error
}

type outboxPublisher struct {
	db    *gorm.DB
	genID *snowflake.Node
	clock clock.Clock
}

func NewOutboxPublisher(db *gorm.DB, genID *snowflake.Node, clk clock.Clock) Publisher {
	return &outboxPublisher{db: db, genID: genID, clock: clk}
}

func (p *outboxPublisher) WithTx(tx *gorm.DB) Publisher {
	return &outboxPublisher{db: tx, genID: p.genID, clock: p.clock}
}

func (p *outboxPublisher) Publish(ctx context.Context, evt Event) error {
	if evt.Topic == "" {
		return ErrMissingTopic
	}
	if evt.OrganizationID == uuid.Nil {
		return ErrMissingOrganization
	}

	key, err := json.Marshal(evt.Key)
	if err != nil {
		return err
	}
	payload := []byte("{}")
	if evt.Payload != nil {
		if payload, err = json.Marshal(evt.Payload); err != nil {
			return err
		}
	}

	return p.db.WithContext(ctx).Exec(
		`INSERT INTO organization_events (id, topic, organization_id, event_key, payload, published, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.genID.Generate(),
		evt.Topic,
		evt.OrganizationID,
		datatypes.JSON(key),
		datatypes.JSON(payload),
		false,
		p.clock.Now(),
	).Error
}
