// Package events records organization domain events in a transactional outbox
// and relays them to the event bus.
package events

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TopicOrganizationCreated = "organization.created"
	TopicProjectCreated      = "project.created"
	TopicProjectDeactivated  = "project.deactivated"
	TopicInvitationSent      = "invitation.sent"
	TopicInvitationAccepted  = "invitation.accepted"
	TopicInvitationRevoked   = "invitation.revoked"
	TopicMemberAdded         = "member.added"
	TopicMemberDeactivated   = "member.deactivated"
	TopicMemberReactivated   = "member.reactivated"
	TopicCredentialCreated   = "credential.created"
	TopicCredentialDeleted   = "credential.deleted"
)

// Key routes an event: the id of the entity it is about and the acting user.
type Key struct {
	ID     uuid.UUID  `json:"id"`
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

// Event is what domain services hand to a Publisher.
type Event struct {
	Topic          string
	OrganizationID uuid.UUID
	Key            Key
	Payload        any
}

// Envelope is the wire form delivered to the bus.
type Envelope struct {
	ID             string          `json:"id"`
	Topic          string          `json:"topic"`
	Key            Key             `json:"key"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	Payload        json.RawMessage `json:"payload"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// Record is a row of the organization_events outbox.
type Record struct {
	ID             snowflake.ID   `gorm:"primaryKey;autoIncrement:false"`
	Topic          string         `gorm:"type:text;not null"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Key            datatypes.JSON `gorm:"column:event_key;not null"`
	Payload        datatypes.JSON `gorm:"not null"`
	Published      bool           `gorm:"not null;default:false;index"`
	CreatedAt      time.Time      `gorm:"not null"`
	PublishedAt    *time.Time
}

func (Record) TableName() string { return "organization_events" }

func (r Record) Envelope() (Envelope, error) {
	var key Key
	if err := json.Unmarshal(r.Key, &key); err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:             r.ID.String(),
		Topic:          r.Topic,
		Key:            key,
		OrganizationID: r.OrganizationID,
		Payload:        json.RawMessage(r.Payload),
		OccurredAt:     r.CreatedAt,
	}, nil
}

type OrganizationPayload struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProjectPayload struct {
	Name            string  `json:"name"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

type InvitationPayload struct {
	OrganizationName string `json:"organization"`
	Email            string `json:"email"`
	InviteID         string `json:"invite_id"`
}

type MemberPayload struct {
	OrganizationID uuid.UUID  `json:"organization_id"`
	InviteID       *uuid.UUID `json:"invite_id,omitempty"`
}

type CredentialPayload struct {
	Name       string      `json:"name"`
	ClientID   string      `json:"client_id"`
	ProjectIDs []uuid.UUID `json:"project_ids,omitempty"`
}
