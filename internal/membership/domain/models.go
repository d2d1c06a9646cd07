package domain

import (
	"time"

	"github.com/google/uuid"
)

type InviteStatus string

const (
	InviteStatusSent     InviteStatus = "sent"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRevoked  InviteStatus = "revoked"
)

// Valid reports whether s is one of the known invite states.
func (s InviteStatus) Valid() bool {
	switch s {
	case InviteStatusSent, InviteStatusAccepted, InviteStatusRevoked:
		return true
	}
	return false
}

// Invite offers membership of an organization to an email address.
// Emails are stored lowercased.
type Invite struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string       `gorm:"type:text;not null;index" json:"email"`
	Status         InviteStatus `gorm:"type:text;not null;default:sent" json:"status"`
	OrganizationID uuid.UUID    `gorm:"type:uuid;not null;index" json:"organization_id"`
	CreatedBy      uuid.UUID    `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time    `gorm:"not null;index" json:"created_at"`
	UpdatedAt      *time.Time   `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}

func (Invite) TableName() string { return "invites" }

// Member is created when an invite is accepted. One member row per invite.
type Member struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	InviteID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_members_invite" json:"invite_id"`
	CreatedAt      time.Time  `gorm:"not null;index" json:"created_at"`
	RevokedAt      *time.Time `json:"revoked_at,omitempty"`
	DeactivatedAt  *time.Time `json:"deactivated_at,omitempty"`
}

func (Member) TableName() string { return "members" }

// Active reports whether the member still holds its organization role.
func (m Member) Active() bool {
	return m.RevokedAt == nil && m.DeactivatedAt == nil
}
