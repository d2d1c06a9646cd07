package domain

import (
	"fmt"
	"strings"
)

// FilterType names an event a webhook endpoint can subscribe to.
type FilterType string

const (
	FilterProjectCreated     FilterType = "PROJECT_CREATED"
	FilterProjectDeactivated FilterType = "PROJECT_DEACTIVATED"
	FilterInvitationSent     FilterType = "INVITATION_SENT"
	FilterInvitationAccepted FilterType = "INVITATION_ACCEPTED"
	FilterInvitationRevoked  FilterType = "INVITATION_REVOKED"
	FilterCredentialCreated  FilterType = "CREDENTIAL_CREATED"
	FilterCredentialDeleted  FilterType = "CREDENTIAL_DELETED"
)

var eventTypes = map[FilterType]string{
	FilterProjectCreated:     "project.created",
	FilterProjectDeactivated: "project.deactivated",
	FilterInvitationSent:     "invitation.sent",
	FilterInvitationAccepted: "invitation.accepted",
	FilterInvitationRevoked:  "invitation.revoked",
	FilterCredentialCreated:  "credential.created",
	FilterCredentialDeleted:  "credential.deleted",
}

// EventType is the delivery provider's name for f.
func (f FilterType) EventType() (string, bool) {
	name, ok := eventTypes[FilterType(strings.ToUpper(strings.TrimSpace(string(f))))]
	return name, ok
}

// EventTypes maps filters to provider event types, dropping repeats.
func EventTypes(filters []FilterType) ([]string, error) {
	out := make([]string, 0, len(filters))
	seen := make(map[string]struct{}, len(filters))
	for _, f := range filters {
		name, ok := f.EventType()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFilterType, f)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}
