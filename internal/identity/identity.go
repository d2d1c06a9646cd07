// Package identity resolves the caller from the headers set by the upstream gateway.
//
// A malformed user id is rejected. A missing one is not: callers that need an
// authenticated user check for it themselves.
package identity

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	HeaderUserID         = "X-USER-ID"
	HeaderUserEmail      = "X-USER-EMAIL"
	HeaderLegacyEmail    = "X-EMAIL-ID"
	HeaderOrganizationID = "X-ORGANIZATION-ID"
)

var (
	ErrInvalidUserID          = errors.New("invalid_user_id")
	ErrInvalidOrganizationID  = errors.New("invalid_organization_id")
	ErrMissingOrganizationID  = errors.New("missing_organization_id")
	ErrAuthenticationRequired = errors.New("authentication_required")
)

// Identity is the optional caller of an operation.
type Identity struct {
	UserID *uuid.UUID
	Email  *string
}

// New builds an identity for a known user. An empty email is treated as absent.
func New(userID uuid.UUID, email string) Identity {
	id := Identity{UserID: &userID}
	if email = strings.TrimSpace(email); email != "" {
		id.Email = &email
	}
	return id
}

// FromHeaders reads X-USER-ID and X-USER-EMAIL (or the older X-EMAIL-ID).
func FromHeaders(h http.Header) (Identity, error) {
	var id Identity

	if raw := strings.TrimSpace(h.Get(HeaderUserID)); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return Identity{}, ErrInvalidUserID
		}
		id.UserID = &parsed
	}

	email := strings.TrimSpace(h.Get(HeaderUserEmail))
	if email == "" {
		email = strings.TrimSpace(h.Get(HeaderLegacyEmail))
	}
	if email != "" {
		id.Email = &email
	}

	return id, nil
}

// OrganizationFromHeaders reads the required X-ORGANIZATION-ID header.
func OrganizationFromHeaders(h http.Header) (uuid.UUID, error) {
	raw := strings.TrimSpace(h.Get(HeaderOrganizationID))
	if raw == "" {
		return uuid.Nil, ErrMissingOrganizationID
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidOrganizationID
	}
	return parsed, nil
}

// RequireUser returns the caller's user id or ErrAuthenticationRequired.
func (i Identity) RequireUser() (uuid.UUID, error) {
	if i.UserID == nil || *i.UserID == uuid.Nil {
		return uuid.Nil, ErrAuthenticationRequired
	}
	return *i.UserID, nil
}

// RequireUserAndEmail is the stricter check used when accepting invites.
func (i Identity) RequireUserAndEmail() (uuid.UUID, string, error) {
	userID, err := i.RequireUser()
	if err != nil {
		return uuid.Nil, "", err
	}
	if i.Email == nil || strings.TrimSpace(*i.Email) == "" {
		return uuid.Nil, "", ErrAuthenticationRequired
	}
	return userID, *i.Email, nil
}
