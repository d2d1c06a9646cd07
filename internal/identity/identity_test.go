package identity

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHeaders(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		headers   map[string]string
		wantUser  *uuid.UUID
		wantEmail string
		wantErr   error
	}{
		{name: "absent", headers: map[string]string{}},
		{
			name:      "user and email",
			headers:   map[string]string{HeaderUserID: userID.String(), HeaderUserEmail: "A@b.com"},
			wantUser:  &userID,
			wantEmail: "A@b.com",
		},
		{
			name:      "legacy email header",
			headers:   map[string]string{HeaderUserID: userID.String(), HeaderLegacyEmail: "x@y.com"},
			wantUser:  &userID,
			wantEmail: "x@y.com",
		},
		{
			name:    "malformed user id",
			headers: map[string]string{HeaderUserID: "not-a-uuid"},
			wantErr: ErrInvalidUserID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			got, err := FromHeaders(h)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantUser == nil {
				assert.Nil(t, got.UserID)
			} else {
				require.NotNil(t, got.UserID)
				assert.Equal(t, *tt.wantUser, *got.UserID)
			}
			if tt.wantEmail == "" {
				assert.Nil(t, got.Email)
			} else {
				require.NotNil(t, got.Email)
				assert.Equal(t, tt.wantEmail, *got.Email)
			}
		})
	}
}

func TestOrganizationFromHeaders(t *testing.T) {
	h := http.Header{}
	_, err := OrganizationFromHeaders(h)
	assert.ErrorIs(t, err, ErrMissingOrganizationID)

	h.Set(HeaderOrganizationID, "bogus")
	_, err = OrganizationFromHeaders(h)
	assert.ErrorIs(t, err, ErrInvalidOrganizationID)

	orgID := uuid.New()
	h.Set(HeaderOrganizationID, orgID.String())
	got, err := OrganizationFromHeaders(h)
	require.NoError(t, err)
	assert.Equal(t, orgID, got)
}

func TestRequire(t *testing.T) {
	_, err := Identity{}.RequireUser()
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	userID := uuid.New()
	_, _, err = New(userID, "").RequireUserAndEmail()
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	gotID, gotEmail, err := New(userID, "me@x.io").RequireUserAndEmail()
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "me@x.io", gotEmail)
}
