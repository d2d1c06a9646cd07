package oauthclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/holaplex/hub-orgs/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/clients", r.URL.Path)
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{"client_credentials"}, body["grant_types"])
		assert.Equal(t, "ci", body["client_name"])
		assert.Equal(t, "org-1", body["owner"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"client_id":"cid","client_secret":"shh","registration_access_token":"rat"}`))
	}))
	defer srv.Close()

	p := NewOry(srv.URL, providers.NewHTTPClient("admin-token", time.Second))
	client, err := p.CreateClient(context.Background(), CreateClientRequest{Name: "ci", Owner: "org-1"})
	require.NoError(t, err)
	assert.Equal(t, "cid", client.ID)
	assert.Equal(t, "shh", client.Secret)
	assert.Equal(t, "rat", client.Registration["registration_access_token"])
}

func TestCreateClientMissingSecretIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"client_id":"cid"}`))
	}))
	defer srv.Close()

	p := NewOry(srv.URL, providers.NewHTTPClient("", time.Second))
	_, err := p.CreateClient(context.Background(), CreateClientRequest{Name: "ci", Owner: "org"})
	assert.ErrorIs(t, err, providers.ErrMalformedResponse)
	assert.True(t, providers.IsUpstream(err))
}

func TestDeleteClient(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "no content", status: http.StatusNoContent},
		{name: "ok is not accepted", status: http.StatusOK, body: "{}", wantErr: true},
		{name: "not found", status: http.StatusNotFound, body: `{"error":"Unable to locate the resource"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/admin/clients/cid", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewOry(srv.URL, providers.NewHTTPClient("", time.Second)).DeleteClient(context.Background(), "cid")
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var pe *providers.Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.status, pe.StatusCode)
			assert.Equal(t, tt.body, pe.Body)
		})
	}
}

func TestProviderTimeoutIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewOry(srv.URL, providers.NewHTTPClient("", 20*time.Millisecond)).DeleteClient(context.Background(), "cid")
	require.Error(t, err)
	assert.True(t, providers.IsUpstream(err))
}
