package oauthclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/holaplex/hub-orgs/internal/providers"
	"gorm.io/datatypes"
)

const providerName = "identity_provider"

type oryClient struct {
	api *providers.JSONClient
}

// NewOry talks to an Ory Hydra compatible admin API at baseURL.
func NewOry(baseURL string, httpClient *http.Client) Provider {
	return &oryClient{api: &providers.JSONClient{
		Provider: providerName,
		BaseURL:  baseURL,
		HTTP:     httpClient,
	}}
}

type createClientBody struct {
	GrantTypes []string `json:"grant_types"`
	ClientName string   `json:"client_name"`
	Owner      string   `json:"owner"`
}

type clientResponse struct {
	ClientID                string `json:"client_id"`
	ClientSecret            string `json:"client_secret"`
	RegistrationAccessToken string `json:"registration_access_token"`
	RegistrationClientURI   string `json:"registration_client_uri"`
}

func (c *oryClient) CreateClient(ctx context.Context, req CreateClientRequest) (*Client, error) {
	var resp clientResponse
	err := c.api.Do(ctx, "create_client", http.MethodPost, "/admin/clients", createClientBody{
		GrantTypes: []string{"client_credentials"},
		ClientName: req.Name,
		Owner:      req.Owner,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(resp.ClientID) == "" {
		return nil, providers.Malformed(providerName, "create_client", "missing client_id")
	}
	if strings.TrimSpace(resp.ClientSecret) == "" {
		return nil, providers.Malformed(providerName, "create_client", "missing client_secret")
	}

	registration := datatypes.JSONMap{}
	if resp.RegistrationAccessToken != "" {
		registration["registration_access_token"] = resp.RegistrationAccessToken
	}
	if resp.RegistrationClientURI != "" {
		registration["registration_client_uri"] = resp.RegistrationClientURI
	}

	return &Client{
		ID:           resp.ClientID,
		Secret:       resp.ClientSecret,
		Registration: registration,
	}, nil
}

// DeleteClient only accepts 204; any other answer is surfaced with its body.
func (c *oryClient) DeleteClient(ctx context.Context, clientID string) error {
	return c.api.Do(ctx, "delete_client", http.MethodDelete, "/admin/clients/"+url.PathEscape(clientID), nil, nil, http.StatusNoContent)
}
