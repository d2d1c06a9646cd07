package webhookdelivery

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/holaplex/hub-orgs/internal/providers"
)

const providerName = "webhook_provider"

type svixClient struct {
	api *providers.JSONClient
}

// NewSvix talks to the Svix REST API at baseURL.
func NewSvix(baseURL string, httpClient *http.Client) Provider {
	return &svixClient{api: &providers.JSONClient{
		Provider: providerName,
		BaseURL:  baseURL,
		HTTP:     httpClient,
	}}
}

func (c *svixClient) CreateApplication(ctx context.Context, name, uid string) (*Application, error) {
	var app Application
	err := c.api.Do(ctx, "create_application", http.MethodPost, "/api/v1/app/", map[string]string{
		"name": name,
		"uid":  uid,
	}, &app)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(app.ID) == "" {
		return nil, providers.Malformed(providerName, "create_application", "missing id")
	}
	return &app, nil
}

func (c *svixClient) DeleteApplication(ctx context.Context, appID string) error {
	path := "/api/v1/app/" + url.PathEscape(appID) + "/"
	return c.api.Do(ctx, "delete_application", http.MethodDelete, path, nil, nil, http.StatusNoContent)
}

func (c *svixClient) CreateEndpoint(ctx context.Context, appID string, in EndpointIn) (*Endpoint, error) {
	if in.Version == 0 {
		in.Version = 1
	}
	var ep Endpoint
	path := "/api/v1/app/" + url.PathEscape(appID) + "/endpoint/"
	if err := c.api.Do(ctx, "create_endpoint", http.MethodPost, path, in, &ep); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ep.ID) == "" {
		return nil, providers.Malformed(providerName, "create_endpoint", "missing id")
	}
	return &ep, nil
}

func (c *svixClient) GetEndpointSecret(ctx context.Context, appID, endpointID string) (string, error) {
	var out struct {
		Key string `json:"key"`
	}
	path := "/api/v1/app/" + url.PathEscape(appID) + "/endpoint/" + url.PathEscape(endpointID) + "/secret/"
	if err := c.api.Do(ctx, "get_endpoint_secret", http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Key) == "" {
		return "", providers.Malformed(providerName, "get_endpoint_secret", "missing key")
	}
	return out.Key, nil
}

func (c *svixClient) DeleteEndpoint(ctx context.Context, appID, endpointID string) error {
	path := "/api/v1/app/" + url.PathEscape(appID) + "/endpoint/" + url.PathEscape(endpointID) + "/"
	return c.api.Do(ctx, "delete_endpoint", http.MethodDelete, path, nil, nil, http.StatusNoContent)
}

func (c *svixClient) ListEventTypes(ctx context.Context) ([]EventType, error) {
	var out struct {
		Data []EventType `json:"data"`
	}
	if err := c.api.Do(ctx, "list_event_types", http.MethodGet, "/api/v1/event-type/", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
