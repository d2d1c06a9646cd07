// Package webhookdelivery registers organization webhook endpoints with the
// delivery provider.
package webhookdelivery

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

// Provider is the webhook delivery service. Each organization owns one application;
// endpoints belong to an application and filter on event types and channels.
type Provider interface {
	CreateApplication(ctx context.Context, name, uid string) (*Application, error)
	DeleteApplication(ctx context.Context, appID string) error
	CreateEndpoint(ctx context.Context, appID string, in EndpointIn) (*Endpoint, error)
	GetEndpointSecret(ctx context.Context, appID, endpointID string) (string, error)
	DeleteEndpoint(ctx context.Context, appID, endpointID string) error
	ListEventTypes(ctx context.Context) ([]EventType, error)
}

type Application struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	UID  string `json:"uid"`
}

type EndpointIn struct {
	URL         string   `json:"url"`
	Version     int      `json:"version"`
	Disabled    bool     `json:"disabled"`
	Description string   `json:"description,omitempty"`
	FilterTypes []string `json:"filterTypes,omitempty"`
	Channels    []string `json:"channels,omitempty"`
}

type Endpoint struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	FilterTypes []string `json:"filterTypes"`
	Channels    []string `json:"channels"`
	Disabled    bool     `json:"disabled"`
}

type EventType struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Archived    bool              `json:"archived"`
	Schemas     datatypes.JSONMap `json:"schemas,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
