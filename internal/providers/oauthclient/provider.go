// Package oauthclient issues and retires OAuth2 client-credentials clients at the
// identity provider's admin API.
package oauthclient

import (
	"context"

	"gorm.io/datatypes"
)

// Provider is the identity provider's client registry.
type Provider interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (*Client, error)
	DeleteClient(ctx context.Context, clientID string) error
}

type CreateClientRequest struct {
	Name  string
	Owner string
}

// Client is a freshly registered OAuth2 client. Secret is only ever returned here.
type Client struct {
	ID     string
	Secret string
	// Registration carries the provider's dynamic-registration fields verbatim.
	Registration datatypes.JSONMap
}
