package marketplace

import (
	"errors"
	"time"
)

// Config validation errors
var (
	ErrConfigMissingEndpoint  = errors.New("marketplace: endpoint is required")
	ErrConfigMissingSellerID  = errors.New("marketplace: seller id is required")
	ErrConfigMissingAuthToken = errors.New("marketplace: auth token is required")
)

// Config holds the connection settings for the marketplace feed API
type Config struct {
	// Endpoint is the API base URL
	Endpoint string

	// SellerID identifies the merchant account
	SellerID string

	// AuthToken is the bearer token for API calls
	AuthToken string

	// RequestTimeout bounds each HTTP call
	RequestTimeout time.Duration

	// MaxRetries bounds transient retry attempts per call
	MaxRetries int
}

// Validate checks required fields and fills defaults
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrConfigMissingEndpoint
	}
	if c.SellerID == "" {
		return ErrConfigMissingSellerID
	}
	if c.AuthToken == "" {
		return ErrConfigMissingAuthToken
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	return nil
}
