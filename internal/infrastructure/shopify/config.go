package shopify

import (
	"errors"
	"time"
)

// APIVersion is the Shopify Admin REST API version this adapter speaks
const APIVersion = "2023-07"

// Config holds configuration for one Shopify store account
type Config struct {
	// Name identifies the store in scan records and summaries
	Name string
	// Domain is the store's admin domain, scheme and path stripped
	// (e.g. "myshop.myshopify.com")
	Domain string
	// APIKey is the Admin API key, used as the basic-auth username
	APIKey string
	// Password is the Admin API password, used as the basic-auth password
	Password string
	// BaseURL overrides the https://{Domain} base when set, for
	// sandboxes and tests
	BaseURL string
	// Timeout is the per-request HTTP timeout
	Timeout time.Duration
	// RetryAttempts is the total number of tries per lookup
	RetryAttempts int
	// RetryDelay is the base delay between tries, growing linearly
	RetryDelay time.Duration
}

// Errors for Shopify configuration
var (
	ErrConfigMissingName        = errors.New("shopify: store name is required")
	ErrConfigMissingDomain      = errors.New("shopify: store domain is required")
	ErrConfigMissingCredentials = errors.New("shopify: api key and password are required")
)

// Validate checks the configuration for completeness
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrConfigMissingName
	}
	if c.Domain == "" {
		return ErrConfigMissingDomain
	}
	if c.APIKey == "" || c.Password == "" {
		return ErrConfigMissingCredentials
	}
	return nil
}

// applyDefaults fills zero-valued tunables
func (c *Config) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
}
