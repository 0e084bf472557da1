package commerce

import "time"

// Config represents the configuration for the commerce backend client
type Config struct {
	// BaseURL is the commerce API base URL, e.g. https://api.example.com/api/v1
	BaseURL string

	// APIKey is sent as a bearer token when set
	APIKey string

	// Timeout bounds every request; defaults to 10s
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	return nil
}
