package stories

import "time"

// Config represents the configuration for the stories client
type Config struct {
	// BaseURL is the stories service root, e.g. https://stories.internal
	BaseURL string

	// APIKey is sent as a bearer token when set
	APIKey string

	// Timeout bounds every request
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNotConfigured
	}
	return nil
}
