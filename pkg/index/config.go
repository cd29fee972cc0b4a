package index

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds vector index connection parameters.
type Config struct {
	URL         string `toml:"url"`
	APIKey      string `toml:"api_key"`
	OpenAIKey   string `toml:"openai_key"`
	VoyageAIKey string `toml:"voyageai_key"`
	Timeout     string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	URL         string
	APIKey      string
	OpenAIKey   string
	VoyageAIKey string
	Timeout     string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Headers returns the vendor module headers forwarded with every index request.
// Empty keys are omitted.
func (c *Config) Headers() map[string]string {
	headers := make(map[string]string)
	if c.OpenAIKey != "" {
		headers["X-OpenAI-Api-Key"] = c.OpenAIKey
	}
	if c.VoyageAIKey != "" {
		headers["X-VoyageAI-Api-Key"] = c.VoyageAIKey
	}
	return headers
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.URL != "" {
		c.URL = overlay.URL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.OpenAIKey != "" {
		c.OpenAIKey = overlay.OpenAIKey
	}
	if overlay.VoyageAIKey != "" {
		c.VoyageAIKey = overlay.VoyageAIKey
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:8080"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.URL != "" {
		if v := os.Getenv(env.URL); v != "" {
			c.URL = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.OpenAIKey != "" {
		if v := os.Getenv(env.OpenAIKey); v != "" {
			c.OpenAIKey = v
		}
	}
	if env.VoyageAIKey != "" {
		if v := os.Getenv(env.VoyageAIKey); v != "" {
			c.VoyageAIKey = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https: %s", c.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("url host required: %s", c.URL)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
