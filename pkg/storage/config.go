package storage

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"
)

// Azure container names: 3-63 lowercase letters, digits and single hyphens.
var containerName = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9]|-[a-z0-9]){2,62}$`)

// Config selects the blob container transcripts are archived to. An empty
// ConnectionString disables storage.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	// Prefix namespaces every key, e.g. per deployment.
	Prefix     string `toml:"prefix"`
	MaxRetries int    `toml:"max_retries"`
	TryTimeout string `toml:"try_timeout"`
}

type Env struct {
	ContainerName    string
	ConnectionString string
	Prefix           string
	MaxRetries       string
	TryTimeout       string
}

func (c *Config) Enabled() bool {
	return c.ConnectionString != ""
}

func (c *Config) TryTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.TryTimeout)
	return d
}

func (c *Config) Finalize(env *Env) error {
	if c.ContainerName == "" {
		c.ContainerName = "transcripts"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.TryTimeout == "" {
		c.TryTimeout = "30s"
	}
	if env != nil {
		c.loadEnv(env)
	}

	if len(c.ContainerName) > 63 || !containerName.MatchString(c.ContainerName) {
		return fmt.Errorf("invalid container_name %q", c.ContainerName)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if _, err := time.ParseDuration(c.TryTimeout); err != nil {
		return fmt.Errorf("invalid try_timeout: %w", err)
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.TryTimeout != "" {
		c.TryTimeout = overlay.TryTimeout
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	set(env.ContainerName, &c.ContainerName)
	set(env.ConnectionString, &c.ConnectionString)
	set(env.Prefix, &c.Prefix)
	set(env.TryTimeout, &c.TryTimeout)

	if env.MaxRetries != "" {
		if n, err := strconv.Atoi(os.Getenv(env.MaxRetries)); err == nil {
			c.MaxRetries = n
		}
	}
}
