package openapi

import (
	"os"
	"strings"
)

// Config is the document metadata. Servers lists public base URLs; when
// empty the API base path is published as a relative server.
type Config struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Servers     []string `toml:"servers"`
}

// ConfigEnv names the environment variables read by Finalize. Servers is
// comma separated.
type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
}

func (c *Config) Finalize(env *ConfigEnv) error {
	if env != nil {
		c.loadEnv(env)
	}
	if c.Title == "" {
		c.Title = "Redress API"
	}
	if c.Description == "" {
		c.Description = "Grievance classification and follow-up service."
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if len(overlay.Servers) > 0 {
		c.Servers = overlay.Servers
	}
}

// NewSpec starts a document from c for the given version and base path.
func (c *Config) NewSpec(version, basePath string) *Spec {
	s := NewSpec(c.Title, version)
	s.SetDescription(c.Description)

	if len(c.Servers) == 0 {
		s.AddServer(basePath)
	}
	for _, url := range c.Servers {
		s.AddServer(strings.TrimSuffix(url, "/") + basePath)
	}
	return s
}

func (c *Config) loadEnv(env *ConfigEnv) {
	lookup := func(name string) string {
		if name == "" {
			return ""
		}
		return os.Getenv(name)
	}

	if v := lookup(env.Title); v != "" {
		c.Title = v
	}
	if v := lookup(env.Description); v != "" {
		c.Description = v
	}
	if v := lookup(env.Servers); v != "" {
		c.Servers = nil
		for s := range strings.SplitSeq(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Servers = append(c.Servers, s)
			}
		}
	}
}
