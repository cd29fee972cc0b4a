package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost            = "REDRESS_SERVER_HOST"
	EnvServerPort            = "REDRESS_SERVER_PORT"
	EnvServerReadTimeout     = "REDRESS_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "REDRESS_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout     = "REDRESS_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout = "REDRESS_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig is the HTTP listener. Timeouts are Go duration strings.
// WriteTimeout must outlast the slowest model round trip of a request.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	IdleTimeout     string `toml:"idle_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration     { return duration(c.ReadTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration    { return duration(c.WriteTimeout) }
func (c *ServerConfig) IdleTimeoutDuration() time.Duration     { return duration(c.IdleTimeout) }
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration { return duration(c.ShutdownTimeout) }

func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for _, f := range c.fields(overlay) {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, f := range c.fields(nil) {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, f := range c.fields(nil) {
		if v := os.Getenv(f.env); v != "" {
			*f.dst = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, f := range c.fields(nil) {
		if f.name == "host" {
			continue
		}
		d, err := time.ParseDuration(*f.dst)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be positive", f.name)
		}
	}
	return nil
}

type serverField struct {
	name, env, def string
	dst, src       *string
}

// fields lists the string settings with their env names and defaults.
// src points into overlay when one is given.
func (c *ServerConfig) fields(overlay *ServerConfig) []serverField {
	fs := []serverField{
		{name: "host", env: EnvServerHost, def: "0.0.0.0", dst: &c.Host},
		{name: "read_timeout", env: EnvServerReadTimeout, def: "1m", dst: &c.ReadTimeout},
		{name: "write_timeout", env: EnvServerWriteTimeout, def: "5m", dst: &c.WriteTimeout},
		{name: "idle_timeout", env: EnvServerIdleTimeout, def: "2m", dst: &c.IdleTimeout},
		{name: "shutdown_timeout", env: EnvServerShutdownTimeout, def: "30s", dst: &c.ShutdownTimeout},
	}
	if overlay != nil {
		srcs := []*string{&overlay.Host, &overlay.ReadTimeout, &overlay.WriteTimeout, &overlay.IdleTimeout, &overlay.ShutdownTimeout}
		for i := range fs {
			fs[i].src = srcs[i]
		}
	}
	return fs
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
