package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/redress/pkg/formatting"
	"github.com/JaimeStill/redress/pkg/middleware"
	"github.com/JaimeStill/redress/pkg/openapi"
	"github.com/JaimeStill/redress/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "REDRESS_CORS_ENABLED",
	Origins:          "REDRESS_CORS_ORIGINS",
	AllowedMethods:   "REDRESS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "REDRESS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "REDRESS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "REDRESS_CORS_MAX_AGE",
}

var authEnv = &middleware.AuthEnv{
	Tokens:   "REDRESS_AUTH_TOKENS",
	Issuer:   "REDRESS_AUTH_ISSUER",
	ClientID: "REDRESS_AUTH_CLIENT_ID",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "REDRESS_OPENAPI_TITLE",
	Description: "REDRESS_OPENAPI_DESCRIPTION",
	Servers:     "REDRESS_OPENAPI_SERVERS",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "REDRESS_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "REDRESS_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, middleware, document metadata, and pagination settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Auth        middleware.AuthConfig `toml:"auth"`
	OpenAPI     openapi.Config        `toml:"openapi"`
	Pagination  pagination.Config     `toml:"pagination"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.OpenAPI.Merge(&overlay.OpenAPI)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("REDRESS_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("REDRESS_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}
