package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/redress/pkg/handlers"
)

// ErrUnauthorized indicates a missing or rejected bearer token.
var ErrUnauthorized = errors.New("invalid authentication token")

// AuthConfig holds bearer token settings. Static tokens are checked first;
// when Issuer is set, remaining tokens are verified as OIDC ID tokens.
// Authentication is off when neither is configured.
type AuthConfig struct {
	Tokens   []string `toml:"tokens"`
	Issuer   string   `toml:"issuer"`
	ClientID string   `toml:"client_id"`
}

// AuthEnv maps auth config fields to environment variable names for override injection.
type AuthEnv struct {
	Tokens   string
	Issuer   string
	ClientID string
}

// Enabled reports whether any token source is configured.
func (c *AuthConfig) Enabled() bool {
	return len(c.Tokens) > 0 || c.Issuer != ""
}

// Finalize applies environment variable overrides and validation.
func (c *AuthConfig) Finalize(env *AuthEnv) error {
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.Tokens != nil {
		c.Tokens = overlay.Tokens
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
}

func (c *AuthConfig) loadEnv(env *AuthEnv) {
	if env.Tokens != "" {
		if v := os.Getenv(env.Tokens); v != "" {
			tokens := strings.Split(v, ",")
			c.Tokens = make([]string, 0, len(tokens))
			for _, token := range tokens {
				if trimmed := strings.TrimSpace(token); trimmed != "" {
					c.Tokens = append(c.Tokens, trimmed)
				}
			}
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
}

func (c *AuthConfig) validate() error {
	if c.Issuer != "" && c.ClientID == "" {
		return fmt.Errorf("client_id required when issuer is set")
	}
	return nil
}

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) error
}

// StaticTokens accepts tokens from a fixed list.
type StaticTokens []string

func (s StaticTokens) Verify(_ context.Context, token string) error {
	for _, valid := range s {
		if subtle.ConstantTimeCompare([]byte(valid), []byte(token)) == 1 {
			return nil
		}
	}
	return ErrUnauthorized
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func (o oidcVerifier) Verify(ctx context.Context, token string) error {
	if _, err := o.verifier.Verify(ctx, token); err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return nil
}

// anyOf accepts a token when any verifier accepts it.
type anyOf []TokenVerifier

func (a anyOf) Verify(ctx context.Context, token string) error {
	err := ErrUnauthorized
	for _, v := range a {
		if err = v.Verify(ctx, token); err == nil {
			return nil
		}
	}
	return err
}

// NewVerifier builds the verifier described by cfg. Discovering an OIDC
// issuer requires network access to its well-known configuration.
func NewVerifier(ctx context.Context, cfg *AuthConfig) (TokenVerifier, error) {
	var verifiers anyOf
	if len(cfg.Tokens) > 0 {
		verifiers = append(verifiers, StaticTokens(cfg.Tokens))
	}
	if cfg.Issuer != "" {
		provider, err := oidc.NewProvider(ctx, cfg.Issuer)
		if err != nil {
			return nil, fmt.Errorf("oidc discovery: %w", err)
		}
		verifiers = append(verifiers, oidcVerifier{
			verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		})
	}
	return verifiers, nil
}

// Auth returns middleware that rejects requests whose bearer token is not
// accepted by v. Rejections carry a WWW-Authenticate challenge.
func Auth(v TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r)
			if !ok || v.Verify(r.Context(), token) != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
