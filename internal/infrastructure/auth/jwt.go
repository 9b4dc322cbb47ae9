// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

// Package auth validates bearer tokens issued by the Heimdall gateway and
// extracts the acting principal for the administrative governance
// operations.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

const (
	// defaultJWKSURL is the in-cluster Heimdall JWKS endpoint.
	defaultJWKSURL = "http://heimdall:4457/.well-known/jwks"

	// defaultAudience is the audience expected in tokens for this service.
	defaultAudience = "governance-service"

	jwksCacheTTL = 5 * time.Minute
)

// HeimdallClaims are the custom claims Heimdall places in the tokens it
// issues after authenticating a caller.
type HeimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate implements validator.CustomClaims.
func (c *HeimdallClaims) Validate(_ context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuthConfig configures token validation. MockLocalPrincipal bypasses
// validation entirely and is only meant for local development.
type JWTAuthConfig struct {
	JWKSURL            string
	Audience           string
	MockLocalPrincipal string
}

// IJWTAuth is the narrow capability the services need from the validator.
type IJWTAuth interface {
	ParsePrincipal(ctx context.Context, bearerToken string, logger *slog.Logger) (string, error)
}

// JWTAuth validates bearer tokens against the Heimdall JWKS.
type JWTAuth struct {
	validator *validator.Validator
	config    JWTAuthConfig
}

// NewJWTAuth creates a new JWTAuth with a caching JWKS provider.
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}

	issuerURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWKS URL: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, jwksCacheTTL, jwks.WithCustomJWKSURI(issuerURL))

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &HeimdallClaims{}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up JWT validator: %w", err)
	}

	return &JWTAuth{
		validator: jwtValidator,
		config:    config,
	}, nil
}

// ParsePrincipal validates the bearer token and returns the principal it
// carries.
func (a *JWTAuth) ParsePrincipal(ctx context.Context, bearerToken string, logger *slog.Logger) (string, error) {
	if a.config.MockLocalPrincipal != "" {
		logger.WarnContext(ctx, "mock authentication enabled, skipping token validation",
			"principal", a.config.MockLocalPrincipal,
		)
		return a.config.MockLocalPrincipal, nil
	}

	if a.validator == nil {
		return "", errors.New("JWT validator is not set up")
	}

	parsed, err := a.validator.ValidateToken(ctx, bearerToken)
	if err != nil {
		return "", fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := parsed.(*validator.ValidatedClaims)
	if !ok {
		return "", errors.New("token claims have an unexpected shape")
	}

	custom, ok := claims.CustomClaims.(*HeimdallClaims)
	if !ok {
		return "", errors.New("token is missing the Heimdall claims")
	}

	return custom.Principal, nil
}
