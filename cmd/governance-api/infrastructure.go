// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/infrastructure/auth"
	"github.com/openassembly/governance-service/internal/infrastructure/renderer"
)

// setupJWTAuth configures JWT authentication for the service
func setupJWTAuth() (*auth.JWTAuth, error) {
	jwtAuthConfig := auth.JWTAuthConfig{
		JWKSURL:            os.Getenv("JWKS_URL"),
		Audience:           os.Getenv("JWT_AUDIENCE"),
		MockLocalPrincipal: os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"),
	}
	return auth.NewJWTAuth(jwtAuthConfig)
}

// setupRenderer configures the protocol renderer client. It returns a nil
// renderer when no client ID is configured, in which case finalized
// protocols are not sent out for document rendering.
func setupRenderer(config rendererConfig) (domain.ProtocolRenderer, error) {
	if config.ClientID == "" {
		return nil, nil
	}

	client, err := renderer.NewClient(renderer.Config{
		BaseURL:     config.BaseURL,
		ClientID:    config.ClientID,
		PrivateKey:  config.PrivateKey,
		Auth0Domain: config.Auth0Domain,
		Audience:    config.Audience,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
