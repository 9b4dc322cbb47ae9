// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/openassembly/governance-service/internal/logging"
	"github.com/openassembly/governance-service/pkg/utils"
)

// flags are the command line flags for the governance service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the governance service.
type environment struct {
	Port           string
	NatsURL        string
	RendererConfig rendererConfig
}

// rendererConfig holds the protocol renderer client configuration. The
// renderer is optional; when ClientID is empty the service runs without it
// and protocols keep their snapshot content only.
type rendererConfig struct {
	BaseURL     string
	ClientID    string
	PrivateKey  string
	Auth0Domain string
	Audience    string
}

// parseFlags parses command line flags for the governance service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the governance service
func parseEnv() environment {
	return environment{
		Port:           utils.CoalesceString(os.Getenv("PORT"), "8080"),
		NatsURL:        utils.CoalesceString(os.Getenv("NATS_URL"), "nats://nats:4222"),
		RendererConfig: parseRendererConfig(),
	}
}

// parseRendererConfig parses protocol renderer configuration from environment variables
func parseRendererConfig() rendererConfig {
	clientID := os.Getenv("RENDERER_CLIENT_ID")
	if clientID == "" {
		// Renderer disabled.
		return rendererConfig{}
	}

	privateKey := os.Getenv("RENDERER_CLIENT_PRIVATE_KEY")
	if privateKey == "" {
		slog.Error("RENDERER_CLIENT_PRIVATE_KEY environment variable is required when RENDERER_CLIENT_ID is set")
		os.Exit(1)
	}

	return rendererConfig{
		BaseURL:     utils.CoalesceString(os.Getenv("RENDERER_BASE_URL"), "http://protocol-renderer:8080"),
		ClientID:    clientID,
		PrivateKey:  privateKey,
		Auth0Domain: utils.CoalesceString(os.Getenv("RENDERER_AUTH0_DOMAIN"), "openassembly.auth0.com"),
		Audience:    utils.CoalesceString(os.Getenv("RENDERER_AUDIENCE"), "https://api.openassembly.org/"),
	}
}
