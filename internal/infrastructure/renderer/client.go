// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

// Package renderer is the client for the external document rendering
// service that turns finalized protocols into human-readable documents.
// Rendering is asynchronous: the service calls back over the
// attach_protocol_document subject when the document is ready.
package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/auth0/go-auth0/authentication"
	"github.com/auth0/go-auth0/authentication/oauth"
	"golang.org/x/oauth2"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
)

const tokenExpiryLeeway = 60 * time.Second

// Config holds renderer client configuration
type Config struct {
	BaseURL     string
	ClientID    string
	PrivateKey  string // RSA private key in PEM format
	Auth0Domain string
	Audience    string
	Timeout     time.Duration
}

// Client implements domain.ProtocolRenderer
type Client struct {
	httpClient *http.Client
	config     Config
}

// auth0TokenSource implements oauth2.TokenSource using the Auth0 SDK with a
// private key assertion
type auth0TokenSource struct {
	ctx        context.Context
	authConfig *authentication.Authentication
	audience   string
}

// Token implements the oauth2.TokenSource interface
func (a *auth0TokenSource) Token() (*oauth2.Token, error) {
	ctx := a.ctx
	if ctx == nil {
		ctx = context.TODO()
	}

	body := oauth.LoginWithClientCredentialsRequest{
		Audience: a.audience,
	}

	tokenSet, err := a.authConfig.OAuth.LoginWithClientCredentials(ctx, body, oauth.IDTokenValidationOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get token from Auth0: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  tokenSet.AccessToken,
		TokenType:    tokenSet.TokenType,
		RefreshToken: tokenSet.RefreshToken,
		Expiry:       time.Now().Add(time.Duration(tokenSet.ExpiresIn)*time.Second - tokenExpiryLeeway),
	}

	token = token.WithExtra(map[string]any{
		"scope": tokenSet.Scope,
	})

	return token, nil
}

// NewClient creates a new renderer client with OAuth2 M2M authentication
// using a private key assertion
func NewClient(config Config) (*Client, error) {
	ctx := context.Background()

	if config.PrivateKey == "" {
		return nil, fmt.Errorf("renderer client private key is required but not set")
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	authConfig, err := authentication.New(
		ctx,
		config.Auth0Domain,
		authentication.WithClientID(config.ClientID),
		authentication.WithClientAssertion(config.PrivateKey, "RS256"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Auth0 client: %w", err)
	}

	tokenSource := &auth0TokenSource{
		ctx:        ctx,
		authConfig: authConfig,
		audience:   config.Audience,
	}

	httpClient := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, tokenSource))
	httpClient.Timeout = config.Timeout

	return &Client{
		httpClient: httpClient,
		config:     config,
	}, nil
}

// renderRequest is the request body of the rendering service.
type renderRequest struct {
	ProtocolUID     string `json:"protocol_uid"`
	MeetingUID      string `json:"meeting_uid"`
	OrganizationUID string `json:"organization_uid"`
	ProtocolNumber  uint64 `json:"protocol_number"`
	Reference       string `json:"reference"`
}

// RequestRender asks the rendering service to produce a document for a
// finalized protocol. The rendered document reference arrives later via the
// attach_protocol_document subject, so this call only enqueues work.
func (c *Client) RequestRender(ctx context.Context, protocol *models.MeetingProtocol) error {
	if protocol == nil || !protocol.IsFinal() {
		return domain.NewValidationError("only finalized protocols can be rendered")
	}

	body, err := json.Marshal(renderRequest{
		ProtocolUID:     protocol.UID,
		MeetingUID:      protocol.MeetingUID,
		OrganizationUID: protocol.OrganizationUID,
		ProtocolNumber:  protocol.ProtocolNumber,
		Reference:       protocol.Reference,
	})
	if err != nil {
		return domain.NewInternalError("failed to marshal render request", err)
	}

	url := fmt.Sprintf("%s/v1/renderings", c.config.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.NewInternalError("failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	slog.DebugContext(ctx, "renderer request",
		"url", url,
		"protocol_uid", protocol.UID,
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.NewUnavailableError("renderer service request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewInternalError("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.ErrorContext(ctx, "renderer response error",
			"status_code", resp.StatusCode,
			"body", string(respBody),
		)
		return c.mapHTTPError(resp.StatusCode, respBody)
	}

	slog.DebugContext(ctx, "render enqueued", "status_code", resp.StatusCode)
	return nil
}

// rendererErrorResponse is the error body of the rendering service.
type rendererErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (c *Client) mapHTTPError(statusCode int, body []byte) error {
	var errMsg rendererErrorResponse
	_ = json.Unmarshal(body, &errMsg)

	message := errMsg.Message
	if message == "" {
		message = errMsg.Error
	}
	if message == "" {
		message = fmt.Sprintf("HTTP %d error", statusCode)
	}

	switch statusCode {
	case http.StatusBadRequest:
		return domain.NewValidationError(message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewValidationError(fmt.Sprintf("authentication/authorization failed: %s", message))
	case http.StatusNotFound:
		return domain.NewNotFoundError(message)
	case http.StatusConflict:
		return domain.NewConflictError(message)
	case http.StatusServiceUnavailable:
		return domain.NewUnavailableError(message)
	default:
		return domain.NewInternalError(message)
	}
}
