// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/logging"
	"github.com/openassembly/governance-service/internal/middleware"
	"github.com/openassembly/governance-service/internal/service"
	"github.com/openassembly/governance-service/pkg/constants"
)

// errorResponse is the JSON body returned for failed HTTP requests.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// httpStatusFor maps an error's semantic type onto an HTTP status code.
func httpStatusFor(err error) int {
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeForbidden:
		return http.StatusForbidden
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.With(logging.ErrKey, err).Error("error encoding http response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := httpStatusFor(err)
	writeJSON(w, status, errorResponse{
		Code:    http.StatusText(status),
		Message: err.Error(),
	})
}

// governanceHTTPServer serves the health checks and the read-only query
// endpoints. All mutating governance operations go over NATS request/reply.
type governanceHTTPServer struct {
	authService *service.AuthService
	govService  *service.GovernanceService
	natsConn    *nats.Conn
}

// authorize validates the bearer token and returns the acting principal.
func (s *governanceHTTPServer) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	authorization := r.Header.Get(constants.AuthorizationHeader)
	token, found := strings.CutPrefix(authorization, "Bearer ")
	if !found || token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Code:    http.StatusText(http.StatusUnauthorized),
			Message: "a bearer token is required",
		})
		return "", false
	}

	principal, err := s.authService.ParsePrincipal(r.Context(), token, slog.Default())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Code:    http.StatusText(http.StatusUnauthorized),
			Message: "token validation failed",
		})
		return "", false
	}
	return principal, true
}

func (s *governanceHTTPServer) handleLivez(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK"))
}

func (s *governanceHTTPServer) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if !s.govService.HandlerReady() || !s.natsConn.IsConnected() {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("NOT READY"))
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK"))
}

func (s *governanceHTTPServer) handleGetVoteTally(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authorize(w, r); !ok {
		return
	}

	tally, err := s.govService.TallyService.TallyVote(r.Context(), r.PathValue("vote_uid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tally)
}

func (s *governanceHTTPServer) handleGetQuorum(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authorize(w, r); !ok {
		return
	}

	quorum, err := s.govService.QuorumService.ComputeQuorum(r.Context(), r.PathValue("meeting_uid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quorum)
}

func (s *governanceHTTPServer) handleGetProtocol(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authorize(w, r); !ok {
		return
	}

	protocol, err := s.govService.ProtocolService.GetFinalProtocol(r.Context(), r.PathValue("meeting_uid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol)
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, srv *governanceHTTPServer, gracefulCloseWG *sync.WaitGroup) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", srv.handleLivez)
	mux.HandleFunc("GET /readyz", srv.handleReadyz)
	mux.HandleFunc("GET /votes/{vote_uid}/tally", srv.handleGetVoteTally)
	mux.HandleFunc("GET /meetings/{meeting_uid}/quorum", srv.handleGetQuorum)
	mux.HandleFunc("GET /meetings/{meeting_uid}/protocol", srv.handleGetProtocol)

	var handler http.Handler = mux

	// Add HTTP middleware
	// Note: Order matters - RequestIDMiddleware should come first in the chain,
	// so it should be the last middleware added to the handler since it is executed in reverse order.
	handler = middleware.RequestLoggerMiddleware()(handler)
	handler = middleware.RequestIDMiddleware()(handler)
	handler = middleware.AuthorizationMiddleware()(handler)

	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}
