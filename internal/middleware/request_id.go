// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/openassembly/governance-service/internal/logging"
	"github.com/openassembly/governance-service/pkg/constants"
)

// RequestIDMiddleware propagates the caller's request ID, generating one when
// the header is missing. The ID is stored on the context and echoed back in
// the response so that logs on both sides of the hop can be correlated.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(constants.RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, constants.RequestIDContextID, requestID)
			ctx = logging.AppendCtx(ctx, slog.String("request_id", requestID))

			w.Header().Set(constants.RequestIDHeader, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
