// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"net/http"

	"github.com/openassembly/governance-service/pkg/constants"
)

// AuthorizationMiddleware stashes the authorization header on the request
// context so downstream handlers can pass it along to other services.
func AuthorizationMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorization := r.Header.Get(constants.AuthorizationHeader)
			if authorization == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), constants.AuthorizationContextID, authorization)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
