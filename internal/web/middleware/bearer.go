// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const bearerKey contextKey = "bearerToken"

// Bearer extracts the token from an "Authorization: Bearer ..." header and
// stores it in the request context. The token is not verified here; it is
// forwarded as-is to the destination backend, which owns authentication.
// Requests without a token still pass through so the service can answer with
// a proper JSON error instead of a bare 401.
func Bearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			r = r.WithContext(context.WithValue(r.Context(), bearerKey, strings.TrimSpace(token)))
		}
		next.ServeHTTP(w, r)
	})
}

// BearerToken returns the bearer token stored by Bearer, or "" when the
// request carried none.
func BearerToken(ctx context.Context) string {
	token, _ := ctx.Value(bearerKey).(string)
	return token
}
