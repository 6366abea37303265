package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/snapshare/backend/internal/logging"
)

// TokenVerifier checks a bearer token and returns the identity it asserts.
type TokenVerifier interface {
	VerifyToken(token string) (userID, email string, err error)
}

type ctxKey string

const userIDKey ctxKey = "userID"

// UserIDFromContext returns the identity attached by RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// RequireAuth verifies the Authorization header and attaches the verified
// user id to the request context. This identity is the only trusted source
// of "who is acting": identity fields in request bodies are ignored by every
// handler. Pre-flight OPTIONS requests pass through unverified.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			// e.g. Authorization: 'Bearer TOKEN'
			parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				respondError(w, http.StatusForbidden, msgAuthFailed)
				return
			}

			userID, _, err := verifier.VerifyToken(parts[1])
			if err != nil {
				respondError(w, http.StatusForbidden, msgAuthFailed)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// WithRequestLogging logs each request with method, path, status, and
// duration.
func WithRequestLogging(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info(r.Context(), "request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}
