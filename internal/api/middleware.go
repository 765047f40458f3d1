// internal/api/middleware.go
package api

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/bagelshop/internal/api/authz"
	"github.com/codr1/bagelshop/internal/db"
)

type Middleware func(http.Handler) http.Handler

type requestIDContextKey struct{}

const adminLookupTimeout = 5 * time.Second

// AdminLookup resolves a Clerk user to an admin row.
type AdminLookup interface {
	GetAdmin(ctx context.Context, userID string) (authz.Admin, error)
}

func ChainMiddleware(h http.Handler, middleware ...Middleware) http.Handler {
	for _, m := range middleware {
		h = m(h)
	}
	return h
}

// RequestIDFromContext returns the id assigned by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}

func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create response wrapper to capture status code
		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.status).
			Dur("duration", time.Since(start)).
			Str("request_id", RequestIDFromContext(r.Context())).
			Msg("Request completed")
	})
}

func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger := log.Ctx(r.Context())
				stack := debug.Stack()
				logger.Error().
					Interface("error", err).
					Str("stack", string(stack)).
					Msg("Panic recovered")

				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		// Create a logger with the request ID
		logger := log.With().Str("request_id", requestID).Logger()

		ctx := context.WithValue(r.Context(), requestIDContextKey{}, requestID)
		ctx = logger.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithAdmin looks up the signed-in user in the admins table and, when found,
// adds the admin to the request context. It must run after the Clerk session
// middleware.
func WithAdmin(admins AdminLookup) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := authz.IdentityFromContext(r.Context())
			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}

			lookupCtx, cancel := context.WithTimeout(r.Context(), adminLookupTimeout)
			defer cancel()

			admin, err := admins.GetAdmin(lookupCtx, identity.UserID)
			if err != nil {
				if errors.Is(err, db.ErrAdminNotFound) {
					next.ServeHTTP(w, r)
					return
				}
				log.Ctx(r.Context()).Error().Err(err).Str("clerk_user_id", identity.UserID).Msg("Failed to look up admin")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := authz.ContextWithAdmin(r.Context(), &admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin answers 401 without a session and 403 for non-admins.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.Ctx(r.Context())
		if err := authz.RequireAdmin(r.Context()); err != nil {
			logEvent := logger.Warn()
			if identity := authz.IdentityFromContext(r.Context()); identity != nil {
				logEvent = logEvent.Str("clerk_user_id", identity.UserID)
			}
			switch {
			case errors.Is(err, authz.ErrUnauthenticated):
				logEvent.Msg("Admin access denied: unauthenticated")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
			default:
				logEvent.Msg("Admin access denied: forbidden")
				http.Error(w, "Forbidden", http.StatusForbidden)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter wrapper to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
