package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lukasssicevs/drippler-web/internal/domain/model"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
	"github.com/lukasssicevs/drippler-web/internal/infra/logging"
	"github.com/lukasssicevs/drippler-web/internal/infra/metrics"
)

// AuthHeader is the custom header the extension sends its access token in.
const AuthHeader = "X-Supabase-Auth"

type Middleware func(http.Handler) http.Handler

func TraceID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.WithTraceID(r.Context(), uuid.NewString())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequestLog(logger *zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			elapsed := time.Since(start)
			metrics.ObserveHTTPRequest(r.Method, route, ww.status, float64(elapsed.Milliseconds()))
			logging.With(r.Context(), logger).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.status).
				Dur("duration", elapsed).
				Msg("http_request")
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func Recover(logger *zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logging.With(r.Context(), logger).Error().Interface("panic", rec).Msg("panic recovered")
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORS admits the extension origin plus the site itself. The extension id
// is optional in dev, in which case any chrome-extension origin passes.
func CORS(extensionID, siteURL string) Middleware {
	allowedExt := ""
	if extensionID != "" {
		allowedExt = "chrome-extension://" + extensionID
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowOrigin(origin, allowedExt, siteURL) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+AuthHeader)
				w.Header().Set("Access-Control-Max-Age", "3600")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func allowOrigin(origin, allowedExt, siteURL string) bool {
	if origin == "" {
		return false
	}
	if allowedExt != "" {
		return origin == allowedExt || origin == siteURL
	}
	return strings.HasPrefix(origin, "chrome-extension://") || origin == siteURL
}

type userCtxKey struct{}

// RequireUser validates the custom auth header before the handler runs, so
// a bad token never reaches storage or the database. The resolved user is
// placed on the request context.
func RequireUser(auth adapter.AuthProvider, logger *zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(AuthHeader)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Missing authentication token")
				return
			}
			user, err := auth.GetUser(r.Context(), token)
			if err != nil {
				logging.With(r.Context(), logger).Warn().Err(err).Msg("token rejected")
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			ctx := logging.WithUserID(r.Context(), user.ID)
			ctx = context.WithValue(ctx, userCtxKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userFrom returns the authenticated user put on the context by RequireUser.
func userFrom(ctx context.Context) *model.AuthUser {
	u, _ := ctx.Value(userCtxKey{}).(*model.AuthUser)
	return u
}
