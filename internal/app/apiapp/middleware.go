package apiapp

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/config"
	"github.com/QCNachos/TindAi/internal/metrics"
	authsvc "github.com/QCNachos/TindAi/internal/services/auth"
	ratesvc "github.com/QCNachos/TindAi/internal/services/rate"
	httperrors "github.com/QCNachos/TindAi/internal/transport/http/errors"
)

func ApplyMiddlewares(r chi.Router, log *zap.Logger, cfg config.Config) {
	timeout := cfg.HTTP.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(maxBodySize(cfg.Limits.MaxBodyBytes))
	r.Use(requestLogger(log))
}

// AuthMiddleware resolves the API key into an identity. Requests without a key
// pass through anonymously; a malformed or unknown key is rejected.
func AuthMiddleware(authService *authsvc.Service, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey, ok := extractAPIKey(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if authService == nil {
				httperrors.WriteError(w, http.StatusInternalServerError, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
				return
			}

			identity, err := authService.Authenticate(r.Context(), apiKey)
			if err != nil {
				if errors.Is(err, authsvc.ErrUnauthorized) {
					httperrors.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid API key")
					return
				}
				if log != nil {
					log.Error("api key lookup failed", zap.Error(err))
				}
				httperrors.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
				return
			}

			next.ServeHTTP(w, r.WithContext(authsvc.WithIdentity(r.Context(), identity)))
		})
	}
}

func RequireAgent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
			httperrors.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractAPIKey(r *http.Request) (string, bool) {
	if token, ok := extractBearerToken(r.Header.Get("Authorization")); ok {
		return token, true
	}
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key, true
	}
	return "", false
}

func extractBearerToken(value string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

type subjectFunc func(r *http.Request) (ratesvc.Action, string)

// perAction limits every caller under one action, keyed by agent when known and by IP otherwise.
func perAction(action ratesvc.Action) subjectFunc {
	return func(r *http.Request) (ratesvc.Action, string) {
		if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
			return action, "agent:" + identity.AgentID
		}
		return action, "ip:" + clientIP(r)
	}
}

// perIP limits by client address only.
func perIP(action ratesvc.Action) subjectFunc {
	return func(r *http.Request) (ratesvc.Action, string) {
		return action, "ip:" + clientIP(r)
	}
}

// general applies api_general to authenticated callers and api_unauth to everyone else.
func general(r *http.Request) (ratesvc.Action, string) {
	if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
		return ratesvc.ActionAPIGeneral, "agent:" + identity.AgentID
	}
	return ratesvc.ActionAPIUnauth, "ip:" + clientIP(r)
}

// RateLimit rejects requests over the action's window. Store failures let the request through.
func RateLimit(limiter *ratesvc.Limiter, log *zap.Logger, subject subjectFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			action, key := subject(r)
			decision, err := limiter.Allow(r.Context(), action, key)
			if err != nil {
				if log != nil {
					log.Warn("rate limiter unavailable, allowing request", zap.String("action", string(action)), zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			if decision.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
			}
			if !decision.Allowed {
				metrics.RateLimitHits.WithLabelValues(string(action)).Inc()
				httperrors.WriteRateLimited(w, "Rate limit exceeded", decision.RetryAfterSec)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		next.ServeHTTP(w, r)
	})
}

func maxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxBytes {
				httperrors.WriteError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes the access log line and records request metrics by route pattern.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			duration := time.Since(start)
			route := routePattern(r)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())

			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Duration("duration", duration),
					zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				)
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
