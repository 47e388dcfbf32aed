package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/security"
	"github.com/Rupmejs/CareRemote-sub000/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	AccountContextKey ContextKey = "account"
	SessionContextKey ContextKey = "session"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
	rateLimiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, csrf *security.CSRFGenerator, rateLimiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		csrf:        csrf,
		rateLimiter: rateLimiter,
	}
}

// RequireAuth is middleware that requires a valid session cookie
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session_id")
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}

		session, account, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r, "session_id"))
			respondWithError(w, http.StatusUnauthorized, "Session invalid or expired", "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		ctx = context.WithValue(ctx, AccountContextKey, account)
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect validates the CSRF header on mutating requests. Must run
// inside RequireAuth so the session is already on the context.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r.Context())
		if session == nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}

		token := r.Header.Get("X-CSRF-Token")
		if !m.csrf.ValidateToken(session.ID, token) {
			respondWithError(w, http.StatusForbidden, "Invalid CSRF token", "", nil)
			return
		}

		next(w, r)
	}
}

// RateLimit rejects clients that exceed the request budget. Applied to
// the auth endpoints to slow down credential guessing.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.rateLimiter.Allow(ip) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests", "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetAccountFromContext retrieves the account from the request context
func GetAccountFromContext(ctx context.Context) *models.Account {
	account, ok := ctx.Value(AccountContextKey).(*models.Account)
	if !ok {
		return nil
	}
	return account
}

// GetSessionFromContext retrieves the session from the request context
func GetSessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(SessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
