package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"github.com/Rupmejs/CareRemote-sub000/internal/config"
	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/security"
	"github.com/Rupmejs/CareRemote-sub000/internal/service"
	"github.com/Rupmejs/CareRemote-sub000/internal/validation"
)

// AuthHandler handles registration, login, logout and social sign-in
type AuthHandler struct {
	authService          *service.AuthService
	csrf                 *security.CSRFGenerator
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, csrf *security.CSRFGenerator, cfg *config.Config) *AuthHandler {
	providers := map[string]OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Scopes:       []string{"openid", "email", "profile"},
				Endpoint:     google.Endpoint,
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Scopes:       []string{"email", "public_profile"},
				Endpoint:     facebook.Endpoint,
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
	}

	return &AuthHandler{
		authService:          authService,
		csrf:                 csrf,
		oauthProviders:       providers,
		oauthRedirectBaseURL: cfg.OAuthRedirectBaseURL,
	}
}

type registerRequest struct {
	UserType        string `json:"user_type"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	UserType string `json:"user_type"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID       int64  `json:"id"`
	UserType string `json:"user_type"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type sessionResponse struct {
	Account   accountResponse `json:"account"`
	CSRFToken string          `json:"csrf_token"`
}

func toAccountResponse(account *models.Account) accountResponse {
	return accountResponse{
		ID:       account.ID,
		UserType: string(account.UserType),
		Username: account.Username,
		Email:    account.Email,
	}
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	account, err := h.authService.Register(
		models.UserType(req.UserType), req.Username, req.Email, req.Password, req.ConfirmPassword,
	)
	if err != nil {
		status, msg := authErrorStatus(err)
		respondWithError(w, status, msg, "Registration failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, toAccountResponse(account))
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	session, account, err := h.authService.Login(models.UserType(req.UserType), req.Email, req.Password)
	if err != nil {
		status, msg := authErrorStatus(err)
		respondWithError(w, status, msg, "Login failed", err)
		return
	}

	csrfToken, err := h.csrf.GenerateToken(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Login failed", "Failed to generate CSRF token", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, "session_id", session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusOK, sessionResponse{
		Account:   toAccountResponse(account),
		CSRFToken: csrfToken,
	})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session_id"); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Logout failed", "", err)
			return
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, "session_id"))
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me handles GET /me, returning the authenticated account and a fresh
// CSRF token so reconnecting clients can resume mutating requests.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	session := GetSessionFromContext(r.Context())
	if account == nil || session == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return
	}

	csrfToken, err := h.csrf.GenerateToken(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load account", "Failed to generate CSRF token", err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{
		Account:   toAccountResponse(account),
		CSRFToken: csrfToken,
	})
}

func authErrorStatus(err error) (int, string) {
	var validationErr validation.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, service.ErrInvalidUserType):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	default:
		return http.StatusInternalServerError, "Something went wrong"
	}
}
