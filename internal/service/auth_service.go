package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/repository"
	"github.com/Rupmejs/CareRemote-sub000/internal/security"
	"github.com/Rupmejs/CareRemote-sub000/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidUserType    = errors.New("unknown user type")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles registration, login and session lifecycle
type AuthService struct {
	accountRepo     *repository.AccountRepository
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(accountRepo *repository.AccountRepository, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		accountRepo:     accountRepo,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new account in the given user-type partition.
// Every field is required and the password must match its confirmation;
// the parent flow additionally requires a well-formed email address.
// There is intentionally no duplicate-email check: the store has always
// allowed multiple registrations per address, and login disambiguates by
// matching email and password together.
func (s *AuthService) Register(userType models.UserType, username, email, password, confirmPassword string) (*models.Account, error) {
	if !userType.Valid() {
		return nil, ErrInvalidUserType
	}
	if err := validation.ValidateRequired("username", username); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("email", email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePasswords(password, confirmPassword); err != nil {
		return nil, err
	}
	if userType == models.UserTypeParent {
		if err := validation.ValidateEmail(email); err != nil {
			return nil, err
		}
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.accountRepo.CreateAccount(userType, username, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// Login authenticates against a user-type partition and creates a session.
// Because emails are not unique, every candidate under the address is
// checked; the first whose password matches wins.
func (s *AuthService) Login(userType models.UserType, email, password string) (*models.Session, *models.Account, error) {
	if !userType.Valid() {
		return nil, nil, ErrInvalidUserType
	}

	candidates, err := s.accountRepo.GetAccountsByEmail(userType, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up accounts: %w", err)
	}

	var account *models.Account
	for i := range candidates {
		if security.CheckPassword(password, candidates[i].PasswordHash) {
			account = &candidates[i]
			break
		}
	}
	if account == nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(account)
	if err != nil {
		return nil, nil, err
	}

	return session, account, nil
}

// ValidateSession checks a session and returns the associated account
func (s *AuthService) ValidateSession(sessionID string) (*models.Session, *models.Account, error) {
	session, err := s.accountRepo.GetSession(sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.accountRepo.DeleteSession(sessionID)
		return nil, nil, ErrSessionExpired
	}

	account, err := s.accountRepo.GetAccountByID(session.AccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, nil, ErrSessionNotFound
	}

	return session, account, nil
}

// Logout invalidates a session. Always succeeds from the caller's view.
func (s *AuthService) Logout(sessionID string) error {
	if err := s.accountRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the store
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.accountRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// OAuthLogin authenticates or creates a parent account using an OAuth
// provider identity. Social sign-in is a parent-flow feature only.
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.Session, *models.Account, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	account, err := s.accountRepo.GetAccountByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth account: %w", err)
	}

	if account == nil {
		if name == "" {
			name = strings.Split(email, "@")[0]
		}

		// OAuth accounts never log in by password; store an unguessable one
		randomPasswordHash, err := security.HashPassword(security.GenerateSessionID())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate oauth password hash: %w", err)
		}

		account, err = s.accountRepo.CreateAccount(models.UserTypeParent, name, email, randomPasswordHash)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create oauth account: %w", err)
		}
		if err := s.accountRepo.LinkOAuthProvider(account.ID, provider, subject); err != nil {
			return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
		}
	}

	session, err := s.createSession(account)
	if err != nil {
		return nil, nil, err
	}

	return session, account, nil
}

func (s *AuthService) createSession(account *models.Account) (*models.Session, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.accountRepo.CreateSession(sessionID, account, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}
