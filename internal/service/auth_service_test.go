package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/repository"
	"github.com/Rupmejs/CareRemote-sub000/internal/validation"
)

func newAuthService(t *testing.T, sessionDuration time.Duration) *AuthService {
	t.Helper()
	db := newTestDB(t)
	return NewAuthService(repository.NewAccountRepository(db), sessionDuration)
}

func TestRegisterValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	authService := newAuthService(t, time.Hour)

	tests := []struct {
		name     string
		userType models.UserType
		username string
		email    string
		password string
		confirm  string
		wantErr  bool
	}{
		{
			name:     "valid parent",
			userType: models.UserTypeParent,
			username: "Anna",
			email:    "anna@x.com",
			password: "secret",
			confirm:  "secret",
		},
		{
			name:     "valid nanny",
			userType: models.UserTypeNanny,
			username: "Marta",
			email:    "marta@x.com",
			password: "secret",
			confirm:  "secret",
		},
		{
			name:     "unknown user type",
			userType: "admin",
			username: "Eve",
			email:    "eve@x.com",
			password: "secret",
			confirm:  "secret",
			wantErr:  true,
		},
		{
			name:     "missing username",
			userType: models.UserTypeParent,
			username: "",
			email:    "anna@x.com",
			password: "secret",
			confirm:  "secret",
			wantErr:  true,
		},
		{
			name:     "password mismatch",
			userType: models.UserTypeParent,
			username: "Anna",
			email:    "anna@x.com",
			password: "secret",
			confirm:  "different",
			wantErr:  true,
		},
		{
			name:     "parent requires well-formed email",
			userType: models.UserTypeParent,
			username: "Anna",
			email:    "not-an-email",
			password: "secret",
			confirm:  "secret",
			wantErr:  true,
		},
		{
			name:     "nanny flow skips email format check",
			userType: models.UserTypeNanny,
			username: "Marta",
			email:    "marta-at-home",
			password: "secret",
			confirm:  "secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := authService.Register(tt.userType, tt.username, tt.email, tt.password, tt.confirm)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Register() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if account.PasswordHash == tt.password {
				t.Error("Register() stored the plaintext password")
			}
		})
	}
}

func TestLoginPartitionsAndDuplicates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	authService := newAuthService(t, time.Hour)

	// Two accounts under the same parent email with different passwords,
	// plus a nanny account under the same address.
	if _, err := authService.Register(models.UserTypeParent, "Anna", "shared@x.com", "first-pass", "first-pass"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := authService.Register(models.UserTypeParent, "Anna2", "shared@x.com", "second-pass", "second-pass"); err != nil {
		t.Fatalf("Register() duplicate email error = %v", err)
	}
	if _, err := authService.Register(models.UserTypeNanny, "Marta", "shared@x.com", "nanny-pass", "nanny-pass"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Each password resolves to its own account
	_, account, err := authService.Login(models.UserTypeParent, "shared@x.com", "second-pass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if account.Username != "Anna2" {
		t.Errorf("Login() matched %q, want Anna2", account.Username)
	}

	// Partitions are disjoint: nanny password fails in the parent partition
	if _, _, err := authService.Login(models.UserTypeParent, "shared@x.com", "nanny-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("cross-partition login error = %v, want ErrInvalidCredentials", err)
	}

	// Wrong password fails
	if _, _, err := authService.Login(models.UserTypeParent, "shared@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password login error = %v, want ErrInvalidCredentials", err)
	}

	// Unknown email fails
	if _, _, err := authService.Login(models.UserTypeParent, "nobody@x.com", "first-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email login error = %v, want ErrInvalidCredentials", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	authService := newAuthService(t, time.Hour)

	if _, err := authService.Register(models.UserTypeParent, "Anna", "anna@x.com", "secret", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	session, account, err := authService.Login(models.UserTypeParent, "anna@x.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	gotSession, gotAccount, err := authService.ValidateSession(session.ID)
	if err != nil {
		t.Fatalf("ValidateSession() error = %v", err)
	}
	if gotSession.ID != session.ID || gotAccount.ID != account.ID {
		t.Error("ValidateSession() returned a different session or account")
	}

	if err := authService.Logout(session.ID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if _, _, err := authService.ValidateSession(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ValidateSession() after logout error = %v, want ErrSessionNotFound", err)
	}
}

func TestExpiredSessionIsRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Sessions expire immediately
	authService := newAuthService(t, -time.Minute)

	if _, err := authService.Register(models.UserTypeParent, "Anna", "anna@x.com", "secret", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	session, _, err := authService.Login(models.UserTypeParent, "anna@x.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, _, err := authService.ValidateSession(session.ID); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("ValidateSession() error = %v, want ErrSessionExpired", err)
	}
}

func TestRegisterReturnsValidationErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	authService := newAuthService(t, time.Hour)

	_, err := authService.Register(models.UserTypeParent, "Anna", "", "secret", "secret")
	var validationErr validation.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Register() error = %v, want validation.ValidationError", err)
	}
	if validationErr.Field != "email" {
		t.Errorf("validation error field = %q, want email", validationErr.Field)
	}
}
