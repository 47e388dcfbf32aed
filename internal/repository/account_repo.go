package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Rupmejs/CareRemote-sub000/internal/database"
	"github.com/Rupmejs/CareRemote-sub000/internal/models"
)

// AccountRepository handles database operations for accounts and sessions
type AccountRepository struct {
	db database.DBTX
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db database.DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, user_type, username, email, password_hash,
	COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at, updated_at`

func scanAccount(row interface{ Scan(...interface{}) error }) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID,
		&account.UserType,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.OAuthProvider,
		&account.OAuthSubject,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// CreateAccount inserts a new account into its user-type partition.
// Deliberately no uniqueness check on email: the store allows multiple
// registrations per address within a partition.
func (r *AccountRepository) CreateAccount(userType models.UserType, username, email, passwordHash string) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_type, username, email, password_hash)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, string(userType), username, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &models.Account{
		ID:           id,
		UserType:     userType,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// GetAccountsByEmail retrieves every account in a partition registered under
// an email address, oldest first. Callers decide which candidate matches.
func (r *AccountRepository) GetAccountsByEmail(userType models.UserType, email string) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_type = ? AND email = ?
		ORDER BY id
	`
	rows, err := r.db.Query(query, string(userType), email)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}

	return accounts, rows.Err()
}

// GetAccountByID retrieves an account by ID
func (r *AccountRepository) GetAccountByID(id int64) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = ?
	`
	account, err := scanAccount(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetAccountByOAuth retrieves an account by OAuth provider and subject
func (r *AccountRepository) GetAccountByOAuth(provider, subject string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE oauth_provider = ? AND oauth_subject = ?
	`
	account, err := scanAccount(r.db.QueryRow(query, provider, subject))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by oauth: %w", err)
	}
	return account, nil
}

// LinkOAuthProvider links an existing account to an OAuth provider
func (r *AccountRepository) LinkOAuthProvider(accountID int64, provider, subject string) error {
	query := `
		UPDATE accounts
		SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		AND (oauth_provider IS NULL OR oauth_provider = '')
	`
	result, err := r.db.Exec(query, provider, subject, accountID)
	if err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read link result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("oauth provider already linked")
	}

	return nil
}

// GetAllAccounts retrieves every account in the store. Used by backup export.
func (r *AccountRepository) GetAllAccounts() ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}

	return accounts, rows.Err()
}

// CreateSession creates a new session for an account
func (r *AccountRepository) CreateSession(sessionID string, account *models.Account, expiresAt time.Time) (*models.Session, error) {
	query := `
		INSERT INTO sessions (id, account_id, user_type, email, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, sessionID, account.ID, string(account.UserType), account.Email, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		ID:        sessionID,
		AccountID: account.ID,
		UserType:  account.UserType,
		Email:     account.Email,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetSession retrieves a session by ID
func (r *AccountRepository) GetSession(sessionID string) (*models.Session, error) {
	query := `
		SELECT id, account_id, user_type, email, expires_at, created_at
		FROM sessions
		WHERE id = ?
	`
	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.AccountID,
		&session.UserType,
		&session.Email,
		&session.ExpiresAt,
		&session.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// DeleteSession removes a session
func (r *AccountRepository) DeleteSession(sessionID string) error {
	query := "DELETE FROM sessions WHERE id = ?"
	if _, err := r.db.Exec(query, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions
func (r *AccountRepository) DeleteExpiredSessions() error {
	query := "DELETE FROM sessions WHERE expires_at < ?"
	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
