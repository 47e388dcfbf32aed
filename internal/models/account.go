package models

import "time"

// UserType partitions accounts into the two sides of the marketplace.
type UserType string

const (
	UserTypeParent UserType = "parent"
	UserTypeNanny  UserType = "nanny"
)

// Valid reports whether the user type is one of the known partitions.
func (t UserType) Valid() bool {
	return t == UserTypeParent || t == UserTypeNanny
}

// Opposite returns the other side of the marketplace.
func (t UserType) Opposite() UserType {
	if t == UserTypeParent {
		return UserTypeNanny
	}
	return UserTypeParent
}

// Account represents a registered parent or nanny.
// Emails are not unique within a partition: the original system allowed
// multiple registrations per address, and login matches on email and
// password together.
type Account struct {
	ID            int64
	UserType      UserType
	Username      string
	Email         string
	PasswordHash  string
	OAuthProvider string
	OAuthSubject  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session represents an authenticated device session
type Session struct {
	ID        string
	AccountID int64
	UserType  UserType
	Email     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
