package models

import "time"

// Profile is the public-facing description of a user shown to matches.
// Keyed by (UserType, Email); one profile per account.
type Profile struct {
	ID          int64
	UserType    UserType
	Email       string
	Name        string
	Age         int
	Description string
	ImageRefs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsComplete reports whether the profile can be shown in the match browser:
// non-empty name, positive age, and at least one photo.
func (p *Profile) IsComplete() bool {
	return p.Name != "" && p.Age > 0 && len(p.ImageRefs) > 0
}
