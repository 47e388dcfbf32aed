package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Rupmejs/CareRemote-sub000/internal/database"
	"github.com/Rupmejs/CareRemote-sub000/internal/models"
)

// ProfileRepository handles database operations for profiles.
// Profiles use a single composite key (user_type, email); there is no
// secondary key scheme and no scan-based fallback lookup.
type ProfileRepository struct {
	db database.DBTX
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db database.DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Save inserts or updates the profile stored under (userType, email)
func (r *ProfileRepository) Save(profile *models.Profile) error {
	refs, err := json.Marshal(profile.ImageRefs)
	if err != nil {
		return fmt.Errorf("failed to encode image refs: %w", err)
	}

	query := r.db.GetDialect().UpsertProfileQuery()
	if _, err := r.db.Exec(query,
		string(profile.UserType),
		profile.Email,
		profile.Name,
		profile.Age,
		profile.Description,
		string(refs),
	); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

// Get retrieves the profile stored under (userType, email), or nil if absent
func (r *ProfileRepository) Get(userType models.UserType, email string) (*models.Profile, error) {
	query := `
		SELECT id, user_type, email, name, age, description, image_refs, created_at, updated_at
		FROM profiles
		WHERE user_type = ? AND email = ?
	`
	return r.scanProfile(r.db.QueryRow(query, string(userType), email))
}

// GetByEmail retrieves the first profile registered under an email address,
// regardless of user type. Indexed direct lookup; replaces the old
// key-suffix scan.
func (r *ProfileRepository) GetByEmail(email string) (*models.Profile, error) {
	query := `
		SELECT id, user_type, email, name, age, description, image_refs, created_at, updated_at
		FROM profiles
		WHERE email = ?
		ORDER BY id
		LIMIT 1
	`
	return r.scanProfile(r.db.QueryRow(query, email))
}

// GetAllByType retrieves every profile in a user-type partition, oldest first
func (r *ProfileRepository) GetAllByType(userType models.UserType) ([]models.Profile, error) {
	query := `
		SELECT id, user_type, email, name, age, description, image_refs, created_at, updated_at
		FROM profiles
		WHERE user_type = ?
		ORDER BY id
	`
	rows, err := r.db.Query(query, string(userType))
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		profile, err := r.scanProfileRow(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}

	return profiles, rows.Err()
}

// GetAllProfiles retrieves every profile in the store. Used by backup export.
func (r *ProfileRepository) GetAllProfiles() ([]models.Profile, error) {
	query := `
		SELECT id, user_type, email, name, age, description, image_refs, created_at, updated_at
		FROM profiles
		ORDER BY id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		profile, err := r.scanProfileRow(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}

	return profiles, rows.Err()
}

func (r *ProfileRepository) scanProfile(row *sql.Row) (*models.Profile, error) {
	profile, err := r.scanProfileRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepository) scanProfileRow(row interface{ Scan(...interface{}) error }) (*models.Profile, error) {
	profile := &models.Profile{}
	var refs sql.NullString
	err := row.Scan(
		&profile.ID,
		&profile.UserType,
		&profile.Email,
		&profile.Name,
		&profile.Age,
		&profile.Description,
		&refs,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// A corrupt image_refs payload degrades to no photos rather than an error
	if refs.Valid && refs.String != "" {
		if err := json.Unmarshal([]byte(refs.String), &profile.ImageRefs); err != nil {
			profile.ImageRefs = nil
		}
	}

	return profile, nil
}
