package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Rupmejs/CareRemote-sub000/internal/database"
	"github.com/Rupmejs/CareRemote-sub000/internal/models"
)

// MatchRepository handles database operations for swipes and matches
type MatchRepository struct {
	db database.DBTX
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db database.DBTX) *MatchRepository {
	return &MatchRepository{db: db}
}

// RecordSwipe stores one account's decision on another's profile.
// Re-swiping the same target replaces the earlier decision.
func (r *MatchRepository) RecordSwipe(fromEmail, toEmail string, liked bool) error {
	query := r.db.GetDialect().UpsertSwipeQuery()
	if _, err := r.db.Exec(query, fromEmail, toEmail, liked); err != nil {
		return fmt.Errorf("failed to record swipe: %w", err)
	}
	return nil
}

// HasLiked reports whether fromEmail has liked toEmail
func (r *MatchRepository) HasLiked(fromEmail, toEmail string) (bool, error) {
	query := "SELECT liked FROM swipes WHERE from_email = ? AND to_email = ?"
	var liked bool
	err := r.db.QueryRow(query, fromEmail, toEmail).Scan(&liked)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check swipe: %w", err)
	}
	return liked, nil
}

// GetSwipedEmails returns every email fromEmail has already swiped on
func (r *MatchRepository) GetSwipedEmails(fromEmail string) (map[string]bool, error) {
	query := "SELECT to_email FROM swipes WHERE from_email = ?"
	rows, err := r.db.Query(query, fromEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to query swipes: %w", err)
	}
	defer rows.Close()

	swiped := make(map[string]bool)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan swipe: %w", err)
		}
		swiped[email] = true
	}

	return swiped, rows.Err()
}

// CreateMatch records a mutual like keyed by its chat room ID
func (r *MatchRepository) CreateMatch(roomID, parentEmail, nannyEmail string) (*models.Match, error) {
	query := `
		INSERT INTO matches (room_id, parent_email, nanny_email)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, roomID, parentEmail, nannyEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	return &models.Match{
		ID:          id,
		RoomID:      roomID,
		ParentEmail: parentEmail,
		NannyEmail:  nannyEmail,
		CreatedAt:   time.Now(),
	}, nil
}

// GetMatchByRoom retrieves a match by chat room ID, or nil if absent
func (r *MatchRepository) GetMatchByRoom(roomID string) (*models.Match, error) {
	query := `
		SELECT id, room_id, parent_email, nanny_email, created_at
		FROM matches
		WHERE room_id = ?
	`
	match := &models.Match{}
	err := r.db.QueryRow(query, roomID).Scan(
		&match.ID, &match.RoomID, &match.ParentEmail, &match.NannyEmail, &match.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

// GetMatchesForEmail retrieves every match an account participates in, newest first
func (r *MatchRepository) GetMatchesForEmail(email string) ([]models.Match, error) {
	query := `
		SELECT id, room_id, parent_email, nanny_email, created_at
		FROM matches
		WHERE parent_email = ? OR nanny_email = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, email, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.RoomID, &m.ParentEmail, &m.NannyEmail, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// GetAllSwipes retrieves every swipe in the store. Used by backup export.
func (r *MatchRepository) GetAllSwipes() ([]models.Swipe, error) {
	query := `
		SELECT id, from_email, to_email, liked, created_at
		FROM swipes
		ORDER BY id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query swipes: %w", err)
	}
	defer rows.Close()

	var swipes []models.Swipe
	for rows.Next() {
		var s models.Swipe
		if err := rows.Scan(&s.ID, &s.FromEmail, &s.ToEmail, &s.Liked, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan swipe: %w", err)
		}
		swipes = append(swipes, s)
	}

	return swipes, rows.Err()
}

// GetAllMatches retrieves every match in the store. Used by backup export.
func (r *MatchRepository) GetAllMatches() ([]models.Match, error) {
	query := `
		SELECT id, room_id, parent_email, nanny_email, created_at
		FROM matches
		ORDER BY id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.RoomID, &m.ParentEmail, &m.NannyEmail, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}
