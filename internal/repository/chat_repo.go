package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Rupmejs/CareRemote-sub000/internal/database"
	"github.com/Rupmejs/CareRemote-sub000/internal/models"
)

// ChatRepository handles database operations for chat messages and previews.
// Messages are stored as structured rows, never as delimited strings.
type ChatRepository struct {
	db database.DBTX
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db database.DBTX) *ChatRepository {
	return &ChatRepository{db: db}
}

// AppendMessage stores a message and updates the room preview in one transaction-free
// sequence; the preview is derived state and may lag a concurrent append harmlessly.
func (r *ChatRepository) AppendMessage(roomID, sender, body string) (*models.Message, error) {
	query := `
		INSERT INTO messages (room_id, sender, body)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, roomID, sender, body)
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	if err := r.SetPreview(roomID, body); err != nil {
		return nil, err
	}

	return &models.Message{
		ID:        id,
		RoomID:    roomID,
		Sender:    sender,
		Body:      body,
		CreatedAt: time.Now(),
	}, nil
}

// GetMessages retrieves the full ordered message log for a room
func (r *ChatRepository) GetMessages(roomID string) ([]models.Message, error) {
	query := `
		SELECT id, room_id, sender, body, created_at
		FROM messages
		WHERE room_id = ?
		ORDER BY id
	`
	rows, err := r.db.Query(query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// SetPreview inserts or updates the room's last-message preview
func (r *ChatRepository) SetPreview(roomID, body string) error {
	query := r.db.GetDialect().UpsertPreviewQuery()
	if _, err := r.db.Exec(query, roomID, body); err != nil {
		return fmt.Errorf("failed to set preview: %w", err)
	}
	return nil
}

// GetPreview retrieves the room's preview text, or "" if none exists
func (r *ChatRepository) GetPreview(roomID string) (string, error) {
	query := "SELECT body FROM room_previews WHERE room_id = ?"
	var body string
	err := r.db.QueryRow(query, roomID).Scan(&body)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preview: %w", err)
	}
	return body, nil
}

// GetAllMessages retrieves every message in the store, ordered by room then
// insertion. Used by backup export.
func (r *ChatRepository) GetAllMessages() ([]models.Message, error) {
	query := `
		SELECT id, room_id, sender, body, created_at
		FROM messages
		ORDER BY room_id, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// GetAllPreviews retrieves every room preview in the store. Used by backup export.
func (r *ChatRepository) GetAllPreviews() ([]models.RoomPreview, error) {
	query := "SELECT room_id, body, updated_at FROM room_previews ORDER BY room_id"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query previews: %w", err)
	}
	defer rows.Close()

	var previews []models.RoomPreview
	for rows.Next() {
		var p models.RoomPreview
		if err := rows.Scan(&p.RoomID, &p.Body, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preview: %w", err)
		}
		previews = append(previews, p)
	}

	return previews, rows.Err()
}
