package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rupmejs/CareRemote-sub000/internal/database"
	"github.com/Rupmejs/CareRemote-sub000/internal/models"
)

// WidgetRepository handles database operations for dashboard widgets,
// both the per-account typed widgets and the pre-login legacy list.
type WidgetRepository struct {
	db database.DBTX
}

// NewWidgetRepository creates a new widget repository
func NewWidgetRepository(db database.DBTX) *WidgetRepository {
	return &WidgetRepository{db: db}
}

// CreateWidget inserts a widget at the end of the owner's dashboard
func (r *WidgetRepository) CreateWidget(w *models.Widget) error {
	data, err := json.Marshal(w.Data)
	if err != nil {
		return fmt.Errorf("failed to encode widget data: %w", err)
	}

	query := `
		INSERT INTO widgets (id, owner_email, type, size, position, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, w.ID, w.OwnerEmail, string(w.Type), string(w.Size), w.Position, string(data)); err != nil {
		return fmt.Errorf("failed to create widget: %w", err)
	}

	return nil
}

// GetWidgets retrieves an account's widgets ordered by position
func (r *WidgetRepository) GetWidgets(ownerEmail string) ([]models.Widget, error) {
	query := `
		SELECT id, owner_email, type, size, position, data, created_at, updated_at
		FROM widgets
		WHERE owner_email = ?
		ORDER BY position, id
	`
	rows, err := r.db.Query(query, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to query widgets: %w", err)
	}
	defer rows.Close()

	return scanWidgets(rows)
}

// GetWidget retrieves a single widget by ID scoped to its owner, or nil if absent
func (r *WidgetRepository) GetWidget(ownerEmail, id string) (*models.Widget, error) {
	query := `
		SELECT id, owner_email, type, size, position, data, created_at, updated_at
		FROM widgets
		WHERE owner_email = ? AND id = ?
	`
	w, err := scanWidget(r.db.QueryRow(query, ownerEmail, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get widget: %w", err)
	}
	return w, nil
}

// UpdateWidgetData replaces a widget's payload in place
func (r *WidgetRepository) UpdateWidgetData(ownerEmail, id string, data models.WidgetData) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode widget data: %w", err)
	}

	query := `
		UPDATE widgets
		SET data = ?, updated_at = CURRENT_TIMESTAMP
		WHERE owner_email = ? AND id = ?
	`
	if _, err := r.db.Exec(query, string(encoded), ownerEmail, id); err != nil {
		return fmt.Errorf("failed to update widget: %w", err)
	}
	return nil
}

// DeleteWidget removes a widget from the owner's dashboard
func (r *WidgetRepository) DeleteWidget(ownerEmail, id string) error {
	query := "DELETE FROM widgets WHERE owner_email = ? AND id = ?"
	if _, err := r.db.Exec(query, ownerEmail, id); err != nil {
		return fmt.Errorf("failed to delete widget: %w", err)
	}
	return nil
}

// NextPosition returns the position after the owner's current last widget
func (r *WidgetRepository) NextPosition(ownerEmail string) (int, error) {
	query := "SELECT COALESCE(MAX(position), -1) + 1 FROM widgets WHERE owner_email = ?"
	var position int
	if err := r.db.QueryRow(query, ownerEmail).Scan(&position); err != nil {
		return 0, fmt.Errorf("failed to get next position: %w", err)
	}
	return position, nil
}

// GetAllWidgets retrieves every widget in the store. Used by backup export.
func (r *WidgetRepository) GetAllWidgets() ([]models.Widget, error) {
	query := `
		SELECT id, owner_email, type, size, position, data, created_at, updated_at
		FROM widgets
		ORDER BY owner_email, position, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query widgets: %w", err)
	}
	defer rows.Close()

	return scanWidgets(rows)
}

// CreateLegacyWidget appends an untyped pre-login widget
func (r *WidgetRepository) CreateLegacyWidget(label string, position int) (*models.LegacyWidget, error) {
	query := "INSERT INTO legacy_widgets (label, position) VALUES (?, ?)"
	id, err := r.db.ExecReturningID(query, label, position)
	if err != nil {
		return nil, fmt.Errorf("failed to create legacy widget: %w", err)
	}

	return &models.LegacyWidget{
		ID:        id,
		Label:     label,
		Position:  position,
		CreatedAt: time.Now(),
	}, nil
}

// GetLegacyWidgets retrieves the device-wide legacy widget list in order
func (r *WidgetRepository) GetLegacyWidgets() ([]models.LegacyWidget, error) {
	query := `
		SELECT id, label, position, created_at
		FROM legacy_widgets
		ORDER BY position, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy widgets: %w", err)
	}
	defer rows.Close()

	var widgets []models.LegacyWidget
	for rows.Next() {
		var w models.LegacyWidget
		if err := rows.Scan(&w.ID, &w.Label, &w.Position, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan legacy widget: %w", err)
		}
		widgets = append(widgets, w)
	}

	return widgets, rows.Err()
}

// DeleteLegacyWidget removes a legacy widget by ID
func (r *WidgetRepository) DeleteLegacyWidget(id int64) error {
	query := "DELETE FROM legacy_widgets WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete legacy widget: %w", err)
	}
	return nil
}

// NextLegacyPosition returns the position after the current last legacy widget
func (r *WidgetRepository) NextLegacyPosition() (int, error) {
	query := "SELECT COALESCE(MAX(position), -1) + 1 FROM legacy_widgets"
	var position int
	if err := r.db.QueryRow(query).Scan(&position); err != nil {
		return 0, fmt.Errorf("failed to get next legacy position: %w", err)
	}
	return position, nil
}

func scanWidgets(rows *sql.Rows) ([]models.Widget, error) {
	var widgets []models.Widget
	for rows.Next() {
		w, err := scanWidget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan widget: %w", err)
		}
		widgets = append(widgets, *w)
	}
	return widgets, rows.Err()
}

func scanWidget(row interface{ Scan(...interface{}) error }) (*models.Widget, error) {
	w := &models.Widget{}
	var data sql.NullString
	err := row.Scan(&w.ID, &w.OwnerEmail, &w.Type, &w.Size, &w.Position, &data, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}

	// A corrupt payload degrades to an empty widget rather than an error
	if data.Valid && data.String != "" {
		if err := json.Unmarshal([]byte(data.String), &w.Data); err != nil {
			w.Data = models.WidgetData{}
		}
	}

	return w, nil
}
