package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// SupportsLastInsertId returns true if the driver supports LastInsertId()
	SupportsLastInsertId() bool

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the subdirectory name for migrations (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// UpsertProfileQuery returns the SQL to insert-or-update a profile row,
	// keyed by (user_type, email)
	UpsertProfileQuery() string

	// UpsertPreviewQuery returns the SQL to insert-or-update a chat room preview,
	// keyed by room_id
	UpsertPreviewQuery() string

	// UpsertSwipeQuery returns the SQL to insert-or-update a swipe decision,
	// keyed by (from_email, to_email)
	UpsertSwipeQuery() string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

// onConflictUpsertProfile is shared by SQLite and PostgreSQL, which both
// support the ON CONFLICT clause.
const onConflictUpsertProfile = `
	INSERT INTO profiles (user_type, email, name, age, description, image_refs)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_type, email) DO UPDATE SET
		name = excluded.name,
		age = excluded.age,
		description = excluded.description,
		image_refs = excluded.image_refs,
		updated_at = CURRENT_TIMESTAMP
`

const onConflictUpsertPreview = `
	INSERT INTO room_previews (room_id, body)
	VALUES (?, ?)
	ON CONFLICT (room_id) DO UPDATE SET
		body = excluded.body,
		updated_at = CURRENT_TIMESTAMP
`

const onConflictUpsertSwipe = `
	INSERT INTO swipes (from_email, to_email, liked)
	VALUES (?, ?, ?)
	ON CONFLICT (from_email, to_email) DO UPDATE SET
		liked = excluded.liked
`
