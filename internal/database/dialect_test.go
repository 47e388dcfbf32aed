package database

import (
	"strings"
	"testing"
)

func TestDialectBasics(t *testing.T) {
	tests := []struct {
		name             string
		dialect          Dialect
		wantDriver       string
		wantSubdir       string
		wantLastInsertId bool
	}{
		{
			name:             "sqlite",
			dialect:          NewSQLiteDialect(),
			wantDriver:       "sqlite3",
			wantSubdir:       "sqlite",
			wantLastInsertId: true,
		},
		{
			name:             "postgres",
			dialect:          NewPostgresDialect(),
			wantDriver:       "postgres",
			wantSubdir:       "postgres",
			wantLastInsertId: false,
		},
		{
			name:             "mysql",
			dialect:          NewMySQLDialect(),
			wantDriver:       "mysql",
			wantSubdir:       "mysql",
			wantLastInsertId: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.wantDriver {
				t.Errorf("DriverName() = %q, want %q", got, tt.wantDriver)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.wantSubdir {
				t.Errorf("MigrationsSubdir() = %q, want %q", got, tt.wantSubdir)
			}
			if got := tt.dialect.SupportsLastInsertId(); got != tt.wantLastInsertId {
				t.Errorf("SupportsLastInsertId() = %v, want %v", got, tt.wantLastInsertId)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	query := "INSERT INTO messages (room_id, sender, body) VALUES (?, ?, ?)"

	t.Run("sqlite passes through", func(t *testing.T) {
		if got := NewSQLiteDialect().RewriteQuery(query); got != query {
			t.Errorf("RewriteQuery() = %q, want unchanged", got)
		}
	})

	t.Run("mysql passes through", func(t *testing.T) {
		if got := NewMySQLDialect().RewriteQuery(query); got != query {
			t.Errorf("RewriteQuery() = %q, want unchanged", got)
		}
	})

	t.Run("postgres numbers placeholders", func(t *testing.T) {
		got := NewPostgresDialect().RewriteQuery(query)
		want := "INSERT INTO messages (room_id, sender, body) VALUES ($1, $2, $3)"
		if got != want {
			t.Errorf("RewriteQuery() = %q, want %q", got, want)
		}
	})

	t.Run("postgres numbering restarts per query", func(t *testing.T) {
		dialect := NewPostgresDialect()
		first := dialect.RewriteQuery("SELECT id FROM accounts WHERE email = ?")
		second := dialect.RewriteQuery("SELECT id FROM accounts WHERE email = ?")
		if first != second {
			t.Errorf("consecutive rewrites differ: %q vs %q", first, second)
		}
		if !strings.Contains(first, "$1") {
			t.Errorf("RewriteQuery() = %q, want $1 placeholder", first)
		}
	})

	t.Run("postgres leaves placeholder-free queries alone", func(t *testing.T) {
		plain := "SELECT COUNT(*) FROM widgets"
		if got := NewPostgresDialect().RewriteQuery(plain); got != plain {
			t.Errorf("RewriteQuery() = %q, want unchanged", got)
		}
	})
}

func TestUpsertQueriesTargetExpectedTables(t *testing.T) {
	for _, dialect := range []Dialect{NewSQLiteDialect(), NewPostgresDialect(), NewMySQLDialect()} {
		if !strings.Contains(dialect.UpsertProfileQuery(), "profiles") {
			t.Errorf("%s UpsertProfileQuery() does not target profiles", dialect.DriverName())
		}
		if !strings.Contains(dialect.UpsertPreviewQuery(), "room_previews") {
			t.Errorf("%s UpsertPreviewQuery() does not target room_previews", dialect.DriverName())
		}
		if !strings.Contains(dialect.UpsertSwipeQuery(), "swipes") {
			t.Errorf("%s UpsertSwipeQuery() does not target swipes", dialect.DriverName())
		}
	}
}
