package sqlstore

import (
	"context"

	"github.com/huandu/go-sqlbuilder"
	"github.com/pkg/errors"
)

func (s *Store) timestampType() string {
	if s.flavor == sqlbuilder.PostgreSQL {
		return "TIMESTAMPTZ"
	}
	return "TIMESTAMP"
}

func (s *Store) realType() string {
	if s.flavor == sqlbuilder.PostgreSQL {
		return "DOUBLE PRECISION"
	}
	return "REAL"
}

// Migrate creates the schema when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	ts := s.timestampType()

	users := sqlbuilder.NewCreateTableBuilder()
	users.CreateTable(usersTable).IfNotExists().
		Define("id", "TEXT", "PRIMARY KEY").
		Define("username", "TEXT", "NOT NULL", "UNIQUE").
		Define("email", "TEXT", "NOT NULL", "UNIQUE").
		Define("role", "TEXT", "NOT NULL").
		Define("password_hash", "TEXT", "NOT NULL").
		Define("created_at", ts, "NOT NULL")

	sessions := sqlbuilder.NewCreateTableBuilder()
	sessions.CreateTable(sessionsTable).IfNotExists().
		Define("id", "TEXT", "PRIMARY KEY").
		Define("user_id", "TEXT", "NOT NULL", "REFERENCES "+usersTable+"(id)", "ON DELETE CASCADE").
		Define("access_token", "TEXT", "NOT NULL").
		Define("refresh_token", "TEXT", "NOT NULL", "UNIQUE").
		Define("expires_at", ts, "NOT NULL")

	products := sqlbuilder.NewCreateTableBuilder()
	products.CreateTable(productsTable).IfNotExists().
		Define("id", "TEXT", "PRIMARY KEY").
		Define("name", "TEXT", "NOT NULL").
		Define("description", "TEXT", "NOT NULL", "DEFAULT ''").
		Define("price", s.realType(), "NOT NULL").
		Define("quantity", "BIGINT", "NOT NULL").
		Define("category", "TEXT", "NOT NULL").
		Define("created_at", ts, "NOT NULL").
		Define("updated_at", ts, "NOT NULL")

	stmts := []string{
		users.String(),
		sessions.String(),
		products.String(),
		"CREATE INDEX IF NOT EXISTS products_category_idx ON " + productsTable + " (category)",
		"CREATE INDEX IF NOT EXISTS sessions_user_idx ON " + sessionsTable + " (user_id)",
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate")
		}
	}
	return nil
}
