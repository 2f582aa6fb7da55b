package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const ProviderName = "sqlite"

type Config struct {
	Path string `envconfig:"default=shop.db"`
}

func (c *Config) SetDefault() *Config {
	if c.Path == "" {
		c.Path = "shop.db"
	}
	return c
}

type SQLite struct {
	conn   *sqlx.DB
	config *Config
}

// Open connects to the database file. ":memory:" databases are private to
// one connection, so the pool is pinned to a single connection.
func Open(ctx context.Context, config *Config) (*SQLite, error) {
	if config == nil {
		return nil, errors.New("invalid passed options pointer")
	}
	config.SetDefault()

	logger := zerolog.Ctx(ctx).With().Str("name", "sqlite").Logger()
	logger.Info().Str("path", config.Path).Msg("opening database")

	conn, err := sqlx.ConnectContext(ctx, ProviderName, config.Path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "enable foreign keys")
	}

	return &SQLite{conn: conn, config: config}, nil
}

func (s *SQLite) GetConn() *sqlx.DB {
	return s.conn
}

func (s *SQLite) Shutdown(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return errors.Wrap(err, "close sqlite")
	}
	s.conn = nil
	return nil
}
