package pgx

import (
	"context"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const ProviderName = "pgx"

type Postgres struct {
	conn           *sqlx.DB
	config         *Config
	watcherRunning atomic.Bool
	watcherDone    chan struct{}
}

func NewPostgres(ctx context.Context, config *Config) (*Postgres, error) {
	if config == nil {
		return nil, errors.New("invalid passed options pointer")
	}
	if config.DSN == "" {
		return nil, errors.New("empty dsn")
	}

	return &Postgres{config: config.SetDefault()}, nil
}

func (p *Postgres) GetConn() *sqlx.DB {
	return p.conn
}

func (p *Postgres) GetConfig() *Config {
	return p.config
}

// Start connects and, when configured, launches the connection watcher on
// the given group.
func (p *Postgres) Start(ctx context.Context, errorGroup *errgroup.Group) error {
	logger := p.GetLogger(ctx)

	if p.conn != nil {
		return nil
	}
	logger.Info().Msg("establishing connection...")
	var err error
	p.conn, err = sqlx.ConnectContext(ctx, ProviderName, p.config.DSN)
	if err != nil {
		return errors.Wrap(err, "connect to postgres")
	}
	logger.Info().Msg("connection established")

	p.conn.SetConnMaxLifetime(p.config.MaxConnectionLifetime)
	p.conn.SetMaxIdleConns(p.config.MaxIdleConnections)
	p.conn.SetMaxOpenConns(p.config.MaxOpenedConnections)

	if p.config.StartWatcher && p.watcherRunning.CompareAndSwap(false, true) {
		p.watcherDone = make(chan struct{})
		errorGroup.Go(func() error {
			defer close(p.watcherDone)
			return p.watch(ctx)
		})
	}

	return nil
}

func (p *Postgres) GetLogger(ctx context.Context) *zerolog.Logger {
	logger := zerolog.Ctx(ctx).With().Str("name", "pgx").Logger()
	return &logger
}

func (p *Postgres) watch(ctx context.Context) error {
	p.GetLogger(ctx).Info().Msg("starting connection watcher")

	ticker := time.NewTicker(p.config.Timeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.GetLogger(ctx).Info().Msg("connection watcher stopped")
			p.watcherRunning.Store(false)
			return nil
		case <-ticker.C:
			if err := p.Ping(ctx); err != nil {
				p.GetLogger(ctx).Error().Err(err).Msg("connection lost")
			}
		}
	}
}

// Shutdown waits for the watcher to exit and closes the pool.
func (p *Postgres) Shutdown(ctx context.Context) error {
	p.GetLogger(ctx).Info().Msg("shutting down")

	if p.watcherDone != nil {
		select {
		case <-p.watcherDone:
		case <-time.After(p.config.Timeout):
			p.GetLogger(ctx).Warn().Msg("watcher did not stop in time")
		}
	}

	if p.conn == nil {
		return nil
	}
	if err := p.conn.Close(); err != nil {
		return errors.Wrap(err, "close postgres connection")
	}
	p.conn = nil

	p.GetLogger(ctx).Info().Msg("shut down")
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	if p.conn == nil {
		return nil
	}

	if err := p.conn.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping connection")
	}

	return nil
}
