package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Heidric/shop-admin/internal/config"
	"github.com/Heidric/shop-admin/internal/lib/jwt"
	"github.com/Heidric/shop-admin/internal/logger"
	"github.com/Heidric/shop-admin/internal/server"
	"github.com/Heidric/shop-admin/internal/services/auth"
	"github.com/Heidric/shop-admin/internal/services/product"
	"github.com/Heidric/shop-admin/internal/services/user"
	"github.com/Heidric/shop-admin/internal/storage/memory"
	"github.com/Heidric/shop-admin/internal/storage/seed"
	"github.com/Heidric/shop-admin/internal/storage/sqlstore"
	"github.com/Heidric/shop-admin/internal/validation"
	"github.com/Heidric/shop-admin/internal/ws"
	"github.com/Heidric/shop-admin/pkg/pgx"
	"github.com/Heidric/shop-admin/pkg/sqlite"
	"github.com/huandu/go-sqlbuilder"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type store interface {
	auth.AuthStorage
	product.Storage
	user.Storage
}

type shutdownFunc func(ctx context.Context) error

func openStorage(ctx context.Context, cfg *config.Config, runner *errgroup.Group) (store, shutdownFunc, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := pgx.NewPostgres(ctx, cfg.DB)
		if err != nil {
			return nil, nil, errors.Wrap(err, "init db")
		}
		if err := db.Start(ctx, runner); err != nil {
			return nil, nil, errors.Wrap(err, "start db")
		}
		s := sqlstore.New(db.GetConn(), sqlbuilder.PostgreSQL)
		if err := s.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		return s, db.Shutdown, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Sqlite)
		if err != nil {
			return nil, nil, err
		}
		s := sqlstore.New(db.GetConn(), sqlbuilder.SQLite)
		if err := s.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		return s, db.Shutdown, nil
	}

	s := memory.New(memory.WithLatency(cfg.Storage.MockLatency))
	if err := seed.Apply(ctx, s); err != nil {
		return nil, nil, errors.Wrap(err, "seed")
	}
	return s, func(context.Context) error { return nil }, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runner, ctx := errgroup.WithContext(ctx)

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal(err, "Load config")
	}

	loggerSvc, err := logger.Initialize(cfg.Logger)
	if err != nil {
		log.Fatal(err, "Init logger")
	}
	ctx = loggerSvc.Zerolog().WithContext(ctx)
	zl := loggerSvc.Zerolog()

	jwtCfg, err := jwt.NewConfig()
	if err != nil {
		zl.Fatal().Err(err).Msg("Load jwt config")
	}
	jwt.Initialize(jwtCfg)

	rules, err := validation.LoadRuleset(cfg.ValidationRules)
	if err != nil {
		zl.Fatal().Err(err).Msg("Load validation rules")
	}
	engine := validation.NewEngine(rules)
	zl.Info().Str("ruleset", rules.Name).Msg("validation rules loaded")

	if err := checkAdmin(engine, cfg.Admin); err != nil {
		zl.Fatal().Err(err).Msg("Check admin account")
	}

	st, closeStorage, err := openStorage(ctx, cfg, runner)
	if err != nil {
		zl.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Open storage")
	}

	hub := ws.NewHub()
	authSvc := auth.New(st)
	productSvc := product.New(st, engine, hub)
	userSvc := user.New(st)

	generated, err := authSvc.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		zl.Fatal().Err(err).Msg("Ensure admin")
	}
	if generated != "" {
		zl.Warn().Str("email", cfg.Admin.Email).Str("password", generated).Msg("admin created with a generated password")
	}

	httpSrv := server.NewServer(cfg.ServerAddress, engine, hub, authSvc, productSvc, userSvc)
	httpSrv.Run(ctx, runner)

	runner.Go(func() error {
		<-ctx.Done()

		if err := httpSrv.Shutdown(context.Background()); err != nil {
			zl.Error().Err(err).Msg("Shutdown http")
		}
		if err := closeStorage(ctx); err != nil {
			zl.Error().Err(err).Msg("Shutdown storage")
			return err
		}
		return nil
	})

	if err := runner.Wait(); err != nil {
		zl.Error().Err(err).Msg("stopped with error")
		os.Exit(1)
	}
}
