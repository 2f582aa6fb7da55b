package main

import (
	"context"
	"fmt"

	"github.com/Heidric/shop-admin/internal/config"
	"github.com/Heidric/shop-admin/internal/storage/seed"
	"github.com/Heidric/shop-admin/internal/storage/sqlstore"
	"github.com/Heidric/shop-admin/pkg/pgx"
	"github.com/Heidric/shop-admin/pkg/sqlite"
	"github.com/huandu/go-sqlbuilder"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newSeedCmd() *cobra.Command {
	var driver, dsn string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and load the demo data set into a SQL database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := runSeed(ctx, driver, dsn); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s database\n", driver)
			return nil
		},
	}

	cmd.Flags().StringVar(&driver, "driver", config.DriverSQLite, "sqlite or postgres")
	cmd.Flags().StringVar(&dsn, "dsn", "shop.db", "sqlite file path or postgres DSN")
	return cmd
}

func runSeed(ctx context.Context, driver, dsn string) error {
	switch driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, &sqlite.Config{Path: dsn})
		if err != nil {
			return err
		}
		defer db.Shutdown(ctx)
		return migrateAndSeed(ctx, sqlstore.New(db.GetConn(), sqlbuilder.SQLite))

	case config.DriverPostgres:
		db, err := pgx.NewPostgres(ctx, &pgx.Config{DSN: dsn})
		if err != nil {
			return err
		}
		var runner errgroup.Group
		if err := db.Start(ctx, &runner); err != nil {
			return err
		}
		defer db.Shutdown(ctx)
		return migrateAndSeed(ctx, sqlstore.New(db.GetConn(), sqlbuilder.PostgreSQL))
	}
	return errors.Errorf("unsupported driver %q", driver)
}

func migrateAndSeed(ctx context.Context, s *sqlstore.Store) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}
	return errors.Wrap(seed.Apply(ctx, s), "seed")
}
