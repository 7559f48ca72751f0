package commands

import (
	"context"
	"fmt"

	"github.com/stockroomhq/stockroom/internal/logger"
	postgresstore "github.com/stockroomhq/stockroom/internal/store/postgres"
)

type MigrateCmd struct {
	Postgres PostgresFlags `embed:"" prefix:"postgres-"`
}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	// The pool applies migrations itself when AutoMigrate is set; force it
	// off here so the command controls when they run.
	cfg := c.Postgres.poolConfig()
	cfg.AutoMigrate = false

	pool, err := postgresstore.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	if err := postgresstore.RunMigrations(ctx, pool); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("Database migrations completed")

	return nil
}
