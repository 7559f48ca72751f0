package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/stockroomhq/stockroom/internal/auth"
	"github.com/stockroomhq/stockroom/internal/catalog"
	"github.com/stockroomhq/stockroom/internal/logger"
	"github.com/stockroomhq/stockroom/internal/orders"
	"github.com/stockroomhq/stockroom/internal/seed"
)

type SeedCmd struct {
	File string `help:"path to the YAML fixture file" arg:"" type:"existingfile"`

	TokenSecret string `help:"secret key for HMAC signing of access tokens" env:"STOCKROOM_TOKEN_SECRET" required:""`

	StoreType string        `help:"store type (memory or postgres)" default:"postgres" env:"STOCKROOM_STORE_TYPE" enum:"memory,postgres"`
	Postgres  PostgresFlags `embed:"" prefix:"postgres-"`
}

func (c *SeedCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	fixture, err := seed.Load(c.File)
	if err != nil {
		return err
	}

	st, err := buildStores(ctx, c.StoreType, c.Postgres)
	if err != nil {
		return err
	}
	defer st.close()

	tokens, err := auth.NewTokenIssuer([]byte(c.TokenSecret), time.Hour)
	if err != nil {
		return fmt.Errorf("failed to configure token issuer: %w", err)
	}

	authSvc := auth.NewService(st.organizations, st.users, st.tx, tokens)
	catalogSvc := catalog.NewService(st.products)
	engine := orders.NewEngine(st.products, st.orders, st.tx)

	if err := fixture.Apply(ctx, authSvc, catalogSvc, engine); err != nil {
		return err
	}

	log.Info().Str("file", c.File).Int("organizations", len(fixture.Organizations)).Msg("Seed complete")

	return nil
}
