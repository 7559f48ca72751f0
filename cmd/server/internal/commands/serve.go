package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/stockroomhq/stockroom/internal/analytics"
	"github.com/stockroomhq/stockroom/internal/api"
	"github.com/stockroomhq/stockroom/internal/auth"
	"github.com/stockroomhq/stockroom/internal/catalog"
	"github.com/stockroomhq/stockroom/internal/logger"
	"github.com/stockroomhq/stockroom/internal/orders"
	"github.com/stockroomhq/stockroom/internal/telemetry"
)

type ServeCmd struct {
	Listen      string   `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"STOCKROOM_LISTEN"`
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"http://localhost:3000" env:"STOCKROOM_CORS_ORIGINS"`

	TokenSecret string        `help:"secret key for HMAC signing of access tokens" env:"STOCKROOM_TOKEN_SECRET" required:""`
	TokenTTL    time.Duration `help:"access token TTL" default:"24h" env:"STOCKROOM_TOKEN_TTL"`

	Tracing bool `help:"enable tracing" default:"false" env:"STOCKROOM_TRACING"`

	StoreType string        `help:"store type (memory or postgres)" default:"memory" env:"STOCKROOM_STORE_TYPE" enum:"memory,postgres"`
	Postgres  PostgresFlags `embed:"" prefix:"postgres-"`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	if c.Tracing {
		log.Info().Msg("Tracing is enabled")
		shutdown, err := telemetry.Init(ctx, "stockroom-server", globals.Version)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
	}

	st, err := buildStores(ctx, c.StoreType, c.Postgres)
	if err != nil {
		return err
	}
	defer st.close()
	log.Info().Str("store_type", c.StoreType).Msg("Stores initialized")

	tokens, err := auth.NewTokenIssuer([]byte(c.TokenSecret), c.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to configure token issuer: %w", err)
	}

	authSvc := auth.NewService(st.organizations, st.users, st.tx, tokens)
	catalogSvc := catalog.NewService(st.products)
	engine := orders.NewEngine(st.products, st.orders, st.tx)
	aggregator := analytics.NewAggregator(st.analytics)

	handler := api.NewHandler(authSvc, catalogSvc, engine, aggregator).Routes()
	handler = logger.RequestLogger(log)(handler)
	handler = cors.New(cors.Options{
		AllowedOrigins:   c.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(handler)

	srv := configureHTTPServer(c.Listen, handler)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", c.Listen).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
