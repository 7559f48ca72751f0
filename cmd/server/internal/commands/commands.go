package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stockroomhq/stockroom/internal/store"
	memorystore "github.com/stockroomhq/stockroom/internal/store/memory"
	postgresstore "github.com/stockroomhq/stockroom/internal/store/postgres"
)

type Globals struct {
	Debug   bool
	Version string
}

// PostgresFlags configures the shared PostgreSQL connection pool.
type PostgresFlags struct {
	ConnString      string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`
	MaxConns        int32  `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32  `help:"minimum number of connections in pool" default:"2"`
	MaxConnLifetime int32  `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32  `help:"maximum connection idle time in seconds" default:"1800"`
	AutoMigrate     bool   `help:"run database migrations on startup" default:"false" env:"STOCKROOM_POSTGRES_AUTO_MIGRATE"`
}

func (f *PostgresFlags) poolConfig() *postgresstore.PoolConfig {
	return &postgresstore.PoolConfig{
		ConnString:      f.ConnString,
		MaxConns:        f.MaxConns,
		MinConns:        f.MinConns,
		MaxConnLifetime: time.Duration(f.MaxConnLifetime) * time.Second,
		MaxConnIdleTime: time.Duration(f.MaxConnIdleTime) * time.Second,
		AutoMigrate:     f.AutoMigrate,
	}
}

// stores bundles the store implementations behind their interfaces so the
// serve and seed commands can wire services without caring which backend
// is in use.
type stores struct {
	organizations store.OrganizationStore
	users         store.UserStore
	products      store.ProductStore
	orders        store.OrderStore
	analytics     store.AnalyticsStore
	tx            store.TxManager

	close func()
}

func buildStores(ctx context.Context, storeType string, pg PostgresFlags) (*stores, error) {
	switch storeType {
	case "postgres":
		pool, err := postgresstore.NewPool(ctx, pg.poolConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}

		return &stores{
			organizations: postgresstore.NewOrganizationStore(pool),
			users:         postgresstore.NewUserStore(pool),
			products:      postgresstore.NewProductStore(pool),
			orders:        postgresstore.NewOrderStore(pool),
			analytics:     postgresstore.NewAnalyticsStore(pool),
			tx:            postgresstore.NewTxManager(pool),
			close:         pool.Close,
		}, nil

	default:
		products := memorystore.NewProductStore()
		orders := memorystore.NewOrderStore()

		return &stores{
			organizations: memorystore.NewOrganizationStore(),
			users:         memorystore.NewUserStore(),
			products:      products,
			orders:        orders,
			analytics:     memorystore.NewAnalyticsStore(products, orders),
			tx:            memorystore.NewTxManager(),
			close:         func() {},
		}, nil
	}
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}
