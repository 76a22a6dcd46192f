package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-pricing/internal/config"
	"github.com/nikolayk812/cart-pricing/internal/logger"
	"github.com/nikolayk812/cart-pricing/internal/persistence"
	"github.com/nikolayk812/cart-pricing/internal/port"
	"github.com/nikolayk812/cart-pricing/internal/promo"
	"github.com/nikolayk812/cart-pricing/internal/repository"
	"github.com/nikolayk812/cart-pricing/internal/service"
	"github.com/nikolayk812/cart-pricing/internal/store/memstore"
	"github.com/nikolayk812/cart-pricing/internal/store/redisstore"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// App is the wired cart service graph built from configuration.
type App struct {
	Service *service.CartService
	Catalog port.ProductCatalog
	Store   port.BlobStore
	Locale  language.Tag
	Log     zerolog.Logger

	closers []func()
}

// New builds the graph. Payments may be nil when checkout is not used.
func New(ctx context.Context, cfg config.Config, payments port.PaymentProvider) (_ *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cur, err := cfg.App.CurrencyUnit()
	if err != nil {
		return nil, err
	}
	locale, err := cfg.App.LocaleTag()
	if err != nil {
		return nil, err
	}

	a := &App{
		Locale: locale,
		Log: logger.New(logger.Options{
			ServiceName: cfg.App.ServiceName,
			Level:       logger.ParseLevel(cfg.App.LogLevel),
			Format:      cfg.App.LogFormat,
		}),
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	var pool *pgxpool.Pool
	if cfg.Store.Kind == config.StorePostgres || cfg.Catalog.Kind == config.StorePostgres {
		pool, err = pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		if err = pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("pool.Ping: %w", err)
		}
	}

	switch cfg.Store.Kind {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, func() { _ = client.Close() })

		if err = client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("client.Ping: %w", err)
		}
		a.Store = redisstore.NewBlobStore(client, cfg.Redis.SnapshotTTL)
	case config.StorePostgres:
		a.Store = repository.NewSnapshotStore(pool)
	default:
		a.Store = memstore.NewBlobStore()
	}

	switch cfg.Catalog.Kind {
	case config.StorePostgres:
		a.Catalog = repository.NewCatalog(pool)
	default:
		a.Catalog = memstore.NewCatalog()
	}

	persist := persistence.New(a.Store, cur, a.Log, persistence.WithLookupConcurrency(cfg.Catalog.LookupConcurrency))
	a.Service = service.New(a.Catalog, persist, promo.Default(), payments, a.Log)

	a.Log.Info().
		Str("store", cfg.Store.Kind).
		Str("catalog", cfg.Catalog.Kind).
		Str("currency", cur.String()).
		Msg("cart service ready")

	return a, nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
