// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/wishlist"
	"github.com/your-org/storefront/internal/infrastructure/database/kv"
	"github.com/your-org/storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront/internal/infrastructure/database/redis"
	"github.com/your-org/storefront/internal/infrastructure/database/sqlite"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	httpserver "github.com/your-org/storefront/internal/interfaces/http"
	"github.com/your-org/storefront/internal/interfaces/http/routes"
	"github.com/your-org/storefront/internal/pkg/metrics"
	"gorm.io/gorm"
)

// App wires together all dependencies and runs the storefront
type App struct {
	cfg      *config.Config
	log      logrus.FieldLogger
	server   *httpserver.Server
	cart     *cart.Engine
	wishlist *wishlist.Engine
	closers  []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// New creates a new application instance, initializing all dependencies
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	catalog, err := product.LoadCatalog(cfg.Catalog.Path, cfg.Catalog.DefaultSizes)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"path":     cfg.Catalog.Path,
		"products": catalog.Len(),
	}).Info("catalog loaded")

	a := &App{cfg: cfg, log: log}

	store, checks, err := a.openStore(cfg)
	if err != nil {
		a.closeAll()
		return nil, err
	}

	m := metrics.New()

	a.cart = cart.NewEngine(
		cart.WithLogger(log.WithField("component", "cart")),
		cart.WithListener(m.CartListener()),
	)
	a.wishlist = wishlist.NewEngine(ctx, store,
		wishlist.WithLogger(log.WithField("component", "wishlist")),
		wishlist.WithListener(m.WishlistListener()),
		wishlist.WithKey(cfg.Storage.WishlistKey),
		wishlist.WithWriteTimeout(cfg.Storage.WriteTimeout),
		wishlist.WithWriteObserver(m.ObserveWishlistWrite),
	)
	m.TrackCart(a.cart)
	m.TrackWishlist(a.wishlist)

	pricing := cart.Pricing{
		TaxRate:      cfg.Checkout.TaxRate,
		ShippingCost: cfg.Checkout.ShippingCost,
	}
	checkoutService := checkout.NewService(a.cart, pricing, cfg.Checkout.Currency, log.WithField("component", "checkout"))

	a.server = httpserver.NewServer(cfg, log, routes.Dependencies{
		Catalog:  catalog,
		Cart:     a.cart,
		Wishlist: a.wishlist,
		Checkout: checkoutService,
		Metrics:  m,
		Logger:   log,
	}, checks)

	return a, nil
}

// openStore builds the wishlist store for the configured provider
func (a *App) openStore(cfg *config.Config) (storage.Store, map[string]httpserver.HealthCheck, error) {
	checks := make(map[string]httpserver.HealthCheck)
	log := a.log.WithField("provider", cfg.Storage.Provider)

	switch cfg.Storage.Provider {
	case config.StorageMemory:
		log.Warn("wishlist storage is in memory, saved items are lost on restart")
		return storage.NewMemoryStore(), checks, nil

	case config.StorageFile:
		store, err := storage.NewFileStore(cfg.Storage.FileDir)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("dir", cfg.Storage.FileDir).Info("wishlist storage ready")
		return store, checks, nil

	case config.StorageRedis:
		client, err := redis.NewConnection(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, namedCloser{"redis", client.Close})
		checks["redis"] = client.Health
		return redis.NewStore(client.GetClient(), cfg.Redis.KeyPrefix), checks, nil

	case config.StorageSQLite, config.StoragePostgres:
		var db *gorm.DB
		var err error
		if cfg.Storage.Provider == config.StorageSQLite {
			db, err = sqlite.NewConnection(cfg.Storage.SQLitePath, log)
		} else {
			db, err = postgres.NewConnection(cfg, log)
		}
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		a.closers = append(a.closers, namedCloser{"database", sqlDB.Close})
		checks["database"] = sqlDB.PingContext

		if err := kv.NewMigration(db, log).RunAutoMigrations(); err != nil {
			return nil, nil, err
		}
		return kv.NewStore(db), checks, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}

// Handler exposes the HTTP router, mainly for tests
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Run starts the HTTP server and blocks until the context is canceled
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-errCh:
		a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components. The wishlist is flushed after
// the server stops taking requests.
func (a *App) Shutdown() error {
	a.log.Info("shutting down application")

	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var firstErr error
	if err := a.server.Stop(ctx); err != nil {
		a.log.WithError(err).Error("http server shutdown error")
		firstErr = err
	}

	if err := a.wishlist.Close(ctx); err != nil {
		a.log.WithError(err).Error("wishlist flush error")
		if firstErr == nil {
			firstErr = fmt.Errorf("failed to flush wishlist: %w", err)
		}
	}

	a.closeAll()

	a.log.Info("application shutdown complete")
	return firstErr
}

func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.log.WithError(err).WithField("resource", c.name).Error("close error")
		}
	}
	a.closers = nil
}
