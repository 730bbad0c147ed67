// internal/app/app.go
package app

import (
	"context"
	"fmt"

	"fittech-client/internal/api"
	"fittech-client/internal/config"
	"fittech-client/internal/db"
	catalogsvc "fittech-client/internal/service/catalog"
	commercesvc "fittech-client/internal/service/commerce"
	"fittech-client/internal/session"
	"fittech-client/internal/storage"
	"fittech-client/internal/store"

	"go.uber.org/zap"
)

// App wires the whole client together: one storage backend, one session,
// and the services a storefront screen would call.
type App struct {
	Cfg     config.AppConfig
	Storage storage.Storage
	IDs     *store.Generator

	Session *session.Manager
	API     *api.AuthClient

	Products        *catalogsvc.ProductService
	Categories      *catalogsvc.CategoryService
	Carts           *commercesvc.CartService
	Favorites       *commercesvc.FavoriteService
	Notifications   *commercesvc.NotificationService
	Reservations    *commercesvc.ReservationService
	Recommendations *commercesvc.RecommendationService
}

// New builds an App on the configured storage backend. The returned
// cleanup function closes backend connections and is safe to call once.
func New(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*App, func(), error) {
	st, cleanup, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, logger)
	sess := session.NewManager(st, client, logger)
	sess.Initialize(ctx)

	ids := store.NewGenerator(st, logger)
	return &App{
		Cfg:     cfg,
		Storage: st,
		IDs:     ids,

		Session: sess,
		API:     api.NewAuthClient(client, sess, logger),

		Products:        catalogsvc.NewProductService(st, ids, logger),
		Categories:      catalogsvc.NewCategoryService(st, ids, logger),
		Carts:           commercesvc.NewCartService(st, ids, logger),
		Favorites:       commercesvc.NewFavoriteService(st, ids, logger),
		Notifications:   commercesvc.NewNotificationService(st, ids, logger),
		Reservations:    commercesvc.NewReservationService(st, ids, logger),
		Recommendations: commercesvc.NewRecommendationService(st, ids, logger),
	}, cleanup, nil
}

// OpenStorage selects the backend named by STORAGE_BACKEND.
func OpenStorage(ctx context.Context, cfg config.AppConfig) (storage.Storage, func(), error) {
	switch cfg.StorageBackend {
	case "", "memory":
		return storage.NewMemoryStorage(), func() {}, nil

	case "redis":
		client, err := db.NewRedisClient(db.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
			PoolSize: 10,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return storage.NewRedisStorage(client, "fittech"), func() { client.Close() }, nil

	case "postgres":
		pool, err := db.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		st, err := storage.NewPostgresStorage(ctx, pool, "kv_store")
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return st, func() { pool.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
