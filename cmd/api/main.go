package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/amara-naturals/storefront-backend/api/controllers"
	"github.com/amara-naturals/storefront-backend/api/routes"
	authsvc "github.com/amara-naturals/storefront-backend/internal/auth"
	cartsvc "github.com/amara-naturals/storefront-backend/internal/cart"
	"github.com/amara-naturals/storefront-backend/internal/catalog"
	mediasvc "github.com/amara-naturals/storefront-backend/internal/media"
	"github.com/amara-naturals/storefront-backend/internal/order"
	productsvc "github.com/amara-naturals/storefront-backend/internal/products"
	"github.com/amara-naturals/storefront-backend/pkg/config"
	"github.com/amara-naturals/storefront-backend/pkg/db"
	"github.com/amara-naturals/storefront-backend/pkg/logger"
	"github.com/amara-naturals/storefront-backend/pkg/metrics"
	"github.com/amara-naturals/storefront-backend/pkg/migrate"
	"github.com/amara-naturals/storefront-backend/pkg/redis"
	"github.com/amara-naturals/storefront-backend/pkg/storage/bucket"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	bucketClient, err := bucket.New(context.Background(), cfg.Bucket, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap bucket client", err)
		os.Exit(1)
	}

	defer func() {
		if err := multierr.Combine(dbClient.Close(), redisClient.Close(), bucketClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing clients", err)
		}
	}()

	productRepo := productsvc.NewRepository(dbClient.DB())

	catalogStore, err := catalog.NewStore(context.Background(), productRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to load catalog", err)
		os.Exit(1)
	}

	cartStore, err := cartsvc.NewStore(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{
		Store:   cartStore,
		Catalog: catalogStore,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	formatter, err := order.NewFormatter(cfg.Order.MessagingBase, cfg.Order.WhatsAppNumber)
	if err != nil {
		logg.Error(context.Background(), "failed to create order formatter", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		Admin:     cfg.Admin,
		JWTConfig: cfg.JWT,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	mediaService, err := mediasvc.NewService(mediasvc.ServiceParams{
		Store:   bucketClient,
		Repo:    productRepo,
		Catalog: catalogStore,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productsvc.ServiceParams{
		Repo:    productRepo,
		Images:  mediaService,
		Catalog: catalogStore,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.RouterParams{
		Config:      cfg,
		Logger:      logg,
		HTTPMetrics: metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		Pingers: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
			"bucket":   bucketClient,
		},
		Catalog:        catalogStore,
		CartService:    cartService,
		OrderFormatter: formatter,
		AuthService:    authService,
		ProductService: productService,
		MediaService:   mediaService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	logg.Info(ctx, "api server stopped")
}
