package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/loomhaven/api/internal/handlers"
	"github.com/loomhaven/api/internal/payments"
	"github.com/loomhaven/api/internal/platform/auth"
	"github.com/loomhaven/api/internal/platform/config"
	"github.com/loomhaven/api/internal/platform/database"
	"github.com/loomhaven/api/internal/platform/observability"
	"github.com/loomhaven/api/internal/platform/storage"
	gormrepo "github.com/loomhaven/api/internal/repositories/gorm"
	"github.com/loomhaven/api/internal/services"
)

func main() {
	_ = godotenv.Load()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}

	categoryRepo := gormrepo.NewCategoryRepository(db)
	productRepo := gormrepo.NewProductRepository(db)
	filterRepo := gormrepo.NewFilterRepository(db)
	dimensionRepo := gormrepo.NewDimensionRepository(db)
	orderRepo := gormrepo.NewOrderRepository(db)
	reviewRepo := gormrepo.NewReviewRepository(db)
	userRepo := gormrepo.NewUserRepository(db)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTTL)
	optionalAuth := auth.OptionalMiddleware(tokenManager)
	staffOnly := auth.RequireStaffMiddleware(tokenManager)

	catalogService := services.NewCatalogService(services.CatalogServiceDeps{
		Categories: categoryRepo,
	})
	productService := services.NewProductService(services.ProductServiceDeps{
		Products:   productRepo,
		Dimensions: dimensionRepo,
	})
	filterService := services.NewFilterService(services.FilterServiceDeps{
		Filters:    filterRepo,
		Categories: categoryRepo,
		Clock:      time.Now,
	})
	dimensionService := services.NewDimensionService(services.DimensionServiceDeps{
		Dimensions: dimensionRepo,
		Products:   productRepo,
	})
	orderService := services.NewOrderService(services.OrderServiceDeps{
		Orders: orderRepo,
		Clock:  time.Now,
	})
	reviewService := services.NewReviewService(services.ReviewServiceDeps{
		Reviews:  reviewRepo,
		Products: productRepo,
	})
	userService := services.NewUserService(services.UserServiceDeps{
		Users:  userRepo,
		Tokens: tokenManager,
	})
	uploadService := services.NewUploadService(services.UploadServiceDeps{
		Storage: storage.NewClient(cfg.Storage),
	})
	checkoutService := services.NewCheckoutService(services.CheckoutServiceDeps{
		Stripe:     payments.NewStripeProvider(cfg.Payments.StripeSecretKey, cfg.Payments.Currency),
		PayPal:     payments.NewPayPalProvider(cfg.Payments.PayPalBaseURL, cfg.Payments.PayPalClientID, cfg.Payments.PayPalClientSecret),
		Orders:     orderRepo,
		SuccessURL: cfg.Payments.SuccessURL,
		CancelURL:  cfg.Payments.CancelURL,
	})

	authHandlers := handlers.NewAuthHandlers(userService)
	categoryHandlers := handlers.NewCategoryHandlers(catalogService, filterService, staffOnly)
	subCategoryHandlers := handlers.NewSubCategoryHandlers(catalogService, filterService, staffOnly)
	productHandlers := handlers.NewProductHandlers(productService, filterService, staffOnly)
	filterHandlers := handlers.NewFilterHandlers(filterService, staffOnly)
	dimensionHandlers := handlers.NewDimensionHandlers(dimensionService, staffOnly)
	orderHandlers := handlers.NewOrderHandlers(orderService, optionalAuth, staffOnly)
	reviewHandlers := handlers.NewReviewHandlers(reviewService, optionalAuth, staffOnly)
	uploadHandlers := handlers.NewUploadHandlers(uploadService, staffOnly)
	paymentHandlers := handlers.NewPaymentHandlers(checkoutService)

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthPinger(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger.Named("http")),
			observability.RecoveryMiddleware(),
			observability.RequestLoggerMiddleware(),
		),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithAuthRoutes(authHandlers.Routes),
		handlers.WithCategoryRoutes(categoryHandlers.Routes),
		handlers.WithSubCategoryRoutes(subCategoryHandlers.Routes),
		handlers.WithProductRoutes(func(r chi.Router) {
			productHandlers.Routes(r)
			dimensionHandlers.ProductRoutes(r)
		}),
		handlers.WithFilterRoutes(filterHandlers.Routes),
		handlers.WithDimensionRoutes(dimensionHandlers.Routes),
		handlers.WithOrderRoutes(orderHandlers.Routes),
		handlers.WithReviewRoutes(reviewHandlers.Routes),
		handlers.WithUploadRoutes(uploadHandlers.Routes),
		handlers.WithPaymentRoutes(paymentHandlers.Routes),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("loomhaven api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
