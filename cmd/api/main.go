package main

import (
	"context"
	"net/http"
	"os"

	"channelsync-core/internal/application"
	"channelsync-core/internal/domain"
	apiinfra "channelsync-core/internal/infrastructure/api"
	"channelsync-core/internal/infrastructure/encryption"
	"channelsync-core/internal/infrastructure/locker"
	"channelsync-core/internal/infrastructure/marketplace"
	"channelsync-core/internal/infrastructure/metrics"
	"channelsync-core/internal/infrastructure/mirakl"
	"channelsync-core/internal/infrastructure/repository"
	"channelsync-core/internal/infrastructure/shopify"
	"channelsync-core/internal/infrastructure/validator"
	"channelsync-core/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Get configuration from environment
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(os.Getenv("MONGODB_DATABASE"))

	// Get encryption key
	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if encryptionKey == "" {
		logger.Fatal().Msg("ENCRYPTION_KEY environment variable is required")
	}
	encryptionService, err := encryption.NewService(encryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}

	// Initialize repositories
	storeRepo := repository.NewMongoStoreRepository(db)
	productRepo := repository.NewMongoProductRepository(db, logger)
	orderRepo := repository.NewMongoOrderRepository(db, logger)
	customerRepo := repository.NewMongoCustomerRepository(db, logger)
	syncLogRepo := repository.NewMongoSyncLogRepository(db)

	// Per-store sync lock
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	syncLocker := locker.NewRedisLocker(redisClient, 0, logger)

	// Metrics and the shared rate-limited fetcher
	syncMetrics := metrics.NewSyncMetrics(prometheus.DefaultRegisterer)
	fetcher := marketplace.NewFetcher(marketplace.DefaultRetryConfig(), logger, syncMetrics)

	// Initialize application services
	storeService := application.NewStoreService(
		storeRepo,
		encryptionService,
		validator.New(fetcher, logger),
		logger,
	)

	syncService := application.NewSyncService(
		storeRepo,
		syncLogRepo,
		encryptionService,
		syncLocker,
		syncMetrics,
		logger,
	)

	// Register the sync pipelines: one generic orchestrator per
	// (platform, entity-kind) pair. Unregistered combinations resolve to a
	// not_implemented result.
	syncCfg := application.DefaultSyncConfig()

	syncService.Register(domain.PlatformMirakl, domain.SyncTypeProducts, application.NewOrchestrator(
		func(store *domain.Store, creds domain.Credentials) ports.SyncAdapter[domain.Product] {
			return mirakl.NewOfferAdapter(mirakl.NewClient(store.Domain, creds.APIKey, fetcher), store)
		},
		productRepo, syncLogRepo, syncCfg, logger, syncMetrics,
	))

	syncService.Register(domain.PlatformMirakl, domain.SyncTypeOrders, application.NewOrchestrator(
		func(store *domain.Store, creds domain.Credentials) ports.SyncAdapter[domain.OrderRecord] {
			return mirakl.NewOrderAdapter(mirakl.NewClient(store.Domain, creds.APIKey, fetcher), store)
		},
		application.NewOrderBatchWriter(orderRepo, customerRepo, logger), syncLogRepo, syncCfg, logger, syncMetrics,
	))

	syncService.Register(domain.PlatformShopify, domain.SyncTypeProducts, application.NewOrchestrator(
		func(store *domain.Store, creds domain.Credentials) ports.SyncAdapter[domain.Product] {
			return shopify.NewProductAdapter(shopify.NewClient(store.Domain, creds.AccessToken, fetcher), store)
		},
		productRepo, syncLogRepo, syncCfg, logger, syncMetrics,
	))

	restHandler := apiinfra.NewHandler(storeService, syncService, syncLogRepo, productRepo, orderRepo, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation - public
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Authenticated API
	r.Group(func(r chi.Router) {
		r.Use(apiinfra.UserContextMiddleware(logger))
		r.Mount("/api/v1", restHandler.Routes())
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
