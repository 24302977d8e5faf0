package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/adapters/cache"
	"freight-marketplace-service/internal/adapters/distance"
	"freight-marketplace-service/internal/adapters/notify"
	"freight-marketplace-service/internal/adapters/repositories"
	"freight-marketplace-service/internal/api"
	"freight-marketplace-service/internal/config"
	"freight-marketplace-service/internal/platform/db"
	"freight-marketplace-service/internal/platform/logger"
	"freight-marketplace-service/internal/services"
	"freight-marketplace-service/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(config.Get("LOG_LEVEL", "info"), config.Get("LOG_DIR", ""))
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(databaseURL, db.Pool{
		MaxOpen: config.GetInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdle: config.GetInt("DB_MAX_IDLE_CONNS", 10),
	})
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer sqlDB.Close()

	// Redis is optional; without it unknown-lane distance estimates are
	// re-rolled per quote instead of being pinned for 24h.
	var distanceCache *cache.RedisDistanceCache
	if addr := config.Get("REDIS_ADDR", ""); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.Get("REDIS_PASSWORD", ""),
			DB:       config.GetInt("REDIS_DB", 0),
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unreachable, distance estimates will not be pinned", zap.Error(err))
		} else {
			distanceCache = cache.NewRedisDistanceCache(client)
			defer client.Close()
		}
	}

	shipmentRepo := repositories.NewPostgresShipmentRepository(sqlDB)
	bidRepo := repositories.NewPostgresBidRepository(sqlDB)
	trackingRepo := repositories.NewPostgresTrackingRepository(sqlDB)
	notificationRepo := repositories.NewPostgresNotificationRepository(sqlDB)
	driverRepo := repositories.NewPostgresDriverRepository(sqlDB)
	vehicleRepo := repositories.NewPostgresVehicleRepository(sqlDB)
	issueRepo := repositories.NewPostgresIssueRepository(sqlDB)
	proofRepo := repositories.NewPostgresProofRepository(sqlDB)
	customerRepo := repositories.NewPostgresCustomerRepository(sqlDB)

	notifier := notify.NewLogNotifier(log)

	shipmentService := services.NewShipmentService(
		shipmentRepo, trackingRepo, proofRepo, issueRepo, driverRepo, notificationRepo, notifier, log)
	bidService := services.NewBidService(
		shipmentRepo, bidRepo, notificationRepo, notifier, log)

	var estimator *services.PricingEstimator
	if distanceCache != nil {
		estimator = services.NewPricingEstimator(distance.NewStaticTable(distanceCache))
	} else {
		estimator = services.NewPricingEstimator(distance.NewStaticTable(nil))
	}

	router := api.NewRouter(api.Deps{
		DB:              sqlDB,
		Shipments:       shipmentRepo,
		Tracking:        trackingRepo,
		Notifications:   notificationRepo,
		Drivers:         driverRepo,
		Vehicles:        vehicleRepo,
		Issues:          issueRepo,
		Proofs:          proofRepo,
		Customers:       customerRepo,
		Notifier:        notifier,
		ShipmentService: shipmentService,
		BidService:      bidService,
		Estimator:       estimator,
		JWTSecret:       config.Get("JWT_SECRET", "dev-secret-change-me"),
		Log:             log,
	})

	if config.GetBool("BID_SWEEP_ENABLED", true) {
		sweeper := workers.NewSweeper(bidRepo, log)
		spec := config.Get("BID_SWEEP_SCHEDULE", "@every 5m")
		if err := sweeper.Start(spec); err != nil {
			log.Fatal("bid sweeper schedule invalid", zap.String("spec", spec), zap.Error(err))
		}
		defer sweeper.Stop()
	}

	addr := ":" + config.Get("PORT", "8080")
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
