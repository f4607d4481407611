package main

import (
	"context"
	"errors"
	"github.com/RaikyD/remit-desk/internal/application"
	"github.com/RaikyD/remit-desk/internal/cache"
	"github.com/RaikyD/remit-desk/internal/config"
	"github.com/RaikyD/remit-desk/internal/kafka"
	"github.com/RaikyD/remit-desk/internal/logger"
	"github.com/RaikyD/remit-desk/internal/migrate"
	"github.com/RaikyD/remit-desk/internal/presentation"
	"github.com/RaikyD/remit-desk/internal/receipt"
	"github.com/RaikyD/remit-desk/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		_ = logger.Init("info", "console")
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LOG_LEVEL, cfg.LOG_FORMAT); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(cfg.DB_STRING); err != nil {
		logger.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// DB pool
	pool, err := pgxpool.New(ctx, cfg.DB_STRING)
	if err != nil {
		logger.Error("pgxpool new failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("db ping failed", "err", err)
		os.Exit(1)
	}
	logger.Info("db connected")

	checks := map[string]presentation.Check{"db": pool.Ping}

	// Tracking cache: Redis when configured, process memory otherwise
	var tracking cache.TrackingCache
	if cfg.REDIS_ADDR != "" {
		rc := cache.NewRedisTrackingCache(cfg.REDIS_ADDR, cfg.REDIS_PASSWORD, cfg.REDIS_DB, cfg.TRACKING_CACHE_TTL)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis ping failed, lookups will fall through to db", "addr", cfg.REDIS_ADDR, "err", err)
		}
		checks["redis"] = rc.Ping
		tracking = rc
	} else {
		tracking = cache.NewMemoryTrackingCache(cfg.TRACKING_CACHE_TTL)
	}

	// Wiring
	orderRepo := repository.NewOrderRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	renderer := receipt.NewRenderer(receipt.NewDejaVuLoader(cfg.FONT_DIR))

	opts := []application.Option{application.WithTrackingCache(tracking)}

	if cfg.KAFKA_BROKERS != "" {
		prod := kafka.NewProducer(cfg.KAFKA_BROKERS, cfg.KAFKA_TOPIC)
		defer prod.Close()
		opts = append(opts, application.WithEventPublisher(prod))
	} else {
		logger.Info("kafka disabled: KAFKA_BROKERS is empty")
	}

	orders := application.NewOrdersService(orderRepo, renderer, opts...)
	customers := application.NewCustomersService(customerRepo)

	// Intake consumer: orders entered upstream arrive as raw field maps
	if cfg.KAFKA_BROKERS != "" {
		_, err := kafka.StartConsumer(ctx, orders, kafka.ConsumerConfig{
			Brokers: cfg.KAFKA_BROKERS,
			Topic:   cfg.KAFKA_INTAKE_TOPIC,
			GroupID: cfg.KAFKA_GROUP_ID,
		})
		if err != nil {
			logger.Warn("kafka consumer start failed", "err", err)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API
	presentation.NewOrdersHandler(orders).Register(r)
	presentation.NewCustomersHandler(customers).Register(r)
	presentation.NewHealthHandler(checks).Register(r)

	// STATIC (web/index.html + assets)
	presentation.MountStatic(r)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP_PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting http", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server crashed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", "err", err)
	}
}
