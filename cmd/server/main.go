package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/taskhub/backend/internal/application/notify"
	"github.com/taskhub/backend/internal/infrastructure/broker"
	"github.com/taskhub/backend/internal/infrastructure/cache"
	"github.com/taskhub/backend/internal/infrastructure/config"
	"github.com/taskhub/backend/internal/infrastructure/logger"
	"github.com/taskhub/backend/internal/infrastructure/persistence"
	"github.com/taskhub/backend/internal/interfaces/http/middleware"
	"github.com/taskhub/backend/internal/interfaces/http/router"
	"github.com/taskhub/backend/internal/realtime"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting TaskHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	projectRepo := persistence.NewGormProjectRepository(db.DB)
	todoRepo := persistence.NewGormTodoRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)

	// Response cache
	var responseCache *cache.ResponseCache
	if cfg.Cache.Enabled {
		responseCache, err = cache.New(cfg.Redis, cfg.Cache, log)
		if err != nil {
			// The cache is an accelerator; the API works without it.
			log.Warn("Response cache unavailable, continuing without it", zap.Error(err))
		} else {
			defer func() {
				if err := responseCache.Close(); err != nil {
					log.Error("Error closing response cache", zap.Error(err))
				}
			}()
			log.Info("Response cache connected")
		}
	}

	// Broker
	publisher := broker.NewPublisher(cfg.Redis, cfg.Broker, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Error closing publisher", zap.Error(err))
		}
	}()

	synthesizer := notify.NewSynthesizer(
		notify.NewRenderer(templateRepo),
		notificationRepo,
		publisher,
		cfg.Broker.NotificationTopic,
		log,
	)

	// Realtime hub and the consumers that feed it
	hub := realtime.NewHub(
		realtime.WithHeartbeat(cfg.Realtime.Heartbeat),
		realtime.WithClientBuffer(cfg.Realtime.ClientBuffer),
		realtime.WithMaxClients(cfg.Realtime.MaxClients),
		realtime.WithLogger(log),
	)
	hub.Start()
	defer hub.Stop()

	gateway := realtime.NewGateway(hub, log)

	consumerClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := consumerClient.Close(); err != nil {
			log.Error("Error closing consumer client", zap.Error(err))
		}
	}()

	consumerCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()

	notificationConsumer := broker.NewConsumer(consumerClient, cfg.Broker.NotificationTopic, cfg.Broker, log)
	go notificationConsumer.Run(consumerCtx, gateway.NotificationHandler())

	todoConsumer := broker.NewConsumer(consumerClient, cfg.Broker.TodoTopic, cfg.Broker, log)
	go todoConsumer.Run(consumerCtx, gateway.TodoHandler())

	// HTTP surface
	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine := router.New(router.Dependencies{
		Logger:        log,
		Cache:         responseCache,
		Synthesizer:   synthesizer,
		Publisher:     publisher,
		TodoTopic:     cfg.Broker.TodoTopic,
		Hub:           hub,
		Projects:      projectRepo,
		Todos:         todoRepo,
		Notifications: notificationRepo,
		Templates:     templateRepo,
		RateLimiter:   rateLimiter,
		MaxBodyBytes:  cfg.HTTP.MaxBodySize,
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// WriteTimeout is left unset: it would sever long-lived realtime
	// streams. Regular handlers are bounded by the read timeout and the
	// reverse proxy in front.
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Stop feeding the hub before tearing down open streams.
	stopConsumers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
