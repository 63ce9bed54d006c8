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

	"carpool-service/src/internal/config"
	"carpool-service/src/internal/delivery/http/middleware"
	"carpool-service/src/internal/delivery/ws"
	"carpool-service/src/pkg/log"

	"github.com/hibiken/asynq"
)

func main() {

	viperConfig := config.NewViper()
	viperConfig.SetDefault("log.level", "DEBUG")
	viperConfig.SetDefault("app.name", "CARPOOL_SERVICE")
	viperConfig.SetDefault("web.port", 8080)
	viperConfig.SetDefault("ws.port", 8081)
	viperConfig.SetDefault("commission.default_rate", 0.16)
	viperConfig.SetDefault("commission.cache_ttl", 10*time.Minute)
	viperConfig.SetDefault("negotiation.expiry_timeout", 24*time.Hour)
	viperConfig.SetDefault("negotiation.sweep_interval", 5*time.Minute)
	viperConfig.SetDefault("idempotency.ttl", 24*time.Hour)
	viperConfig.SetDefault("idempotency.in_flight_ttl", 30*time.Second)
	viperConfig.SetDefault("updates.commit_window", 30*time.Second)
	viperConfig.SetDefault("pricing.price_per_km", 5.0)
	viperConfig.SetDefault("asynq.queue", "default")
	log.InitLogger(viperConfig)
	logger := log.GetLogger()

	kafkaConfig := config.NewKafkaConfig(viperConfig)
	if err := config.LoadRedisConfig(viperConfig); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to connect to redis: %v", err), "main", "")
		os.Exit(1)
	}
	db := config.NewDatabase(viperConfig, logger)
	redisClient := config.NewRedis()
	producer := config.NewKafkaProducer(viperConfig, kafkaConfig, logger)
	validate := config.NewValidator(viperConfig)
	geoService, err := config.NewGeoService(viperConfig)
	if err != nil {
		logger.Error("main", fmt.Sprintf("Failed to create maps client: %v", err), "main", "")
	}
	asynqClient := config.NewAsynqClient(viperConfig)
	asynqServer := config.NewAsynqServer(viperConfig)
	asyncMux := asynq.NewServeMux()
	hub := ws.NewHub(logger, viperConfig.GetString("jwt.secret"))

	app := config.NewFiber(viperConfig)
	app.Use(middleware.NewLogger())
	services := config.Bootstrap(&config.BootstrapConfig{
		DB:          db,
		App:         app,
		Log:         logger,
		Validate:    validate,
		Config:      viperConfig,
		Producer:    producer,
		Redis:       redisClient,
		Geoservice:  geoService,
		AsynqClient: asynqClient,
		Async:       asyncMux,
		Hub:         hub,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := asynqServer.Start(asyncMux); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to start task worker: %v", err), "main", "")
	}
	go services.Negotiations.RunExpirySweeper(ctx)

	wsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", viperConfig.GetInt("ws.port")),
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("main", fmt.Sprintf("Notification listener stopped: %v", err), "main", "")
		}
	}()

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("main", "Server carpool-service is shutting down...", "gracefull", "")

		stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("main", fmt.Sprintf("Error during shutdown: %v", err), "graceful", "")
		}
		if err := wsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("main", fmt.Sprintf("Error during notification listener shutdown: %v", err), "graceful", "")
		}
		hub.Close()
		asynqServer.Shutdown()
		if err := asynqClient.Close(); err != nil {
			logger.Error("main", fmt.Sprintf("Error closing task client: %v", err), "graceful", "")
		}
		if producer != nil {
			if err := producer.Close(); err != nil {
				logger.Error("main", fmt.Sprintf("Error closing kafka producer: %v", err), "graceful", "")
			}
		}
		if err := redisClient.Close(); err != nil {
			logger.Error("main", fmt.Sprintf("Error closing redis: %v", err), "graceful", "")
		}
		if err := db.Close(); err != nil {
			logger.Error("main", fmt.Sprintf("Error closing database: %v", err), "graceful", "")
		}
		close(done)
	}()

	webPort := viperConfig.GetInt("web.port")
	if err := app.Listen(fmt.Sprintf(":%d", webPort)); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to start server: %v", err), "main", "")
		quit <- os.Interrupt
	}

	<-done
	logger.Info("main", fmt.Sprintf("Server %s stopped", viperConfig.GetString("app.name")), "gracefull", "")
}
