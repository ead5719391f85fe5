package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/adapters/cache"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/adapters/database"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/adapters/events"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/api/handlers"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/api/routes"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/application/services"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/observability"
	"github.com/zatekoja/Emergencydispatchdesign/backend/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client. Redis carries the hospital state stream, so
	// unlike a cache it is not optional.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize Redis client: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis client initialized successfully")

	// Initialize adapters

	hospitalAdapter := database.NewHospitalAdapter(pgClient)

	ambulanceAdapter := database.NewAmbulanceAdapter(pgClient)

	caseAdapter := database.NewCaseAdapter(pgClient)

	requestAdapter := database.NewRequestAdapter(pgClient)

	reservationAdapter := database.NewReservationAdapter(pgClient)

	// Materialized hospital view, fed by the state stream
	stateCache := cache.NewStateCache()

	stateProducer := events.NewStateProducer(redisClient, cfg.Stream.Key)

	synchronizer := events.NewStateSynchronizer(
		redisClient,
		hospitalAdapter,
		stateCache,
		cfg.Stream,
		metrics,
	)

	go func() {
		if err := synchronizer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("state synchronizer stopped")
		}
	}()

	// Initialize services

	hospitalService := services.NewHospitalService(hospitalAdapter, stateProducer, stateCache)

	caseService := services.NewCaseService(caseAdapter)

	decisionService := services.NewDecisionService(stateCache, cfg.Dispatch.MaxResults, metrics)

	reservationService := services.NewReservationService(
		pgClient,
		hospitalAdapter,
		ambulanceAdapter,
		reservationAdapter,
		cfg.Dispatch.ReservationTTL,
	)

	lifecycleService := services.NewLifecycleService(
		pgClient,
		ambulanceAdapter,
		caseAdapter,
		requestAdapter,
		reservationAdapter,
		reservationService,
		cfg.Dispatch.BreakdownDuration,
		metrics,
	)

	dispatchService := services.NewDispatchService(pgClient, requestAdapter, ambulanceAdapter)

	// Initialize handlers

	hospitalHandler := handlers.NewHospitalHandler(hospitalService)

	stateHandler := handlers.NewStateHandler(hospitalService)

	ambulanceHandler := handlers.NewAmbulanceHandler(lifecycleService)

	caseHandler := handlers.NewCaseHandler(caseService)

	decisionHandler := handlers.NewDecisionHandler(decisionService)

	reservationHandler := handlers.NewReservationHandler(reservationService)

	sosHandler := handlers.NewSOSHandler(dispatchService)

	// Set up router

	router := routes.NewRouter(
		hospitalHandler,
		stateHandler,
		ambulanceHandler,
		caseHandler,
		decisionHandler,
		reservationHandler,
		sosHandler,
		metrics,
		*logger,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Stop the stream consumer before the server drains
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
