package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.ApiService/controllers"
	container "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Container"
	bdsingestor "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Ingestor"
	implementation "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Repository/Implementation"
)

func main() {
	// Initialize dependency injection container
	ctr, err := container.NewContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}

	logger := ctr.GetLogger()
	logger.Info("Starting Bio-D-Scan backend")

	config := ctr.GetConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect the document store; a missing database degrades the
	// service instead of failing startup.
	repo := implementation.NewMongoBeeRepository(config.Mongo, logger)
	repo.Connect(ctx)
	ctr.RegisterCleanup(func(ctx context.Context) error {
		repo.Close(ctx)
		return nil
	})

	// Start the MQTT ingestor
	ingestor := bdsingestor.New(config.MQTT, repo, logger)
	ingestor.OnConnectionChange(func(connected bool) {
		logger.WithField("connected", connected).Info("MQTT connectivity changed")
	})
	if err := ingestor.Start(ctx); err != nil {
		logger.FatalWithError(err, "Failed to start MQTT ingestor")
	}
	ctr.RegisterCleanup(func(context.Context) error {
		ingestor.Stop()
		return nil
	})

	if !ingestor.WaitForConnection(10 * time.Second) {
		logger.Warn("MQTT broker not reachable yet, reconnecting in background")
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configure CORS from config
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORS.AllowedOrigins,
		AllowMethods:     config.CORS.AllowedMethods,
		AllowHeaders:     config.CORS.AllowedHeaders,
		ExposeHeaders:    config.CORS.ExposedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           time.Duration(config.CORS.MaxAge) * time.Second,
	}))

	// Create controllers and register routes
	beeController := controllers.NewBeeDataController(repo, ingestor, config.MQTT.Topic, logger)
	healthController := controllers.NewHealthController(repo, ingestor)

	beeController.RegisterRoutes(router)
	healthController.RegisterRoutes(router)

	port := config.Server.Port

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		logger.Info("HTTP server starting on port " + port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithError(err, "Failed to start HTTP server")
		}
	}()

	logger.Info("Bio-D-Scan backend running... press Ctrl+C to stop")

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithError(err, "Server forced to shutdown")
	}

	ctr.Shutdown(shutdownCtx)
}
