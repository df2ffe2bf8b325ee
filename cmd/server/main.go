package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SmartER-Emergency/service-navigation/internal/application"
	"github.com/SmartER-Emergency/service-navigation/internal/config"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/notification"
	"github.com/SmartER-Emergency/service-navigation/internal/events"
	"github.com/SmartER-Emergency/service-navigation/internal/handler"
	"github.com/SmartER-Emergency/service-navigation/internal/logging"
	"github.com/SmartER-Emergency/service-navigation/internal/maps"
	"github.com/SmartER-Emergency/service-navigation/internal/middleware"
	"github.com/SmartER-Emergency/service-navigation/internal/repository"
	"github.com/SmartER-Emergency/service-navigation/internal/speech"
)

const serviceName = "service-navigation"

func main() {
	// .env is optional; real deployments set environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewNamed(cfg.Server.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-navigation",
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.Server.AppEnv),
	)

	// Sessions that never report a device position fall back to this
	// coordinate.
	geo.FallbackPosition = geo.Position{Lat: cfg.Fallback.Lat, Lng: cfg.Fallback.Lng}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(&repository.HospitalModel{}, &repository.SessionModel{}); err != nil {
		log.Fatal("failed to run auto-migration", zap.Error(err))
	}

	// Initialize repositories and seed the directory
	hospitalRepo := repository.NewGormHospitalRepository(db)
	sessionRepo := repository.NewGormSessionRepository(db)
	if err := hospitalRepo.Seed(context.Background(), repository.DefaultHospitals()); err != nil {
		log.Fatal("failed to seed hospital directory", zap.Error(err))
	}

	// Notification channel: in-memory feed, mirrored over Kafka when
	// brokers are configured.
	feed := events.NewMemoryFeed()
	var channel notification.Channel = feed

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Kafka.Enabled() {
		producer := events.NewProducer(cfg.Kafka.Brokers, events.TopicNotifications, serviceName, log)
		defer func() { _ = producer.Close() }()
		channel = events.NewKafkaChannel(feed, producer)

		groupID := cfg.Kafka.GroupPrefix + serviceName
		consumer := events.NewNotificationConsumer(cfg.Kafka.Brokers, groupID, feed, serviceName, log)
		defer func() { _ = consumer.Close() }()

		go func() {
			log.Info("starting notification consumer", zap.Strings("brokers", cfg.Kafka.Brokers))
			if err := consumer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("notification consumer error", zap.Error(err))
			}
		}()
	}

	// External collaborators
	osrm := maps.NewOSRMClient(cfg.Providers.OSRMBaseURL)
	nominatim := maps.NewNominatimClient(cfg.Providers.NominatimBaseURL, cfg.Providers.NominatimUserAgent)
	matrix := maps.NewDistanceMatrixClient(cfg.Providers.DistanceMatrixURL, cfg.Providers.DistanceMatrixKey)
	speaker := speech.NewLogSpeaker(log)

	// Application services
	navigationService := application.NewNavigationService(sessionRepo, hospitalRepo, osrm, channel, speaker, log)
	emergencyService := application.NewEmergencyService(hospitalRepo, matrix, channel, speaker, log)

	// HTTP handlers
	emergencyHandler := handler.NewEmergencyHandler(emergencyService)
	navigationHandler := handler.NewNavigationHandler(navigationService)
	hospitalHandler := handler.NewHospitalHandler(hospitalRepo)
	notificationHandler := handler.NewNotificationHandler(channel)
	geocodeHandler := handler.NewGeocodeHandler(nominatim)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	healthHandler := handler.NewHealthHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	emergencyHandler.RegisterRoutes(&router.RouterGroup)
	navigationHandler.RegisterRoutes(&router.RouterGroup)
	hospitalHandler.RegisterRoutes(&router.RouterGroup)
	notificationHandler.RegisterRoutes(&router.RouterGroup)
	geocodeHandler.RegisterRoutes(&router.RouterGroup)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-navigation...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-navigation stopped")
}
