package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-api/internal/config"
	"github.com/clinicdesk/clinic-api/internal/email"
	authHandler "github.com/clinicdesk/clinic-api/internal/handler/auth"
	doctorHandler "github.com/clinicdesk/clinic-api/internal/handler/doctor"
	facilityHandler "github.com/clinicdesk/clinic-api/internal/handler/facility"
	healthHandler "github.com/clinicdesk/clinic-api/internal/handler/health"
	patientHandler "github.com/clinicdesk/clinic-api/internal/handler/patient"
	visitHandler "github.com/clinicdesk/clinic-api/internal/handler/visit"
	"github.com/clinicdesk/clinic-api/internal/middleware"
	"github.com/clinicdesk/clinic-api/internal/repository/postgres"
	"github.com/clinicdesk/clinic-api/internal/router"
	authService "github.com/clinicdesk/clinic-api/internal/service/auth"
	doctorService "github.com/clinicdesk/clinic-api/internal/service/doctor"
	facilityService "github.com/clinicdesk/clinic-api/internal/service/facility"
	patientService "github.com/clinicdesk/clinic-api/internal/service/patient"
	visitService "github.com/clinicdesk/clinic-api/internal/service/visit"
	pkgauth "github.com/clinicdesk/clinic-api/pkg/auth"
	"github.com/clinicdesk/clinic-api/pkg/cache"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	"github.com/clinicdesk/clinic-api/pkg/metrics"
	"github.com/clinicdesk/clinic-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Logging.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	facilityRepo := postgres.NewFacilityRepository(db)
	visitRepo := postgres.NewVisitRepository(db)

	// Cache: redis when configured, in-process otherwise.
	var c cache.Cache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		c = cache.NewRedisCache(client)
	} else {
		c = cache.NewMemoryCache(5*time.Minute, 10*time.Minute)
	}

	m := metrics.NewMetrics(cfg.Metrics.Namespace)
	hasher := security.NewBcryptHasher(0)
	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	// Booking confirmations are optional; without SMTP config they are skipped.
	var notifier visitService.Notifier
	emailCfg, err := email.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load smtp configuration")
	}
	if emailCfg.Enabled() {
		notifier = email.NewService(emailCfg)
	}

	// Services
	visitSvc := visitService.NewService(visitRepo, doctorRepo, patientRepo, notifier, m, appLogger)
	doctorSvc := doctorService.NewService(doctorRepo, facilityRepo, hasher, c, appLogger)
	patientSvc := patientService.NewService(patientRepo, hasher)
	facilitySvc := facilityService.NewService(facilityRepo, hasher)
	authSvc := authService.NewService(doctorRepo, hasher, jwtSvc)

	// Router
	r := router.NewRouter(middleware.NewAuthMiddleware(jwtSvc), router.Config{
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		CORSConfig:     middleware.DefaultCORSConfig(),
		Metrics:        m,
	})

	r.RegisterPublic(
		authHandler.NewHandler(authSvc),
	)
	r.RegisterProtected(
		visitHandler.NewHandler(visitSvc),
		doctorHandler.NewHandler(doctorSvc),
		patientHandler.NewHandler(patientSvc),
		facilityHandler.NewHandler(facilitySvc),
	)
	healthHandler.NewHandler(db).RegisterRoutes(r.Engine())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
