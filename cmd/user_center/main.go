package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	portsrepo "github.com/weqtian/user_center/internal/core/ports/repositories"
	"github.com/weqtian/user_center/internal/core/services"
	"github.com/weqtian/user_center/internal/handlers"
	"github.com/weqtian/user_center/internal/middleware"
	"github.com/weqtian/user_center/internal/platform/config"
	"github.com/weqtian/user_center/internal/platform/logger"
	"github.com/weqtian/user_center/internal/platform/telemetry"
	"github.com/weqtian/user_center/internal/repositories/database/mongodb"
	"github.com/weqtian/user_center/internal/repositories/database/pgsql"
	"github.com/weqtian/user_center/internal/repositories/memory"
	"github.com/weqtian/user_center/internal/utils"
	"github.com/weqtian/user_center/pkg/database"
)

const shutdownTimeout = 15 * time.Second

// @title User Center API
// @version 1.0
// @description Registration, login and session management for user_center.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	baseLogger := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ProjectName,
		Version:     cfg.ProjectVersion,
	})
	log.Logger = baseLogger
	zerolog.DefaultContextLogger = &baseLogger

	if err := run(cfg, baseLogger); err != nil {
		baseLogger.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run(cfg *config.Config, baseLogger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.ProjectName,
		ServiceVersion: cfg.ProjectVersion,
		Environment:    environment(cfg),
		Endpoint:       cfg.OTelEndpoint,
		Insecure:       cfg.OTelInsecure,
		SampleRate:     cfg.OTelSampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			baseLogger.Error().Err(err).Msg("Failed to shut down telemetry")
		}
	}()

	authMetrics, err := telemetry.NewAuthMetrics(otel.Meter(telemetry.InstrumentationName))
	if err != nil {
		return err
	}

	repos, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	codec, err := utils.NewTokenCodec(utils.TokenCodecConfig{
		Secret:          cfg.JWTSecret,
		Algorithm:       cfg.JWTAlgorithm,
		Issuer:          cfg.JWTIssuer,
		AccessTokenTTL:  cfg.AccessTokenExpiryDuration,
		RefreshTokenTTL: cfg.RefreshTokenExpiryDuration,
	})
	if err != nil {
		return err
	}

	serviceContainer := services.NewServiceContainer(repos, codec, services.WithAuthMetrics(authMetrics))

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(baseLogger), middleware.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}
	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, repos.UserRepo); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		baseLogger.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	baseLogger.Info().Msg("Shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore connects the configured user store. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongoDB:
		client, err := database.NewMongoClient(ctx, database.MongoConfig{
			URI:         cfg.MongoURI,
			MaxPoolSize: cfg.MongoMaxPoolSize,
			Timeout:     cfg.DBOperationTimeout,
		})
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			database.CloseMongoClient(closeCtx, client)
		}
		repos, err := mongodb.NewRepositoryProvider(ctx, client, cfg.MongoDatabase, cfg.DBOperationTimeout, cfg.EnableDBCheck)
		if err != nil {
			closeFn()
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return repos, closeFn, nil

	case config.StoreDriverPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.DBOperationTimeout)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		closeFn := func() { database.ClosePgxPool(pool) }
		repos, err := pgsql.NewRepositoryProvider(ctx, pool, cfg.DBOperationTimeout, cfg.EnableDBCheck)
		if err != nil {
			closeFn()
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return repos, closeFn, nil

	default:
		log.Warn().Msg("Using the in-memory user store")
		return portsrepo.RepositoryProvider{UserRepo: memory.NewUserRepository()}, func() {}, nil
	}
}

func environment(cfg *config.Config) string {
	if cfg.IsProduction {
		return "production"
	}
	return "development"
}
