// Package main provides the entrypoint for the CragMatch API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cragmatch/cragmatch/internal/api"
	"github.com/cragmatch/cragmatch/internal/api/middleware"
	"github.com/cragmatch/cragmatch/internal/auth"
	"github.com/cragmatch/cragmatch/internal/catalog"
	"github.com/cragmatch/cragmatch/internal/config"
	"github.com/cragmatch/cragmatch/internal/database"
	"github.com/cragmatch/cragmatch/internal/events"
	"github.com/cragmatch/cragmatch/internal/importer"
	"github.com/cragmatch/cragmatch/internal/recommend"
	"github.com/cragmatch/cragmatch/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "cragmatch-api"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	if err := run(serviceName, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(serviceName string, log zerolog.Logger) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	log.Info().
		Str("build_time", BuildTime).
		Str("environment", cfg.Server.Environment).
		Msg("starting CragMatch API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, cfg.Telemetry, telemetry.Service{
		Name:        serviceName,
		Version:     Version,
		Environment: cfg.Server.Environment,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()
	if cfg.Telemetry.Enabled {
		log.Info().Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).Msg("OpenTelemetry initialized")
	}

	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		return err
	}
	recommendMetrics, err := recommend.NewMetrics()
	if err != nil {
		return err
	}

	store, err := database.OpenCatalog(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer store.Close()

	repo := catalog.NewResilientRepository(store.Repository, catalog.ResilienceConfig{
		Name:            "catalog-" + cfg.Database.Driver,
		MaxRetries:      cfg.Resilience.MaxRetries,
		InitialInterval: cfg.Resilience.InitialInterval,
		MaxInterval:     cfg.Resilience.MaxInterval,
		BreakerTimeout:  cfg.Resilience.BreakerTimeout,
		Logger:          log,
	})

	opts := []recommend.Option{
		recommend.WithDefaultCount(cfg.Recommend.Count),
		recommend.WithMetrics(recommendMetrics),
	}
	if cfg.Recommend.Seed != 0 {
		opts = append(opts, recommend.WithSeed(cfg.Recommend.Seed))
	}
	selector := recommend.NewSelector(repo, log, opts...)

	if err := selector.Retrain(ctx); err != nil {
		if errors.Is(err, recommend.ErrEmptyCatalog) {
			log.Warn().Msg("catalog is empty; recommendations unavailable until a catalog is imported")
		} else {
			log.Error().Err(err).Msg("initial training failed; recommendations unavailable until retrain")
		}
	}

	// Origin lets this instance ignore its own catalog change events.
	origin := uuid.NewString()

	var notifier importer.Notifier
	if cfg.PubSub.Enabled {
		publisher, err := events.NewPublisher(ctx, events.PublisherConfig{
			ProjectID: cfg.PubSub.ProjectID,
			Topic:     cfg.PubSub.Topic,
			Origin:    origin,
			Logger:    log,
		})
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := publisher.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close publisher")
			}
		}()
		notifier = publisher

		if cfg.PubSub.Subscription != "" {
			subscriber, err := events.NewSubscriber(ctx, events.SubscriberConfig{
				ProjectID:        cfg.PubSub.ProjectID,
				SubscriptionName: cfg.PubSub.Subscription,
				Origin:           origin,
				Retrainer:        selector,
				Logger:           log,
			})
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := subscriber.Close(); closeErr != nil {
					log.Error().Err(closeErr).Msg("failed to close subscriber")
				}
			}()

			go func() {
				if err := subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("catalog change subscriber stopped")
				}
			}()
		}
	}

	tokens := auth.NewJWTService(auth.JWTConfig{
		SigningKey: cfg.Auth.SigningKey,
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		TokenTTL:   cfg.Auth.TokenTTL,
	})
	if !tokens.Enabled() {
		log.Warn().Msg("no signing key configured; admin endpoints are disabled")
	}

	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   serviceName,
		Metrics:       httpMetrics,
		RequireTLS:    cfg.Server.RequireTLS,
		Catalog:       repo,
		Selector:      selector,
		Importer:      importer.New(repo, notifier, log),
		Tokens:        tokens,
		BreakerState:  func() string { return repo.State().String() },
		MinStyleCount: cfg.Recommend.MinStyleCount,
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
