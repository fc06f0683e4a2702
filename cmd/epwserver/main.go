package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/nsrdb-epw-service/internal/adapter/httpadapter"
	"github.com/couchcryptid/nsrdb-epw-service/internal/adapter/mapbox"
	"github.com/couchcryptid/nsrdb-epw-service/internal/adapter/nsrdb"
	"github.com/couchcryptid/nsrdb-epw-service/internal/config"
	"github.com/couchcryptid/nsrdb-epw-service/internal/credential"
	"github.com/couchcryptid/nsrdb-epw-service/internal/domain"
	"github.com/couchcryptid/nsrdb-epw-service/internal/observability"
	"github.com/couchcryptid/nsrdb-epw-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	apiKey, from, err := credential.Resolve(credential.DefaultChain("", cfg.SecretsDir, cfg.APIKeyFile, cfg.DotenvPath)...)
	if err != nil {
		logger.Error("no NSRDB API key configured", "error", err)
		os.Exit(1)
	}
	logger.Info("api key loaded", "source", from, "fingerprint", credential.Fingerprint(apiKey))

	// Geocoding is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		geocoder = mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		logger.Info("mapbox geocoding enabled", "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	client := nsrdb.NewClient(cfg.NSRDBAggregatedURL, cfg.NSRDBTypicalURL, cfg.NSRDBTimeout, logger, metrics)
	transformer := pipeline.NewTransformer(geocoder, logger, metrics)
	loader := pipeline.NewFileLoader(cfg.OutputDir)

	p := pipeline.New(client, transformer, loader, logger, metrics)

	defaults := httpadapter.Defaults{
		Attributes:  cfg.Attributes,
		FullName:    cfg.FullName,
		Email:       cfg.Email,
		Affiliation: cfg.Affiliation,
		Reason:      cfg.Reason,
		MailingList: cfg.MailingList,
		APIKey:      apiKey,
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, defaults, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
