package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"careerhub-utils/internal/api/handlers"
	"careerhub-utils/internal/api/routes"
	"careerhub-utils/internal/backend"
	"careerhub-utils/internal/config"
	"careerhub-utils/internal/grpc/server"
	"careerhub-utils/internal/janitor"
	"careerhub-utils/internal/logging"
	"careerhub-utils/internal/mux"
	"careerhub-utils/internal/normalize"
	"careerhub-utils/internal/pipeline"
	"careerhub-utils/internal/savedjobs"
	"careerhub-utils/internal/sidebar"
	"careerhub-utils/internal/signedurl"
	"careerhub-utils/pkg/utils"
)

func main() {
	started := time.Now()
	configPath := utils.GetStringOrDefault(os.Getenv("CONFIG_PATH"), "configs/config.yaml")

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()
	logger := logging.GetGlobalLogger()
	logger.Info("Starting CareerHub saved jobs service", map[string]interface{}{
		"backend":       cfg.Backend.BaseURL,
		"signed_url":    cfg.SignedURL.Source,
		"cache_backend": cfg.SignedURL.CacheBackend,
	})

	client := backend.NewClient(cfg, logger)

	cache, memCache, redisCache, err := buildCache(cfg)
	if err != nil {
		logger.Fatal("Failed to create signed URL cache", map[string]interface{}{"error": err.Error()})
	}
	signer, err := buildSigner(cfg, client)
	if err != nil {
		logger.Fatal("Failed to create signed URL signer", map[string]interface{}{"error": err.Error()})
	}
	resolver := signedurl.NewResolver(cache, signer, signedurl.Options{
		Bucket:        cfg.SignedURL.Bucket,
		TTL:           cfg.SignedURL.TTL,
		KeyPrefix:     cfg.SignedURL.KeyPrefix,
		MaxConcurrent: cfg.SignedURL.MaxConcurrent,
		Timeout:       cfg.Backend.Timeout,
	}, logger)

	normalizer := normalize.New(float64(cfg.Pipeline.DefaultMatchPercentage))
	store := savedjobs.NewStore(savedjobs.Deps{
		Backend:           client,
		Resolver:          resolver,
		Normalizer:        normalizer,
		Pipeline:          pipeline.New(cfg.Pipeline.PageSize, cfg.Pipeline.Locale),
		ClosingSoonWindow: cfg.Pipeline.ClosingSoonWindow,
		Logger:            logger,
	}, cfg.Sessions.IdleTTL)
	sidebarService := sidebar.NewService(client, normalizer, cfg.Sidebar.Limit, logger)

	// Periodic sweeps
	tasks := []janitor.Task{{Name: "sessions", Run: store.Sweep}}
	if memCache != nil {
		tasks = append(tasks, janitor.Task{Name: "signed_urls", Run: memCache.SweepNow})
	}
	sweeper := janitor.New(cfg.Janitor.Schedule, logger, tasks...)
	if cfg.Janitor.Enabled {
		if err := sweeper.Start(); err != nil {
			logger.Fatal("Failed to start janitor", map[string]interface{}{"error": err.Error()})
		}
	}

	grpcServer := server.NewServer(logger, nil)

	checks := map[string]handlers.Check{}
	if redisCache != nil {
		checks["redis"] = redisCache.Ping
		defer redisCache.Close()
	}
	if cfg.Janitor.Enabled {
		checks["janitor"] = func(context.Context) error {
			if !sweeper.IsRunning() {
				return fmt.Errorf("janitor stopped")
			}
			return nil
		}
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	routes.SetupRoutes(e, cfg, routes.Deps{
		Store:    store,
		Sidebar:  sidebarService,
		Skills:   client,
		Resolver: resolver,
		Checks:   checks,
		Status: func() map[string]string {
			status := grpcServer.Metrics().Summary()
			status["sessions"] = strconv.Itoa(store.Len())
			status["uptime"] = utils.FormatDuration(time.Since(started))
			stats := sweeper.Stats()
			status["janitor_runs"] = strconv.FormatInt(stats.Runs, 10)
			if memCache != nil {
				status["signed_url_cache"] = strconv.Itoa(memCache.Len())
			}
			return status
		},
	})

	m := mux.NewMultiplexer(cfg, grpcServer, e, logger)
	if err := m.Start(cfg.Address()); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	grpcServer.SetServing(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := sweeper.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping janitor", map[string]interface{}{"error": err.Error()})
	}
	if err := m.Stop(); err != nil {
		logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Server shutdown complete")
}

// buildCache returns the configured cache plus the concrete instance so the
// caller can sweep or ping it.
func buildCache(cfg *config.Config) (signedurl.Cache, *signedurl.MemoryCache, *signedurl.RedisCache, error) {
	if cfg.SignedURL.CacheBackend == "redis" {
		rc, err := signedurl.NewRedisCache(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		return rc, nil, rc, nil
	}
	mc := signedurl.NewMemoryCache()
	return mc, mc, nil, nil
}

func buildSigner(cfg *config.Config, client *backend.Client) (signedurl.Signer, error) {
	if cfg.SignedURL.Source == "s3" {
		return signedurl.NewS3Signer(cfg, cfg.SignedURL.TTL+cfg.SignedURL.TTL/10)
	}
	return signedurl.NewBackendSigner(client), nil
}
