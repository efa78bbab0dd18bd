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
	log "github.com/sirupsen/logrus"

	"lg/fastfood-nutrition-api/internal/catalog"
	"lg/fastfood-nutrition-api/internal/config"
	"lg/fastfood-nutrition-api/internal/metrics"
)

// setupLogging applies the configured level and formatter to the standard logger.
func setupLogging(cfg config.LoggingConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.WithField("level", cfg.Level).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	setupLogging(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := getDBPool(ctx, cfg.Database.URL)
	if err != nil {
		log.WithError(err).Fatal("unable to connect to database")
	}
	defer pool.Close()
	log.Info("DB pool ready")

	h := &Handler{db: pool, calc: newCalculator()}

	cacheOpts := []catalog.Option{}
	if cfg.Redis.Address != "" {
		rdb := catalog.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		if err := catalog.Ping(ctx, rdb); err != nil {
			log.WithError(err).Warn("redis unavailable, search cache stays local")
		} else {
			cacheOpts = append(cacheOpts, catalog.WithSharedStore(
				catalog.NewRedisStore(rdb, cfg.Catalog.RedisKey, cfg.Catalog.RefreshInterval)))
			log.WithField("addr", cfg.Redis.Address).Info("search cache shared through redis")
		}
	}
	h.catalog = catalog.NewCache(catalog.LoaderFunc(h.loadSearchItems), cfg.Catalog.RefreshInterval, cacheOpts...)
	if err := h.catalog.Refresh(ctx); err != nil {
		// Not fatal: the first search request retries the load.
		log.WithError(err).Warn("initial catalog load failed")
	}

	if cfg.Metrics.Enabled {
		metrics.Register()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), corsMiddleware(cfg.CORS.AllowedOrigins))
	router.SetTrustedProxies(nil)
	h.registerRoutes(router, cfg.Metrics.Enabled)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
