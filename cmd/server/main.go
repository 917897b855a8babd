package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rdhub/internal/aggregate"
	"rdhub/internal/catalog"
	"rdhub/internal/equity"
	"rdhub/internal/jwtauth"
	"rdhub/internal/loader"
	"rdhub/internal/platform/config"
	"rdhub/internal/platform/httpserver"
	"rdhub/internal/platform/logger"
	platformpg "rdhub/internal/platform/postgres"
	platformredis "rdhub/internal/platform/redis"
	"rdhub/internal/query"
	"rdhub/internal/query/cache"
	"rdhub/internal/query/handler"
	"rdhub/internal/query/metrics"
	"rdhub/internal/registry"
	"rdhub/internal/trend"
	"rdhub/pkg/domain"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	reg := registry.New()
	cat := catalog.New()
	m := metrics.New()

	aggService, err := aggregate.New(reg, aggregate.WithLogger(log))
	if err != nil {
		log.Error("aggregate service init failed", "error", err)
		os.Exit(1)
	}
	eqService, err := equity.New(reg, equity.WithLogger(log))
	if err != nil {
		log.Error("equity service init failed", "error", err)
		os.Exit(1)
	}
	load, err := loader.New(reg, cat, loader.WithLogger(log))
	if err != nil {
		log.Error("loader init failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	var queryCache cache.Cache
	if redisClient != nil {
		queryCache = cache.NewRedis(redisClient.Client, cfg.Redis.CacheTTL)
		log.Info("using redis cache", "ttl", cfg.Redis.CacheTTL.String())
	} else {
		queryCache = cache.NewMemory()
		log.Info("using in-memory cache")
	}

	db, err := platformpg.Open(cfg.Postgres.DSN)
	if err != nil {
		log.Error("postgres init failed", "error", err)
		os.Exit(1)
	}

	queryOpts := []query.Option{
		query.WithCache(queryCache),
		query.WithLogger(log),
		query.WithMetrics(m),
	}
	if cfg.Data.FloorZero {
		queryOpts = append(queryOpts, query.WithProjectionPolicy(trend.Policy{FloorZero: true}))
	}
	queryService, err := query.New(reg, cat, aggService, eqService, queryOpts...)
	if err != nil {
		log.Error("query service init failed", "error", err)
		os.Exit(1)
	}

	reloader := &datasetReloader{loader: load, db: db, stagingTable: cfg.Postgres.StagingTable, metrics: m}

	holder := query.NewHolder(nil)
	if cfg.Data.CSVPath != "" {
		family, err := domain.ParseFamily(cfg.Data.Family)
		if err != nil {
			log.Error("invalid data family", "family", cfg.Data.Family, "error", err)
			os.Exit(1)
		}
		session, err := reloader.loadCSV(context.Background(), cfg.Data.CSVPath, family)
		if err != nil {
			log.Error("initial dataset load failed", "path", cfg.Data.CSVPath, "error", err)
			os.Exit(1)
		}
		holder.Swap(session)
		log.Info("initial dataset loaded",
			"path", cfg.Data.CSVPath,
			"family", family,
			"records", session.Frame().Len(),
			"rejections", len(session.Rejections()),
			"fingerprint", session.Frame().Fingerprint(),
		)
	}

	jwtService := jwtauth.New(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
	h := handler.New(queryService, holder, reg, cat, reloader, jwtauth.NewAdapter(jwtService), log)

	router := chi.NewRouter()
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting rdhub", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if db != nil {
		db.Close()
	}
}
