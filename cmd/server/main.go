// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

// Package main is the entry point for the Clipframe server.
//
// Clipframe is a self-hosted video sharing backend: users upload clips
// to S3-compatible object storage, browse a public feed, and engage
// through views, likes, dislikes, and comments. Relational data lives
// in PostgreSQL; engagement state lives in a key-set store (Redis,
// BadgerDB, or in-process memory).
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered loading (defaults, YAML file,
//     environment variables)
//  2. Logging: zerolog, JSON or console format
//  3. PostgreSQL: pgx pool, optional migrations
//  4. Object storage: MinIO client, bucket ensured at startup
//  5. Engagement store: backend selected by ENGAGEMENT_STORE
//  6. HTTP server: Chi router under a suture supervision tree
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the server stops
// accepting connections, drains in-flight requests within the shutdown
// timeout, then closes the engagement store and database pool.
//
// # Example Usage
//
// Development with in-memory engagement state:
//
//	export POSTGRES_HOST=localhost
//	export S3_ENDPOINT=localhost:9000
//	export S3_ACCESS_KEY=minioadmin
//	export S3_SECRET_KEY=minioadmin
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export ENGAGEMENT_STORE=memory
//	./clipframe
//
// Production with Redis-backed engagement state:
//
//	export ENVIRONMENT=production
//	export DATABASE_URL=postgres://clipframe:...@db:5432/clipframe
//	export ENGAGEMENT_STORE=redis
//	export REDIS_ADDR=redis:6379
//	./clipframe
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/clipframe/internal/api"
	"github.com/tomtom215/clipframe/internal/auth"
	"github.com/tomtom215/clipframe/internal/config"
	"github.com/tomtom215/clipframe/internal/database"
	"github.com/tomtom215/clipframe/internal/engagement"
	"github.com/tomtom215/clipframe/internal/logging"
	"github.com/tomtom215/clipframe/internal/storage"
	"github.com/tomtom215/clipframe/internal/supervisor"
	"github.com/tomtom215/clipframe/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("engagement_store", cfg.Engagement.Store).
		Msg("Starting Clipframe")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	storeFactory, err := engagement.NewStoreFactory(ctx, engagement.StoreOptions{
		Type:          engagement.StoreType(cfg.Engagement.Store),
		RedisAddr:     cfg.Engagement.RedisAddr,
		RedisPassword: cfg.Engagement.RedisPassword,
		RedisDB:       cfg.Engagement.RedisDB,
		BadgerPath:    cfg.Engagement.BadgerPath,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize engagement store")
	}
	defer func() {
		if err := storeFactory.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing engagement store")
		}
	}()

	jwtManager, err := auth.NewJWTManager(cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	tracker := engagement.NewTracker(storeFactory.CreateStore())
	gate := engagement.NewAccessGate(jwtManager)
	engagementSvc := engagement.NewService(tracker, gate, db)

	handler := api.NewHandler(db, db, db, objects, engagementSvc, jwtManager, db, cfg)
	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager), api.NewChiMiddleware(cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Clipframe stopped gracefully")
}
