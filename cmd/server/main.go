// Package main is the entry point for the plateyard catalog API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plateyard/internal/domain/plate"
	v1 "plateyard/internal/infrastructure/http/v1"
	"plateyard/internal/infrastructure/storage/memory"
	"plateyard/internal/infrastructure/storage/postgres"
	"plateyard/internal/infrastructure/storage/postgres/plate_repo"
	"plateyard/migrations"
	"plateyard/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	log.Info("starting plateyard catalog server")

	var (
		store plate.Store
		pool  *postgres.Pool
	)

	switch getEnv("STORE", "postgres") {
	case "memory":
		// In-memory mode for local development without a database.
		store = memory.NewPlateStore()
		log.Info("using in-memory plate store")
	default:
		dsn := mustEnv("DATABASE_URL")
		pool, err = postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		if err := postgres.Migrate(ctx, pool, migrations.FS); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}

		store = plate_repo.NewPlateRepo(postgres.NewTxManager(pool))
	}

	service := plate.NewService(store)

	router := v1.NewRouter(v1.RouterConfig{
		Service: service,
		Pool:    pool,
		Logger:  log,
	})

	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
