package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freecode/internal/api"
	"freecode/internal/app/service"
	"freecode/internal/common/security"
	"freecode/internal/domain/model"
	"freecode/internal/domain/repository"
	"freecode/internal/judge"
	"freecode/internal/platform/cache"
	"freecode/internal/platform/config"
	"freecode/internal/platform/database"
	"freecode/internal/platform/docstore"
	"freecode/internal/platform/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration and logging
	if err := config.Load(); err != nil {
		return err
	}
	cfg := config.AppConfig
	logger := logging.Setup(cfg.LogDebug, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Tokens
	tokens, err := security.NewTokenService(cfg.JWTKey, security.WithTTL(cfg.JWTTTL))
	if err != nil {
		return err
	}

	// 3. User store
	userRepo, closeStore, err := openUserStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// 4. Execution history
	var jobRepo repository.ExecutionJobRepository
	if cfg.StoreDriver == config.StoreDriverMemory {
		jobRepo = repository.NewMemoryExecutionJobRepository(cfg.ResultHistoryLen)
	} else {
		rdb, err := cache.Connect(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return err
		}
		defer cache.Close(rdb)
		jobRepo = repository.NewRedisExecutionJobRepository(rdb, cfg.ResultHistoryLen, cfg.ResultHistoryTTL)
	}

	// 5. Services
	judgeClient := judge.NewClient(cfg.JudgeURL, judge.WithLogger(logger))
	problemService := service.NewProblemService(model.Catalog())
	authService := service.NewAuthService(userRepo, tokens)
	execService := service.NewExecutionJobService(judgeClient, jobRepo, problemService)

	// 6. Router & HTTP server
	router := api.NewRouter(api.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRatePerSec: cfg.AuthRatePerSec,
		AuthRateBurst:  cfg.AuthRateBurst,
	}, tokens, authService, problemService, execService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "port", cfg.APIPort, "store", cfg.StoreDriver, "judge", cfg.JudgeURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen on %s: %w", cfg.APIPort, err)
		}
		close(errCh)
	}()

	// 7. Graceful shutdown
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("Server stopped gracefully")
	return nil
}

func openUserStore(ctx context.Context, cfg *config.Config) (repository.UserRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.Connect(ctx, cfg.DBConnStr)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			database.Close(db)
			return nil, nil, err
		}
		return repository.NewPgUserRepository(db), func() { database.Close(db) }, nil

	case config.StoreDriverMongo:
		cli, err := docstore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		coll := cli.Database(cfg.MongoDB).Collection(cfg.MongoCollection)
		if err := repository.EnsureUserIndexes(ctx, coll); err != nil {
			docstore.Disconnect(cli)
			return nil, nil, err
		}
		return repository.NewMongoUserRepository(coll), func() { docstore.Disconnect(cli) }, nil

	case config.StoreDriverMemory:
		slog.Warn("Using in-memory user store; users are lost on restart")
		return repository.NewMemoryUserRepository(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
