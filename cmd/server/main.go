package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/markkent-max/schedease/config"
	"github.com/markkent-max/schedease/internal/api/handler"
	"github.com/markkent-max/schedease/internal/api/router"
	"github.com/markkent-max/schedease/internal/repository"
	"github.com/markkent-max/schedease/internal/service"
	"github.com/markkent-max/schedease/pkg/database"
	"github.com/markkent-max/schedease/pkg/jwt"
	"github.com/markkent-max/schedease/pkg/lock"
	applogger "github.com/markkent-max/schedease/pkg/logger"
	"github.com/markkent-max/schedease/pkg/redis"
)

func main() {
	cfg, err := config.Load(os.Getenv("SCHEDEASE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	// Redis is optional. Without it locks are process local, logout is
	// unavailable and rate limiting is off.
	var rdb *redis.Client
	var revoker handler.TokenRevoker
	var locker lock.Locker = lock.NewLocal(cfg.Scheduling.LockWait)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, running single instance", zap.Error(err))
			rdb = nil
		}
	}
	if rdb != nil {
		revoker = rdb
		locker = lock.NewDistributed(rdb, cfg.Scheduling.LockTTL, cfg.Scheduling.LockWait, logger)
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, locker, logger)
	h := handler.NewHandler(svc, revoker)

	engine, err := router.Setup(cfg, h, jwtMgr, rdb, logger)
	if err != nil {
		logger.Fatal("router setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("close database", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("stopped")
}
