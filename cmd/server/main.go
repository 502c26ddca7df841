package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gullyscore/cricket-scoring-service/internal/config"
	"github.com/gullyscore/cricket-scoring-service/internal/handler"
	"github.com/gullyscore/cricket-scoring-service/internal/live"
	"github.com/gullyscore/cricket-scoring-service/internal/logger"
	"github.com/gullyscore/cricket-scoring-service/internal/observability"
	"github.com/gullyscore/cricket-scoring-service/internal/repository"
	"github.com/gullyscore/cricket-scoring-service/internal/repository/postgres"
	"github.com/gullyscore/cricket-scoring-service/internal/service"
)

func main() {
	// Load application config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(ctx, cfg, &appLogger)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer repo.Close()

	pool := repo.Pool()
	players := postgres.NewPlayerRepository(pool)
	matches := postgres.NewMatchRepository(pool)
	tx := postgres.NewTxManager(pool)
	pinger := postgres.NewPinger(pool)

	hub := live.NewHub(appLogger)
	metrics := observability.NewMetrics()

	playerSvc := service.NewPlayerService(players, appLogger)
	matchSvc := service.NewMatchService(matches, players, tx, hub, metrics, appLogger)

	if cfg.Logger.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler.Register(router, pinger, playerSvc, matchSvc, hub, metrics)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		appLogger.Info().Str("addr", srv.Addr).Msg("service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}
	appLogger.Info().Msg("service stopped")
}
