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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/warzonemc/mars-api/internal/config"
	"github.com/warzonemc/mars-api/internal/database"
	"github.com/warzonemc/mars-api/internal/handlers"
	"github.com/warzonemc/mars-api/internal/leaderboard"
	"github.com/warzonemc/mars-api/internal/models"
	"github.com/warzonemc/mars-api/internal/socket"
	"github.com/warzonemc/mars-api/internal/webhook"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mars-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.Options.MongoURL, logger)
	if err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	defer db.Disconnect(context.Background())

	rdb, err := database.ConnectRedis(ctx, cfg.Options.RedisHost, logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()

	playerCache := database.NewCache(rdb, db, db.Players, "player", func(p *models.Player) string { return p.ID })
	matchCache := database.NewCache(rdb, db, db.Matches, "match", func(m *models.Match) string { return m.ID })
	leaderboards := leaderboard.New(rdb, db.Players)

	webhooks := webhook.NewClient(
		cfg.Options.PunishmentsWebhookURL,
		cfg.Options.ReportsWebhookURL,
		cfg.Options.NotesWebhookURL,
		sugar,
	)

	apiHandler := handlers.New(handlers.Config{
		AppConfig:    cfg,
		DB:           db,
		Redis:        rdb,
		Players:      playerCache,
		Matches:      matchCache,
		Leaderboards: leaderboards,
		Webhooks:     webhooks,
		Logger:       logger,
	})

	socketState := &socket.State{
		DB:           db,
		Redis:        rdb,
		Players:      playerCache,
		Matches:      matchCache,
		Leaderboards: leaderboards,
		Logger:       sugar,
	}
	socketHandler := socket.NewHandler(socketState, cfg.Token)

	apiMux := http.NewServeMux()
	apiMux.Handle("/metrics", promhttp.Handler())
	apiMux.Handle("/", apiHandler.Routes())
	apiServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Options.Host, cfg.HTTPPort),
		Handler: apiMux,
	}

	wsMux := http.NewServeMux()
	socketHandler.Register(wsMux)
	wsServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Options.Host, cfg.WSPort),
		Handler: wsMux,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		sugar.Infow("HTTP listening", "addr", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		sugar.Infow("Socket listening", "addr", wsServer.Addr)
		if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("socket server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		apiServer.Shutdown(shutdownCtx)
		wsServer.Shutdown(shutdownCtx)
		return nil
	})

	return group.Wait()
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
