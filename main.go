package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jokeoa/goigaming/auth"
	"github.com/jokeoa/goigaming/config"
	"github.com/jokeoa/goigaming/poker"
	"github.com/jokeoa/goigaming/roulette"
	"github.com/jokeoa/goigaming/server"
	"github.com/jokeoa/goigaming/storage/postgres"
	"github.com/jokeoa/goigaming/storage/redis"
	"github.com/jokeoa/goigaming/user"
	"github.com/jokeoa/goigaming/wallet"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// Storage.
	userRepo := postgres.NewUserRepo(pool)
	walletRepo := postgres.NewWalletRepo(pool)
	walletTxm := postgres.NewWalletTxManager(pool)
	pokerTableRepo := postgres.NewPokerTableRepo(pool)
	pokerPlayerRepo := postgres.NewPokerPlayerRepo(pool)
	handRepo := postgres.NewHandRepo(pool)
	rouletteTableRepo := postgres.NewRouletteTableRepo(pool)
	rouletteRoundRepo := postgres.NewRouletteRoundRepo(pool)
	rouletteBetRepo := postgres.NewRouletteBetRepo(pool)
	snapshots := redis.NewSnapshotStore(redisClient)

	// Services.
	walletSvc := wallet.NewService(walletRepo, walletTxm, logger)
	authSvc := auth.NewService(userRepo, walletSvc, auth.Config{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, logger)
	userSvc := user.NewService(userRepo)

	wsHub := server.NewWSHub(logger)

	hubManager := poker.NewHubManager(poker.HubDeps{
		Broadcaster: wsHub,
		Players:     pokerPlayerRepo,
		Tables:      pokerTableRepo,
		Archive:     handRepo,
		Snapshots:   snapshots,
		Logger:      logger,
	}, poker.HubConfig{
		TurnTimeout: cfg.PokerTurnTimeout,
		HandGap:     cfg.PokerHandGap,
	}, logger)
	pokerSvc := poker.NewService(pokerTableRepo, pokerPlayerRepo, walletSvc, hubManager, snapshots, handRepo, logger)
	wsHub.BindActions(pokerSvc)

	rouletteSvc := roulette.NewService(rouletteTableRepo, rouletteRoundRepo, rouletteBetRepo, walletSvc, logger)
	rouletteEngine := roulette.NewEngine(rouletteRoundRepo, rouletteBetRepo, walletSvc, wsHub, logger, roulette.EngineConfig{
		BettingWindow: cfg.RouletteBettingWindow,
		RoundGap:      cfg.RouletteRoundGap,
	})

	// Resume round cycles for every active roulette table.
	rouletteTables, err := rouletteSvc.ListTables(ctx)
	if err != nil {
		return err
	}
	for _, table := range rouletteTables {
		rouletteEngine.StartTable(table)
	}

	router := server.NewRouter(server.Handlers{
		Auth:     server.NewAuthHandler(authSvc, userSvc),
		Wallet:   server.NewWalletHandler(walletSvc),
		Poker:    server.NewPokerHandler(pokerSvc),
		Roulette: server.NewRouletteHandler(rouletteSvc, rouletteEngine),
		WS:       wsHub,
		Tokens:   authSvc,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	rouletteEngine.Shutdown()
	hubManager.ShutdownAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
