package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ellavondegurechaff/questline/questline"
	"github.com/ellavondegurechaff/questline/questline/clock"
	"github.com/ellavondegurechaff/questline/questline/database"
	"github.com/ellavondegurechaff/questline/questline/database/repositories"
	"github.com/ellavondegurechaff/questline/questline/logger"
	"github.com/ellavondegurechaff/questline/questline/services"
	"github.com/ellavondegurechaff/questline/questline/web"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Questline",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := questline.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbConfig := database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	}

	db, err := database.New(ctx, dbConfig)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully")

	bunDB := db.BunDB()
	questRepo := repositories.NewQuestRepository(bunDB)
	profileRepo := repositories.NewProfileRepository(bunDB)
	templateRepo := repositories.NewTemplateRepository(bunDB)
	challengeRepo := repositories.NewChallengeRepository(bunDB)

	txManager := database.NewTxManager(bunDB)
	clk := clock.System()

	questService := services.NewQuestService(questRepo, profileRepo, challengeRepo, clk, txManager)
	marketplaceService := services.NewMarketplaceService(templateRepo, profileRepo, questService, txManager)
	challengeService := services.NewChallengeService(challengeRepo, templateRepo, questService, clk, txManager)

	server := web.New(questService, marketplaceService, challengeService)

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8080"
	}

	g, gCtx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		slog.Info("HTTP server listening", slog.String("addr", addr))
		return server.Listen(addr)
	})
	g.Go(func() error {
		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-s:
			slog.Info("Shutting down...")
			return server.Shutdown()
		case <-gCtx.Done():
			return gCtx.Err()
		}
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server stopped", slog.Any("error", err))
		os.Exit(-1)
	}
}
