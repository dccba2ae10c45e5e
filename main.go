package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/config"
	"marketplace-api/internal/database"
	market "marketplace-api/internal/marketService"
	model "marketplace-api/internal/models"
	"marketplace-api/internal/repository"
	"marketplace-api/internal/server"
	"marketplace-api/services/market/helpers"
	"marketplace-api/utils"
)

// demoUsers are seeded when SEED_DEMO_DATA is set; users are otherwise managed elsewhere
var demoUsers = []model.User{
	{ID: 1, Username: "alice", Email: "alice@example.com"},
	{ID: 2, Username: "bob", Email: "bob@example.com"},
	{ID: 3, Username: "carol", Email: "carol@example.com"},
	{ID: 4, Username: "admin", Email: "admin@example.com", Admin: true},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Warn("invalid log level, keeping info", map[string]any{"level": cfg.LogLevel})
	}

	bidPolicy, err := market.ParseBidPolicy(cfg.BidPolicy)
	if err != nil {
		utils.Fatal("invalid bid policy", map[string]any{"error": err.Error()})
	}

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"driver": cfg.StoreDriver, "error": err.Error()})
	}
	defer closeRepo()

	marketSvc := market.NewMarketService(repo, bidPolicy)
	gate := auth.NewGate(cfg.JWTSecret, repo)
	router := server.SetupRouter(marketSvc, gate, expandFromConfig(cfg))

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.Info("starting marketplace server", map[string]any{
			"addr":       srv.Addr,
			"store":      cfg.StoreDriver,
			"bid_policy": bidPolicy,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("server error", map[string]any{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Info("shutting down server", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Error("server forced to shutdown", map[string]any{"error": err.Error()})
	}
	utils.Info("server stopped gracefully", nil)
}

// openRepository builds the configured store and seeds demo users when asked
func openRepository(cfg *config.Config) (repository.MarketDB, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		repo := repository.NewMemoryRepo()
		if cfg.SeedDemoData {
			for _, u := range demoUsers {
				repo.AddUser(u)
			}
		}
		return repo, func() {}, nil
	}

	db, err := database.Connect(cfg.StoreDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewGormRepo(db)

	if cfg.SeedDemoData {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, u := range demoUsers {
			u := u
			if _, err := repo.GetUser(ctx, u.ID); err == nil {
				continue
			}
			if err := repo.AddUser(ctx, &u); err != nil {
				utils.Warn("failed to seed user", map[string]any{"username": u.Username, "error": err.Error()})
			}
		}
	}

	closeDB := func() {
		if err := database.Close(db); err != nil {
			utils.Error("failed to close database", map[string]any{"error": err.Error()})
		}
	}
	return repo, closeDB, nil
}

func expandFromConfig(cfg *config.Config) helpers.Expand {
	return helpers.Expand{
		Seller: cfg.ExpandSeller,
		Bids:   cfg.ExpandBids,
		Bidder: cfg.ExpandBidder,
		Email:  cfg.ExpandEmail,
	}
}
