package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalog "github.com/FireRedDev/ebayklon/internal/catalogService"
	"github.com/FireRedDev/ebayklon/internal/config"
	"github.com/FireRedDev/ebayklon/internal/events"
	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/internal/repository"
	"github.com/FireRedDev/ebayklon/internal/repository/sqlstore"
	"github.com/FireRedDev/ebayklon/internal/server"
	"github.com/FireRedDev/ebayklon/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.Log.Level); err != nil {
		utils.Warn("invalid log level, keeping info", map[string]any{"level": cfg.Log.Level})
	}
	utils.Info("configuration loaded", map[string]any{"config": cfg.GetConfigString()})

	repo, closeRepo, err := openRepository(cfg.Storage)
	if err != nil {
		utils.Fatal("failed to open storage", map[string]any{"driver": cfg.Storage.Driver, "error": err.Error()})
	}
	defer closeRepo()

	publisher, closePublisher := events.FromConfig(cfg.Redis)
	defer func() {
		if err := closePublisher(); err != nil {
			utils.Warn("closing event publisher", map[string]any{"error": err.Error()})
		}
	}()

	router := server.SetupRouter(
		catalog.NewAuctionService(repo, publisher),
		catalog.NewOfferService(repo, repo, publisher),
		cfg.App.Name,
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		utils.Info("starting catalog backend", map[string]any{"addr": srv.Addr, "storage": cfg.Storage.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("catalog backend stopped", map[string]any{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Error("forced shutdown", map[string]any{"error": err.Error()})
		return
	}
	utils.Info("catalog backend stopped", nil)
}

// openRepository returns the configured CatalogDB and a func releasing it
func openRepository(cfg config.StorageConfig) (repository.CatalogDB, func(), error) {
	if cfg.Driver == "memory" {
		repo := repository.NewMemoryRepo()
		if cfg.Seed {
			seed(repo)
		}
		return repo, func() {}, nil
	}

	if err := sqlstore.Migrate(cfg); err != nil {
		return nil, nil, err
	}
	db, dialect, err := sqlstore.Open(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return sqlstore.NewRepo(db, dialect), func() { _ = db.Close() }, nil
}

// seed adds sample auctions and offers to the in-memory repo
func seed(repo *repository.MemoryRepo) {
	auctions := []struct {
		id          int64
		description string
	}{
		{1, "Spring Sale"},
		{2, "Vintage Cameras"},
		{3, "Garden Furniture"},
	}
	for _, a := range auctions {
		repo.AddAuction(a.id, a.description)
	}

	repo.AddOffer(4, 120, model.Int64(1))
	repo.AddOffer(5, 42, model.Int64(1))
	repo.AddOffer(6, 310.5, model.Int64(2))
	repo.AddOffer(7, 15, nil)
}
