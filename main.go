package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FireRedDev/ebayklon/internal/client"
	"github.com/FireRedDev/ebayklon/internal/config"
	"github.com/FireRedDev/ebayklon/internal/web"
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

	backend := client.New(cfg.Backend)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	if err := backend.Health(ctx); err != nil {
		utils.Warn("backend not reachable yet", map[string]any{"url": cfg.Backend.BaseURL, "error": err.Error()})
	}
	cancel()

	router := web.SetupRouter(web.NewStores(backend))

	srv := &http.Server{
		Addr:              cfg.Web.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		utils.Info("starting web client", map[string]any{"addr": srv.Addr, "backend": cfg.Backend.BaseURL})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("web client stopped", map[string]any{"error": err.Error()})
		}
	}()

	waitForShutdown(srv)
}

// waitForShutdown blocks until SIGINT or SIGTERM and drains open requests
func waitForShutdown(srv *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Error("forced shutdown", map[string]any{"error": err.Error()})
		return
	}
	utils.Info("web client stopped", nil)
}
