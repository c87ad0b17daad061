package main

import (
	"context"

	"github.com/techjourney/folio/config"
	"github.com/techjourney/folio/routes"
	"github.com/techjourney/folio/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	utils.InitSettings(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := routes.NewSessionStore(ctx, cfg)
	if err != nil {
		utils.Sugar.Fatalf("session store: %v", err)
	}
	r := routes.SetupRouter(cfg, store, routes.NewAPIClient(cfg, store))

	srv := utils.NewServer(":"+cfg.AppPort, r)
	srv.OnShutdown(func(context.Context) { cancel() })

	utils.Sugar.Infof("Starting server on port %s (graceful), api %s, sessions %s", cfg.AppPort, cfg.APIBaseURL, cfg.SessionBackend)
	if err := srv.ListenAndServe(); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
