package main

import (
	"context"
	"net/http"
	"os"

	"github.com/avelarsoto/gallery-backend/api/routes"
	"github.com/avelarsoto/gallery-backend/internal/gallery"
	"github.com/avelarsoto/gallery-backend/internal/uploads"
	"github.com/avelarsoto/gallery-backend/pkg/config"
	"github.com/avelarsoto/gallery-backend/pkg/db"
	"github.com/avelarsoto/gallery-backend/pkg/logger"
	"github.com/avelarsoto/gallery-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	uploadStore, err := uploads.NewService(cfg.Uploads.Root, cfg.Uploads.MaxUploadBytes())
	if err != nil {
		logg.Error(context.Background(), "failed to create upload store", err)
		os.Exit(1)
	}

	galleryService, err := gallery.NewService(
		gallery.NewRepository(dbClient.DB()),
		uploadStore,
		cfg.Identity.ActingUserID,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create gallery service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, galleryService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
