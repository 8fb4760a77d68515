package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sagarc03/gallery"
	"github.com/sagarc03/gallery/config"
	"github.com/sagarc03/gallery/database"
	galleryhttp "github.com/sagarc03/gallery/http"
	"github.com/sagarc03/gallery/objectstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the gallery HTTP server.

The metadata table must exist; create it with "gallery init" first
when using DynamoDB.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 3000, "HTTP server port (env: PORT)")
	serveCmd.Flags().String("driver", "", "object store driver: s3, minio")
	serveCmd.Flags().String("bucket", "", "bucket name (env: S3_BUCKET)")
	serveCmd.Flags().String("region", "", "bucket region (env: S3_REGION)")
	serveCmd.Flags().String("endpoint", "", "object store endpoint override")
	serveCmd.Flags().String("prefix", "", "upload key prefix (env: S3_UPLOAD_PREFIX)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := objectstore.New(ctx, cfg.Storage.Config)
	if err != nil {
		return fmt.Errorf("create object store: %w", err)
	}

	repo, closeDB, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()

	service, err := gallery.NewGalleryService(repo, store, cfg.ServiceConfig())
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	handler := galleryhttp.NewHandler(&galleryhttp.HandlerConfig{
		Title:     cfg.Server.Title,
		BucketURL: store.BucketURL(),
		CORS:      cfg.CORS,
	}, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("config",
		"driver", cfg.Storage.Driver,
		"bucket", cfg.Storage.Bucket,
		"region", cfg.Storage.Region,
		"upload_prefix", cfg.Storage.UploadPrefix,
		"database", cfg.Database.Type,
		"table", cfg.Database.Table,
		"database_region", cfg.Database.Region,
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		<-ctx.Done()

		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	eg.Go(func() error {
		slog.Info("starting server", "addr", addr)
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		slog.Error("server exited with error", "err", err)
		return err
	}

	slog.Info("server stopped")
	return nil
}
