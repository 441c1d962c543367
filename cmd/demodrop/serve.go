package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kavya-builds/demodrop/internal/api"
	"github.com/kavya-builds/demodrop/internal/api/handlers"
	"github.com/kavya-builds/demodrop/internal/assets"
	"github.com/kavya-builds/demodrop/internal/config"
	"github.com/kavya-builds/demodrop/internal/ingest"
	"github.com/kavya-builds/demodrop/internal/repositories"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the submission server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.Envs)
		},
	}
}

func serve(cfg config.Config) error {
	if err := os.MkdirAll(cfg.DataDir, os.ModePerm); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	repo, err := repositories.Open(filepath.Join(cfg.DataDir, "demodrop.db"))
	if err != nil {
		return err
	}
	defer repo.Close()

	store, err := buildAssetStore(cfg)
	if err != nil {
		return err
	}

	ingestor := ingest.New(repo, store)

	h, err := handlers.New(repo, store, ingestor, cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.NewRouter(h, cfg),
		// Generous body timeouts: submissions and archive downloads move
		// full album audio; the header timeout still cuts off idle clients.
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Starting demodrop server on port: %s", cfg.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
	}
	return nil
}

func buildAssetStore(cfg config.Config) (assets.Store, error) {
	switch cfg.AssetBackend {
	case "", "disk":
		if err := os.MkdirAll(cfg.UploadsDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("create uploads dir: %w", err)
		}
		return assets.NewDiskStore(cfg.UploadsDir), nil
	case "s3":
		s3cfg := cfg.S3
		return assets.NewS3Store(
			s3cfg.AccessKeyID,
			s3cfg.SecretAccessKey,
			s3cfg.AccountID,
			s3cfg.BucketName,
			s3cfg.Region,
		), nil
	default:
		return nil, fmt.Errorf("unknown asset backend %q", cfg.AssetBackend)
	}
}
