// Package main is the recall CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MordecaiM24/recall-sub000/internal/adapters/driven/config/file"
	"github.com/MordecaiM24/recall-sub000/internal/adapters/driven/embedding/ollama"
	"github.com/MordecaiM24/recall-sub000/internal/adapters/driven/embedding/openai"
	"github.com/MordecaiM24/recall-sub000/internal/adapters/driven/embedding/ratelimit"
	"github.com/MordecaiM24/recall-sub000/internal/adapters/driven/storage/sqlite"
	"github.com/MordecaiM24/recall-sub000/internal/adapters/driving/cli"
	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driven"
	"github.com/MordecaiM24/recall-sub000/internal/core/services"
	"github.com/MordecaiM24/recall-sub000/internal/postprocessors/chunker"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "recall: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	cfg, err := configStore.Load()
	if err != nil {
		return err
	}

	embedder, err := buildEmbedder(cfg.Embedder)
	if err != nil {
		return err
	}
	defer embedder.Close()

	store, err := sqlite.NewStore(cfg.DataDir, sqlite.Options{
		SchemaVersion: sqlite.DefaultSchemaVersion,
		Dimensions:    cfg.Embedder.Dimensions,
		Metric:        cfg.Metric,
	})
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer store.Close()

	windower, err := chunker.New(
		chunker.WithSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	)
	if err != nil {
		return err
	}

	svc := cli.Services{
		Ingestor:  services.NewIngestService(store, embedder, windower),
		Retriever: services.NewRetrievalService(store, embedder),
		Config:    cfg,
	}

	return cli.ExecuteContext(ctx, svc, version)
}

// buildEmbedder constructs the configured provider, wrapped with a
// rate limiter when one is configured.
func buildEmbedder(cfg domain.EmbedderConfig) (driven.Embedder, error) {
	var (
		embedder driven.Embedder
		err      error
	)

	switch cfg.Provider {
	case "", "ollama":
		embedder = ollama.NewEmbedder(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	case "openai":
		embedder, err = openai.NewEmbedder(openai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown embedding provider %q: %w", cfg.Provider, domain.ErrInvalidInput)
	}

	if cfg.RequestsPerSecond > 0 {
		embedder = ratelimit.Wrap(embedder, ratelimit.Config{
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
	}
	return embedder, nil
}
