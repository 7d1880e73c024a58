// Package app wires configuration and adapters for the one-shot run.
package app

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/blob-ocr/internal/adapters/blobstore"
	"github.com/cp25sy5-modjot/blob-ocr/internal/adapters/docintel"
	"github.com/cp25sy5-modjot/blob-ocr/internal/adapters/enhance"
	"github.com/cp25sy5-modjot/blob-ocr/internal/config"
	"github.com/cp25sy5-modjot/blob-ocr/internal/ports"
	"github.com/cp25sy5-modjot/blob-ocr/internal/usecase"
)

// Factory builds the adapters once configuration is known.
type Factory struct {
	NewFetcher  func(config.Storage, zerolog.Logger) (ports.BlobFetcher, error)
	NewEnhancer func(zerolog.Logger) ports.ImageEnhancer
	NewAnalyzer func(config.DocIntel, zerolog.Logger) ports.DocumentAnalyzer
}

// DefaultFactory returns the Azure and OpenCV adapters.
func DefaultFactory() Factory {
	return Factory{
		NewFetcher: func(cfg config.Storage, log zerolog.Logger) (ports.BlobFetcher, error) {
			return blobstore.NewFetcher(cfg, log)
		},
		NewEnhancer: func(log zerolog.Logger) ports.ImageEnhancer {
			return enhance.NewOpenCV(log)
		},
		NewAnalyzer: func(cfg config.DocIntel, log zerolog.Logger) ports.DocumentAnalyzer {
			return docintel.NewClient(cfg, log)
		},
	}
}

// Run loads the configuration, then downloads, enhances and reads the
// configured blob. A configuration error returns before any adapter exists.
func Run(ctx context.Context, lookup config.LookupFunc, f Factory, out io.Writer, log zerolog.Logger) (string, error) {
	cfg, err := config.Load(lookup)
	if err != nil {
		return "", err
	}
	return RunWith(ctx, cfg, f, out, log)
}

// RunWith is Run for an already loaded configuration.
func RunWith(ctx context.Context, cfg config.Config, f Factory, out io.Writer, log zerolog.Logger) (string, error) {
	fetcher, err := f.NewFetcher(cfg.Storage, log)
	if err != nil {
		return "", err
	}
	p := usecase.NewPipeline(fetcher, f.NewEnhancer(log), f.NewAnalyzer(cfg.DocIntel, log), out)
	return p.Run(ctx, cfg.Storage.BlobName)
}
