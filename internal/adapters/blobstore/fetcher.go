package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/blob-ocr/internal/config"
	"github.com/cp25sy5-modjot/blob-ocr/internal/domain"
)

// Fetcher downloads blobs from one container using a SAS token.
type Fetcher struct {
	client    *azblob.Client
	container string
	log       zerolog.Logger
}

type Option func(*azblob.ClientOptions)

// WithHTTPClient replaces the transport used by the SDK pipeline.
func WithHTTPClient(c *http.Client) Option {
	return func(o *azblob.ClientOptions) { o.Transport = c }
}

func NewFetcher(cfg config.Storage, log zerolog.Logger, opts ...Option) (*Fetcher, error) {
	serviceURL := strings.TrimRight(cfg.AccountURL, "/") + "/?" + strings.TrimLeft(cfg.SASToken, "?")

	co := &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			// a single attempt; failures surface to the caller as-is
			Retry: policy.RetryOptions{MaxRetries: -1},
		},
	}
	for _, opt := range opts {
		opt(co)
	}

	client, err := azblob.NewClientWithNoCredential(serviceURL, co)
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: %v", domain.ErrConfig, err))
	}

	return &Fetcher{
		client:    client,
		container: cfg.Container,
		log:       log.With().Str("component", "fetcher").Str("container", cfg.Container).Logger(),
	}, nil
}

// Fetch reads the whole blob into memory.
func (f *Fetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	start := time.Now()

	resp, err := f.client.DownloadStream(ctx, f.container, name, nil)
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: %s/%s: %v", domain.ErrFetch, f.container, name, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: read %s/%s: %v", domain.ErrFetch, f.container, name, err))
	}

	f.log.Debug().
		Str("blob", name).
		Int("bytes", len(data)).
		Dur("took", time.Since(start)).
		Msg("blob downloaded")

	return data, nil
}
