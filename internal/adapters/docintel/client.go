package docintel

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/blob-ocr/internal/config"
	"github.com/cp25sy5-modjot/blob-ocr/internal/domain"
)

const (
	keyHeader     = "Ocp-Apim-Subscription-Key"
	moduleName    = "docintel"
	moduleVersion = "v0.1.0"
)

// Client runs analyze operations against Azure Document Intelligence.
type Client struct {
	endpoint     string
	model        string
	apiVersion   string
	pollInterval time.Duration
	pl           runtime.Pipeline
	log          zerolog.Logger
}

type Option func(*policy.ClientOptions)

// WithHTTPClient replaces the transport used by the pipeline.
func WithHTTPClient(c *http.Client) Option {
	return func(o *policy.ClientOptions) { o.Transport = c }
}

func NewClient(cfg config.DocIntel, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint:     strings.TrimRight(cfg.Endpoint, "/"),
		model:        cfg.Model,
		apiVersion:   cfg.APIVersion,
		pollInterval: cfg.PollInterval,
		log:          log.With().Str("component", "docintel").Str("model", cfg.Model).Logger(),
	}
	if c.model == "" {
		c.model = config.DefaultModel
	}
	if c.apiVersion == "" {
		c.apiVersion = config.DefaultAPIVersion
	}
	if c.pollInterval < config.MinPollInterval {
		c.pollInterval = config.DefaultPollInterval
	}

	co := &policy.ClientOptions{
		// a single attempt per request; service errors surface as-is
		Retry: policy.RetryOptions{MaxRetries: -1},
	}
	for _, opt := range opts {
		opt(co)
	}
	keyPolicy := runtime.NewKeyCredentialPolicy(azcore.NewKeyCredential(cfg.Key), keyHeader, nil)
	c.pl = runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{keyPolicy},
	}, co)

	return c
}

func (c *Client) Model() string { return c.model }

// ExtractText analyzes the image and flattens the recognized lines.
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	res, err := c.Analyze(ctx, image)
	if err != nil {
		return "", err
	}
	return domain.Flatten(res), nil
}

// Analyze submits the image and polls the operation until it finishes.
// There is no overall deadline beyond ctx.
func (c *Client) Analyze(ctx context.Context, image []byte) (*domain.AnalyzeResult, error) {
	start := time.Now()

	resp, err := c.submit(ctx, image)
	if err != nil {
		return nil, err
	}

	handler, err := newAnalyzePoller(c.pl, resp)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("operation", handler.opURL).Msg("analyze submitted")

	poller, err := runtime.NewPoller(resp, c.pl, &runtime.NewPollerOptions[domain.AnalyzeResult]{
		Handler: handler,
	})
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: %v", domain.ErrExtract, err))
	}

	res, err := poller.PollUntilDone(ctx, &runtime.PollUntilDoneOptions{Frequency: c.pollInterval})
	if err != nil {
		if errors.Is(err, domain.ErrExtract) {
			return nil, err
		}
		return nil, errors.WithStack(fmt.Errorf("%w: %v", domain.ErrExtract, err))
	}

	c.log.Debug().
		Int("pages", len(res.Pages)).
		Int("polls", handler.polls).
		Dur("took", time.Since(start)).
		Msg("analyze finished")
	return &res, nil
}

func (c *Client) analyzeURL() string {
	q := url.Values{}
	q.Set("api-version", c.apiVersion)
	return fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?%s",
		c.endpoint, url.PathEscape(c.model), q.Encode())
}

func (c *Client) submit(ctx context.Context, image []byte) (*http.Response, error) {
	req, err := runtime.NewRequest(ctx, http.MethodPost, c.analyzeURL())
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: %v", domain.ErrExtract, err))
	}
	if err := req.SetBody(streaming.NopCloser(bytes.NewReader(image)), "application/octet-stream"); err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: %v", domain.ErrExtract, err))
	}

	resp, err := c.pl.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("error connecting to document intelligence")
		return nil, errors.WithStack(fmt.Errorf("%w: submit: %v", domain.ErrExtract, err))
	}
	if !runtime.HasStatusCode(resp, http.StatusAccepted) {
		return nil, errors.WithStack(fmt.Errorf("%w: submit: %w", domain.ErrExtract, runtime.NewResponseError(resp)))
	}
	return resp, nil
}
