package docintel

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/pkg/errors"

	"github.com/cp25sy5-modjot/blob-ocr/internal/domain"
)

// analyzePoller follows the Operation-Location of an accepted analyze
// request. It implements runtime.PollingHandler.
type analyzePoller struct {
	pl    runtime.Pipeline
	opURL string
	op    *AnalyzeOperation
	polls int
}

func newAnalyzePoller(pl runtime.Pipeline, resp *http.Response) (*analyzePoller, error) {
	loc := resp.Header.Get("Operation-Location")
	if loc == "" {
		return nil, errors.WithStack(fmt.Errorf("%w: submit: missing Operation-Location header", domain.ErrExtract))
	}
	return &analyzePoller{pl: pl, opURL: loc}, nil
}

func (p *analyzePoller) Done() bool {
	if p.op == nil {
		return false
	}
	switch p.op.Status {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

func (p *analyzePoller) Poll(ctx context.Context) (*http.Response, error) {
	req, err := runtime.NewRequest(ctx, http.MethodGet, p.opURL)
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: %v", domain.ErrExtract, err))
	}

	resp, err := p.pl.Do(req)
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: poll: %v", domain.ErrExtract, err))
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return nil, errors.WithStack(fmt.Errorf("%w: poll: %w", domain.ErrExtract, runtime.NewResponseError(resp)))
	}

	var op AnalyzeOperation
	if err := runtime.UnmarshalAsJSON(resp, &op); err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: decode poll response: %v", domain.ErrExtract, err))
	}
	p.op = &op
	p.polls++
	return resp, nil
}

func (p *analyzePoller) Result(ctx context.Context, out *domain.AnalyzeResult) error {
	switch {
	case p.op == nil:
		return errors.WithStack(fmt.Errorf("%w: operation was never polled", domain.ErrExtract))
	case p.op.Status == StatusSucceeded && p.op.Result == nil:
		return errors.WithStack(fmt.Errorf("%w: operation succeeded without a result", domain.ErrExtract))
	case p.op.Status == StatusSucceeded:
		*out = *p.op.Result
		return nil
	default:
		return errors.WithStack(fmt.Errorf("%w: analyze %s: %s", domain.ErrExtract, p.op.Status, p.op.Error))
	}
}
