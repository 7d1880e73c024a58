package usecase

import (
	"context"

	"github.com/cp25sy5-modjot/blob-ocr/internal/domain"
)

type fakeFetcher struct {
	data  []byte
	err   error
	calls int
	names []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	f.calls++
	f.names = append(f.names, name)
	return f.data, f.err
}

type fakeEnhancer struct {
	out   []byte
	err   error
	calls int
	got   []byte
}

func (f *fakeEnhancer) Enhance(raw []byte) ([]byte, error) {
	f.calls++
	f.got = raw
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type fakeOCR struct {
	result *domain.AnalyzeResult
	err    error
	calls  int
	got    []byte
}

func (f *fakeOCR) Analyze(ctx context.Context, image []byte) (*domain.AnalyzeResult, error) {
	f.calls++
	f.got = image
	return f.result, f.err
}

func (f *fakeOCR) ExtractText(ctx context.Context, image []byte) (string, error) {
	res, err := f.Analyze(ctx, image)
	if err != nil {
		return "", err
	}
	return domain.Flatten(res), nil
}

func (f *fakeOCR) Model() string { return "prebuilt-read" }

func pages(ps ...[]string) *domain.AnalyzeResult {
	r := &domain.AnalyzeResult{}
	for _, p := range ps {
		var page domain.Page
		for _, l := range p {
			page.Lines = append(page.Lines, domain.Line{Content: l})
		}
		r.Pages = append(r.Pages, page)
	}
	return r
}
