package usecase

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/cp25sy5-modjot/blob-ocr/internal/ports"
)

// Pipeline downloads one blob, enhances it and extracts its text.
type Pipeline struct {
	fetcher  ports.BlobFetcher
	enhancer ports.ImageEnhancer
	ocr      ports.DocumentAnalyzer
	out      io.Writer
}

func NewPipeline(f ports.BlobFetcher, e ports.ImageEnhancer, o ports.DocumentAnalyzer, out io.Writer) *Pipeline {
	return &Pipeline{fetcher: f, enhancer: e, ocr: o, out: out}
}

// Run processes the named blob and prints progress followed by the text.
// Nothing past the progress lines is printed when a step fails.
func (p *Pipeline) Run(ctx context.Context, blobName string) (string, error) {
	fmt.Fprintln(p.out, "Downloading blob:", blobName)
	raw, err := p.fetcher.Fetch(ctx, blobName)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(p.out, "Downloaded bytes:", len(raw))

	fmt.Fprintln(p.out, "Preprocessing image for better OCR...")
	cleaned, err := p.enhancer.Enhance(raw)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(p.out, "Preprocessed bytes:", len(cleaned))

	fmt.Fprintln(p.out, "Running Azure Document Intelligence OCR (model:", p.ocr.Model(), ") ...")
	text, err := p.ocr.ExtractText(ctx, cleaned)
	if err != nil {
		return "", err
	}

	fmt.Fprint(p.out, "\n===== FULL EXTRACTED TEXT =====\n\n")
	fmt.Fprintln(p.out, text)
	fmt.Fprint(p.out, "\n===== END =====\n\n")
	fmt.Fprintln(p.out, "Total characters:", utf8.RuneCountInString(text))

	return text, nil
}
