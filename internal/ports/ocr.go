package ports

import (
	"context"

	"github.com/cp25sy5-modjot/blob-ocr/internal/domain"
)

type OCRPort interface {
	// Returns extracted text from image bytes (expects valid image formats).
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// DocumentAnalyzer exposes the structured result behind ExtractText.
type DocumentAnalyzer interface {
	OCRPort
	Analyze(ctx context.Context, image []byte) (*domain.AnalyzeResult, error)
	Model() string
}
