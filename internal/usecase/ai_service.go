package usecase

import (
	"context"
	"errors"
	"strings"

	aiwpb "github.com/cp25sy5-modjot/proto/gen/ai/v2"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cp25sy5-modjot/blob-ocr/internal/domain"
	"github.com/cp25sy5-modjot/blob-ocr/internal/ports"
)

// AIService serves ExtractTextFromImage with the same enhance-then-OCR
// steps as the one-shot run. The transaction RPCs stay unimplemented.
type AIService struct {
	aiwpb.UnimplementedAiWrapperServiceServer
	enhancer ports.ImageEnhancer
	ocr      ports.OCRPort
	log      zerolog.Logger

	ocrSem chan struct{} // limit OCR concurrency
}

func NewAIService(enhancer ports.ImageEnhancer, ocr ports.OCRPort, log zerolog.Logger) *AIService {
	return &AIService{
		enhancer: enhancer,
		ocr:      ocr,
		log:      log,
		ocrSem:   make(chan struct{}, 3),
	}
}

func (s *AIService) Check(ctx context.Context, req *aiwpb.HealthCheckRequest) (*aiwpb.HealthCheckResponse, error) {
	s.log.Debug().Str("name", req.GetName()).Msg("health check requested")

	name := strings.TrimSpace(req.GetName())
	if name == "" {
		name = "blob-ocr"
	}

	return &aiwpb.HealthCheckResponse{
		Healthy: true,
		Message: "OK: " + name,
	}, nil
}

func (s *AIService) ExtractTextFromImage(ctx context.Context, req *aiwpb.ExtractTextRequest) (*aiwpb.ExtractTextResponse, error) {
	if len(req.GetImageData()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "image_data is empty")
	}

	cleaned, err := s.enhancer.Enhance(req.GetImageData())
	if err != nil {
		s.log.Warn().Err(err).Msg("enhance failed")
		if errors.Is(err, domain.ErrDecode) {
			return nil, status.Errorf(codes.InvalidArgument, "image_data is not a decodable image: %v", err)
		}
		return nil, status.Errorf(codes.Internal, "enhance failed: %v", err)
	}

	txt, err := s.runOCR(ctx, cleaned)
	if err != nil {
		return nil, err
	}

	return &aiwpb.ExtractTextResponse{ExtractedText: txt}, nil
}

func (s *AIService) runOCR(ctx context.Context, img []byte) (string, error) {
	select {
	case s.ocrSem <- struct{}{}:
	case <-ctx.Done():
		return "", status.FromContextError(ctx.Err()).Err()
	}
	defer func() { <-s.ocrSem }()

	txt, err := s.ocr.ExtractText(ctx, img)
	if err != nil {
		s.log.Error().Stack().Err(err).Msg("ocr failed")

		// OCR is external infrastructure
		return "", status.Errorf(codes.Unavailable, "ocr failed: %v", err)
	}

	return txt, nil
}
