package enhance

import (
	"fmt"
	"image"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/cp25sy5-modjot/blob-ocr/internal/domain"
)

// Tuned pipeline parameters. Changing any of them changes the output bits.
const (
	scaleFactor = 2.0

	denoiseStrength = 12
	denoiseTemplate = 7
	denoiseSearch   = 21
	sharpenSigma    = 1.2
	sharpenWeight   = 1.7
	blurWeight      = -0.7
	thresholdMax    = 255
	thresholdBlock  = 31
	thresholdOffset = 10
)

// OpenCV turns a raw scan into a binarized PNG that OCR reads more reliably.
type OpenCV struct {
	log zerolog.Logger
}

func NewOpenCV(log zerolog.Logger) *OpenCV {
	return &OpenCV{log: log.With().Str("component", "enhancer").Logger()}
}

// Enhance upscales, denoises, sharpens and thresholds the image, then
// encodes it as PNG. No bytes are returned on error.
func (e *OpenCV) Enhance(raw []byte) ([]byte, error) {
	start := time.Now()

	pix, w, h, err := decodeBGR(raw)
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: %v", domain.ErrDecode, err))
	}
	if w == 0 || h == 0 {
		return nil, errors.WithStack(fmt.Errorf("%w: empty image", domain.ErrDecode))
	}

	src, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC3, pix)
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: %v", domain.ErrDecode, err))
	}
	defer src.Close()

	up := gocv.NewMat()
	defer up.Close()
	if err := gocv.Resize(src, &up, image.Point{}, scaleFactor, scaleFactor, gocv.InterpolationCubic); err != nil {
		return nil, stageError("upscale", err)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if err := gocv.CvtColor(up, &gray, gocv.ColorBGRToGray); err != nil {
		return nil, stageError("grayscale", err)
	}

	den := gocv.NewMat()
	defer den.Close()
	if err := gocv.FastNlMeansDenoisingWithParams(gray, &den, denoiseStrength, denoiseTemplate, denoiseSearch); err != nil {
		return nil, stageError("denoise", err)
	}

	blur := gocv.NewMat()
	defer blur.Close()
	if err := gocv.GaussianBlur(den, &blur, image.Point{}, sharpenSigma, 0, gocv.BorderDefault); err != nil {
		return nil, stageError("blur", err)
	}

	sharp := gocv.NewMat()
	defer sharp.Close()
	if err := gocv.AddWeighted(den, sharpenWeight, blur, blurWeight, 0, &sharp); err != nil {
		return nil, stageError("sharpen", err)
	}

	bin := gocv.NewMat()
	defer bin.Close()
	if err := gocv.AdaptiveThreshold(sharp, &bin, thresholdMax, gocv.AdaptiveThresholdGaussian,
		gocv.ThresholdBinary, thresholdBlock, thresholdOffset); err != nil {
		return nil, stageError("threshold", err)
	}
	if bin.Empty() {
		return nil, stageError("threshold", errors.New("empty result"))
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, bin)
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: %v", domain.ErrEncode, err))
	}
	defer buf.Close()

	// Copy out before buf.Close releases the native buffer.
	out := append([]byte(nil), buf.GetBytes()...)
	if len(out) == 0 {
		return nil, errors.WithStack(fmt.Errorf("%w: empty png", domain.ErrEncode))
	}

	e.log.Debug().
		Int("width", bin.Cols()).
		Int("height", bin.Rows()).
		Int("bytes", len(out)).
		Dur("took", time.Since(start)).
		Msg("image enhanced")

	return out, nil
}

func stageError(stage string, err error) error {
	return errors.WithStack(fmt.Errorf("%w: %s: %v", domain.ErrEnhance, stage, err))
}
