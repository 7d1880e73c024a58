package enhance

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/cp25sy5-modjot/blob-ocr/internal/domain"
)

// scan draws dark strokes on an unevenly lit page.
func scan(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bg := uint8(170 + 60*x/w)
			c := color.NRGBA{R: bg, G: bg - 5, B: bg - 10, A: 255}
			if (x/4)%3 == 0 && y > h/4 && y < 3*h/4 {
				c = color.NRGBA{R: 30, G: 25, B: 20, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newEnhancer() *OpenCV {
	return NewOpenCV(zerolog.Nop())
}

func TestEnhance_DoublesSizeAndBinarizes(t *testing.T) {
	raw := encodePNG(t, scan(37, 21))

	out, err := newEnhancer().Enhance(raw)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	gray, ok := decoded.(*image.Gray)
	require.True(t, ok, "expected single channel output, got %T", decoded)
	assert.Equal(t, 74, gray.Bounds().Dx())
	assert.Equal(t, 42, gray.Bounds().Dy())

	seen := map[uint8]bool{}
	for _, v := range gray.Pix {
		seen[v] = true
		if v != 0 && v != 255 {
			t.Fatalf("pixel value %d is not binary", v)
		}
	}
	assert.True(t, seen[0] && seen[255], "expected both black and white pixels")
}

func TestEnhance_Deterministic(t *testing.T) {
	raw := encodePNG(t, scan(40, 30))
	e := newEnhancer()

	a, err := e.Enhance(raw)
	require.NoError(t, err)
	b, err := e.Enhance(raw)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEnhance_ReencodeIsIdentical(t *testing.T) {
	out, err := newEnhancer().Enhance(encodePNG(t, scan(32, 24)))
	require.NoError(t, err)

	m, err := gocv.IMDecode(out, gocv.IMReadUnchanged)
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, 1, m.Channels())

	buf, err := gocv.IMEncode(gocv.PNGFileExt, m)
	require.NoError(t, err)
	defer buf.Close()

	assert.Equal(t, out, append([]byte(nil), buf.GetBytes()...))
}

func TestEnhance_AcceptsOtherFormatsAndChannels(t *testing.T) {
	src := scan(30, 20)

	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, src, &jpeg.Options{Quality: 90}))

	gray := image.NewGray(src.Bounds())
	for y := 0; y < 20; y++ {
		for x := 0; x < 30; x++ {
			gray.Set(x, y, src.At(x, y))
		}
	}

	translucent := scan(30, 20)
	for i := 3; i < len(translucent.Pix); i += 4 {
		translucent.Pix[i] = 128
	}

	inputs := map[string][]byte{
		"jpeg":  jpg.Bytes(),
		"gray":  encodePNG(t, gray),
		"alpha": encodePNG(t, translucent),
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			out, err := newEnhancer().Enhance(raw)
			require.NoError(t, err)

			cfg, err := png.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, 60, cfg.Width)
			assert.Equal(t, 40, cfg.Height)
			assert.Equal(t, color.GrayModel, cfg.ColorModel)
		})
	}
}

func TestEnhance_UndecodableInput(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte("definitely not an image"), {0x89, 'P', 'N', 'G'}} {
		out, err := newEnhancer().Enhance(raw)
		assert.ErrorIs(t, err, domain.ErrDecode)
		assert.Nil(t, out)
	}
}

func TestDecodeBGR_DropsAlphaAndSwapsOrder(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	pix, w, h, err := decodeBGR(encodePNG(t, img))
	require.NoError(t, err)
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, h)
	assert.Equal(t, []byte{30, 20, 10, 50, 100, 200}, pix)
}

func TestStageError_NamesStage(t *testing.T) {
	err := stageError("denoise", io.ErrUnexpectedEOF)

	assert.ErrorIs(t, err, domain.ErrEnhance)
	assert.NotErrorIs(t, err, domain.ErrEncode)
	assert.Contains(t, err.Error(), "denoise")
	assert.Contains(t, err.Error(), io.ErrUnexpectedEOF.Error())
}
