package enhance

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decodeBGR decodes any registered raster format into packed 8-bit BGR
// pixels. Alpha is discarded, not composited.
func decodeBGR(raw []byte) (pix []byte, width, height int, err error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, err
	}

	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	pix = make([]byte, 0, width*height*3)

	switch m := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			row := m.Pix[y*m.Stride : y*m.Stride+width*4]
			for x := 0; x < len(row); x += 4 {
				pix = append(pix, row[x+2], row[x+1], row[x])
			}
		}
	case *image.Gray:
		for y := 0; y < height; y++ {
			for _, v := range m.Pix[y*m.Stride : y*m.Stride+width] {
				pix = append(pix, v, v, v)
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				pix = append(pix, c.B, c.G, c.R)
			}
		}
	}
	return pix, width, height, nil
}
