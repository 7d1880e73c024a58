package ports

type ImageEnhancer interface {
	// Returns a binarized lossless rendition of the raw image.
	Enhance(raw []byte) ([]byte, error)
}
