package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ErrUnknownImage is returned when the data is not a supported image.
var ErrUnknownImage = errors.New("media: unsupported image data")

// ImageContentType reports the MIME type of an inline image (image/png,
// image/jpeg or image/gif) by decoding its header.
func ImageContentType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty", ErrUnknownImage)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnknownImage, err)
	}
	return "image/" + format, nil
}
