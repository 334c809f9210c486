// Package imaging loads screenshot and clipboard images into decoded form.
// Importing it registers decoders for the formats screen captures come in.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/corona10/goimagehash"
)

// ErrImageLoad marks bytes that could not be decoded as an image. The
// dispatcher skips such events without marking them seen, so a transient
// failure can be retried on a duplicate notification.
var ErrImageLoad = errors.New("failed to decode image")

// Decode decodes image bytes in any registered format.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrImageLoad)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	return img, nil
}

// LoadFile reads and decodes the image file at path. The raw bytes are
// returned alongside the decoded image so callers can hash the content.
func LoadFile(path string) (image.Image, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return img, data, nil
}

// PerceptualHash fingerprints a decoded image so repeated captures of the
// same screen collapse into one history record. Returns "" if the hash
// cannot be computed.
func PerceptualHash(img image.Image) string {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return ""
	}
	return hash.ToString()
}
