// Package recognition defines the contract with the external text/QR
// recognition backend and provides an HTTP client for it.
package recognition

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrRecognition wraps errors reported by the recognition backend.
	ErrRecognition = errors.New("recognition failed")

	// ErrInvalidOrientation is returned for orientation hints outside [1,8].
	ErrInvalidOrientation = errors.New("orientation must be between 1 and 8")

	// ErrNoLanguages is returned when the language list is empty.
	ErrNoLanguages = errors.New("at least one recognition language is required")
)

// Fragment is one recognized text span with its confidence score in [0,1].
type Fragment struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Result is the ordered sequence of fragments in the backend's native
// top-to-bottom, left-to-right order. The order is preserved into the final
// joined text; no sorting or dedup happens downstream.
type Result []Fragment

// TextOptions configures a text detection request.
type TextOptions struct {
	// Languages is the ordered, non-empty list of language tags.
	Languages []string

	// Orientation is an optional EXIF orientation hint; 0 means unset,
	// otherwise it must be in [1,8].
	Orientation int
}

// Validate checks the options; implementations call this before touching
// the backend so malformed arguments surface immediately.
func (o TextOptions) Validate() error {
	if len(o.Languages) == 0 {
		return ErrNoLanguages
	}
	if o.Orientation != 0 && (o.Orientation < 1 || o.Orientation > 8) {
		return fmt.Errorf("%w: got %d", ErrInvalidOrientation, o.Orientation)
	}
	return nil
}

// Gateway adapts a decoded image to the recognition backend. Calls are
// synchronous and side-effect free.
type Gateway interface {
	// DetectText runs text recognition and returns ranked fragments.
	DetectText(img image.Image, opts TextOptions) (Result, error)

	// DetectQRCodes extracts QR code payloads, possibly none.
	DetectQRCodes(img image.Image) ([]string, error)
}
