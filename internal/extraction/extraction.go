package extraction

import (
	"errors"

	"invoicescan/internal/records"
)

// ErrExtractionFailed wraps transport and model errors from the external
// completion API.
var ErrExtractionFailed = errors.New("extraction failed")

// ErrMalformedResponse wraps responses that cannot be parsed as JSON or do
// not carry the three expected collections.
var ErrMalformedResponse = errors.New("malformed model response")

// Extractor sends a rasterized document image to a multimodal model and
// returns the normalized record collections.
type Extractor interface {
	// ExtractRecords analyzes a PNG image of an invoice document.
	ExtractRecords(imageData []byte) (*records.Set, error)
	// Close releases client resources.
	Close() error
}
