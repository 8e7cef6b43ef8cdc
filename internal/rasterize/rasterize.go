package rasterize

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when an upload is neither a spreadsheet,
// a PDF, nor an image. Detection happens before any network call.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format is the dispatch class of an uploaded document.
type Format int

const (
	FormatUnknown Format = iota
	FormatSpreadsheet
	FormatPDF
	FormatImage
)

func (f Format) String() string {
	switch f {
	case FormatSpreadsheet:
		return "spreadsheet"
	case FormatPDF:
		return "pdf"
	case FormatImage:
		return "image"
	default:
		return "unknown"
	}
}

// DetectFormat classifies an upload by MIME type, falling back to the file
// extension for clients that send no or generic content types.
func DetectFormat(filename, contentType string) Format {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	ext := strings.ToLower(filepath.Ext(filename))

	switch mimeType {
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel":
		return FormatSpreadsheet
	case "application/pdf":
		return FormatPDF
	}
	if strings.HasPrefix(mimeType, "image/") {
		return FormatImage
	}

	switch ext {
	case ".xls", ".xlsx":
		return FormatSpreadsheet
	case ".pdf":
		return FormatPDF
	case ".png", ".jpg", ".jpeg", ".gif", ".heic", ".heif":
		return FormatImage
	}
	return FormatUnknown
}

// Rasterizer converts a supported upload into a single raster image.
type Rasterizer interface {
	// Rasterize produces one PNG for the given document or fails with
	// ErrUnsupportedFormat for anything it cannot handle.
	Rasterize(filename string, data []byte, contentType string) ([]byte, error)
}

// DocumentRasterizer is the production Rasterizer. Spreadsheets are laid
// out as a table and rendered through the PDF path, PDFs contribute their
// first page only, and images are normalized to PNG.
type DocumentRasterizer struct{}

// New creates a DocumentRasterizer.
func New() *DocumentRasterizer {
	return &DocumentRasterizer{}
}

// Rasterize dispatches on the detected format and returns PNG bytes.
func (r *DocumentRasterizer) Rasterize(filename string, data []byte, contentType string) ([]byte, error) {
	format := DetectFormat(filename, contentType)

	var img []byte
	var err error
	switch format {
	case FormatSpreadsheet:
		img, err = spreadsheetToImage(data)
	case FormatPDF:
		img, err = pdfToImage(data)
	case FormatImage:
		img, err = imageToPNG(data, contentType)
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, filename, contentType)
	}
	if err != nil {
		return nil, fmt.Errorf("rasterizing %s %s: %w", format.String(), filename, err)
	}
	return img, nil
}
