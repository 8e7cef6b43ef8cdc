package rasterize

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// pdfRenderDPI is double the 72 DPI base scale, matching the 2x upscale the
// extraction model was tuned against.
const pdfRenderDPI = 144

// pdfToImage renders the first page of a PDF as PNG. Multi-page documents
// are truncated to page one on purpose; invoices past the first page are
// out of scope.
func pdfToImage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	img, err := doc.ImageDPI(0, pdfRenderDPI)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
