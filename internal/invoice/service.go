package invoice

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"invoicescan/internal/extraction"
	"invoicescan/internal/rasterize"
	"invoicescan/internal/records"
)

// Service runs extraction cycles and owns the record store. One cycle is
// strictly sequential: rasterize, extract, replace the collections. Cycles
// are serialized; the UI disables its upload control while one is in
// flight, and the mutex enforces the same discipline for API callers.
type Service struct {
	rasterizer rasterize.Rasterizer
	extractor  extraction.Extractor
	store      *records.Store

	processMu sync.Mutex
}

// NewService creates a Service.
func NewService(rasterizer rasterize.Rasterizer, extractor extraction.Extractor, store *records.Store) *Service {
	return &Service{
		rasterizer: rasterizer,
		extractor:  extractor,
		store:      store,
	}
}

// Store exposes the record store to the HTTP layer.
func (s *Service) Store() *records.Store {
	return s.store
}

// ProcessDocument runs one extraction cycle for an uploaded file. On any
// failure the store keeps its pre-extraction contents; nothing is written
// until all three collections have been produced.
func (s *Service) ProcessDocument(filename string, data []byte, contentType string) (*records.Set, error) {
	s.processMu.Lock()
	defer s.processMu.Unlock()

	image, err := s.rasterizer.Rasterize(filename, data, contentType)
	if err != nil {
		if !errors.Is(err, rasterize.ErrUnsupportedFormat) {
			slog.Error("Failed to rasterize document",
				"filename", filename,
				"content_type", contentType,
				"file_size", len(data),
				"error", err,
			)
		}
		return nil, fmt.Errorf("rasterizing document: %w", err)
	}

	set, err := s.extractor.ExtractRecords(image)
	if err != nil {
		slog.Error("Failed to extract records",
			"filename", filename,
			"content_type", contentType,
			"error", err,
		)
		return nil, fmt.Errorf("extracting records: %w", err)
	}

	s.store.ReplaceAll(set)
	slog.Info("Extraction cycle complete",
		"filename", filename,
		"invoices", len(set.Invoices),
		"products", len(set.Products),
		"customers", len(set.Customers),
	)
	return set, nil
}
