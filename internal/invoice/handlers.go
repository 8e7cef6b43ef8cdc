package invoice

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"invoicescan/internal/extraction"
	"invoicescan/internal/rasterize"
	"invoicescan/internal/records"
)

// maxUploadSize caps uploads at 50MB to handle high-resolution phone photos.
const maxUploadSize = int64(50 << 20)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	setCORSHeaders(w)
	writeJSON(w, status, map[string]string{"error": message})
}

// handleIndex serves the HTML interface.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleUploadDocument accepts one document and runs an extraction cycle.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		msg := "Error parsing form"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			msg = "File is too large. Maximum size is 50MB."
		}
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "No file was selected. Please choose a file to upload.")
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		writeJSONError(w, http.StatusBadRequest, "File is too large. Maximum size is 50MB.")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeJSONError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	contentType := contentTypeFor(header.Filename, header.Header.Get("Content-Type"))

	set, err := s.service.ProcessDocument(header.Filename, data, contentType)
	if err != nil {
		switch {
		case errors.Is(err, rasterize.ErrUnsupportedFormat):
			writeJSONError(w, http.StatusUnsupportedMediaType, "Unsupported file format")
		case errors.Is(err, extraction.ErrMalformedResponse):
			writeJSONError(w, http.StatusBadGateway, "Failed to process AI response.")
		default:
			writeJSONError(w, http.StatusInternalServerError, "Error processing file")
		}
		return
	}

	setCORSHeaders(w)
	writeJSON(w, http.StatusCreated, set)
}

// contentTypeFor normalizes the declared content type, falling back to the
// file extension when the client sent nothing useful.
func contentTypeFor(filename, declared string) string {
	contentType := strings.ToLower(strings.TrimSpace(declared))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	default:
		return "application/octet-stream"
	}
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	writeJSON(w, http.StatusOK, s.service.Store().Invoices())
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	writeJSON(w, http.StatusOK, s.service.Store().Products())
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	writeJSON(w, http.StatusOK, s.service.Store().Customers())
}

// handleUpdateInvoice applies a validated inline edit. The customer and
// product names must exist in the other two collections, and the total is
// rederived from the referenced product's unit price before the write. An
// unknown id is a silent no-op by contract.
func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var inv records.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	inv.ID = r.PathValue("id")

	store := s.service.Store()
	if errs := records.ValidateInvoice(inv, store.Lookup()); errs != nil {
		setCORSHeaders(w)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"fieldErrors": errs})
		return
	}

	inv = records.RecomputeInvoiceTotal(inv, store.Products())
	store.UpdateInvoice(inv)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p records.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p.ID = r.PathValue("id")

	if errs := records.ValidateProduct(p); errs != nil {
		setCORSHeaders(w)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"fieldErrors": errs})
		return
	}

	s.service.Store().UpdateProduct(p)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var c records.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	c.ID = r.PathValue("id")

	if errs := records.ValidateCustomer(c); errs != nil {
		setCORSHeaders(w)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"fieldErrors": errs})
		return
	}

	s.service.Store().UpdateCustomer(c)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearInvoices(w http.ResponseWriter, r *http.Request) {
	s.service.Store().ClearInvoices()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearProducts(w http.ResponseWriter, r *http.Request) {
	s.service.Store().ClearProducts()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearCustomers(w http.ResponseWriter, r *http.Request) {
	s.service.Store().ClearCustomers()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	writeJSON(w, http.StatusOK, s.service.Store().Stats())
}
