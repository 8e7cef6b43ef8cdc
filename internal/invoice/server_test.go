package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"invoicescan/internal/rasterize"
	"invoicescan/internal/records"
)

func multipartBody(filename, contentType string, data []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write(data)
	Expect(err).NotTo(HaveOccurred())
	Expect(w.Close()).To(Succeed())
	return &buf, w.FormDataContentType()
}

var _ = Describe("Server", func() {
	var (
		rasterizer *mockRasterizer
		extractor  *mockExtractor
		store      *records.Store
		server     *Server
	)

	BeforeEach(func() {
		rasterizer = &mockRasterizer{image: []byte("png-bytes")}
		extractor = &mockExtractor{
			set: &records.Set{
				Invoices:  []records.Invoice{{ID: "i1", SerialNumber: "INV-001", CustomerName: "Acme", ProductName: "Widget", Qty: 1, TotalAmount: 118, Date: "2024-01-15"}},
				Products:  []records.Product{{ID: "p1", Name: "Widget", Quantity: 2, UnitPrice: 100, Tax: 18}},
				Customers: []records.Customer{{ID: "c1", CustomerName: "Acme", PhoneNumber: "9876543210", TotalAmount: 118}},
			},
		}
		store = records.NewStore()
		service := NewService(rasterizer, extractor, store)
		server = NewServer(service, BasicAuth{})
	})

	Describe("POST /api/documents", func() {
		It("runs an extraction cycle and returns the snapshot", func() {
			body, contentType := multipartBody("invoice.pdf", "application/pdf", []byte("raw"))
			req := httptest.NewRequest("POST", "/api/documents", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var set records.Set
			Expect(json.Unmarshal(rec.Body.Bytes(), &set)).To(Succeed())
			Expect(set.Invoices).To(HaveLen(1))
			Expect(store.Products()).To(HaveLen(1))
		})

		It("rejects unsupported formats with 415 and no extractor call", func() {
			rasterizer.err = fmt.Errorf("%w", rasterize.ErrUnsupportedFormat)
			body, contentType := multipartBody("notes.txt", "text/plain", []byte("hello"))
			req := httptest.NewRequest("POST", "/api/documents", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnsupportedMediaType))
			Expect(extractor.calls).To(BeZero())
			Expect(rec.Body.String()).To(ContainSubstring("Unsupported file format"))
		})

		It("rejects a body over the upload cap before any processing", func() {
			big := make([]byte, int(maxUploadSize)+1)
			body, contentType := multipartBody("huge.png", "image/png", big)
			req := httptest.NewRequest("POST", "/api/documents", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("too large"))
			Expect(rasterizer.calls).To(BeZero())
		})

		It("returns 400 when no file is attached", func() {
			req := httptest.NewRequest("POST", "/api/documents", strings.NewReader(""))
			req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
			rec := httptest.NewRecorder()

			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("collection listing", func() {
		BeforeEach(func() {
			store.ReplaceAll(extractor.set)
		})

		It("lists invoices", func() {
			req := httptest.NewRequest("GET", "/api/invoices", nil)
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var invoices []records.Invoice
			Expect(json.Unmarshal(rec.Body.Bytes(), &invoices)).To(Succeed())
			Expect(invoices).To(HaveLen(1))
		})

		It("lists products and customers", func() {
			for _, path := range []string{"/api/products", "/api/customers"} {
				rec := httptest.NewRecorder()
				server.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
				Expect(rec.Code).To(Equal(http.StatusOK))
			}
		})
	})

	Describe("PUT /api/customers/{id}", func() {
		BeforeEach(func() {
			store.ReplaceAll(extractor.set)
		})

		It("applies a valid edit", func() {
			payload := `{"customerName": "Acme Traders", "phoneNumber": "9876543210", "totalAmount": 118}`
			req := httptest.NewRequest("PUT", "/api/customers/c1", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(store.Customers()[0].CustomerName).To(Equal("Acme Traders"))
		})

		It("rejects an invalid phone number with field errors", func() {
			payload := `{"customerName": "Acme", "phoneNumber": "12345"}`
			req := httptest.NewRequest("PUT", "/api/customers/c1", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(rec.Body.String()).To(ContainSubstring("phoneNumber"))
			Expect(store.Customers()[0].PhoneNumber).To(Equal("9876543210"))
		})

		It("treats an unknown id as a silent no-op", func() {
			payload := `{"customerName": "Nobody", "phoneNumber": "9876543210"}`
			req := httptest.NewRequest("PUT", "/api/customers/missing", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(store.Customers()).To(HaveLen(1))
			Expect(store.Customers()[0].CustomerName).To(Equal("Acme"))
		})
	})

	Describe("PUT /api/invoices/{id}", func() {
		BeforeEach(func() {
			store.ReplaceAll(extractor.set)
		})

		It("rejects a malformed date", func() {
			payload := `{"serialNumber": "INV-001", "customerName": "Acme", "productName": "Widget", "qty": 1, "totalAmount": 118, "date": "2024-1-5"}`
			req := httptest.NewRequest("PUT", "/api/invoices/i1", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(rec.Body.String()).To(ContainSubstring("date"))
		})

		It("rejects a product name with no matching product", func() {
			payload := `{"serialNumber": "INV-001", "customerName": "Acme", "productName": "Sprocket", "qty": 1, "totalAmount": 118, "date": "2024-01-15"}`
			req := httptest.NewRequest("PUT", "/api/invoices/i1", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(rec.Body.String()).To(ContainSubstring("Product not found"))
			Expect(store.Invoices()[0].ProductName).To(Equal("Widget"))
		})

		It("rejects a customer name with no matching customer", func() {
			payload := `{"serialNumber": "INV-001", "customerName": "Nobody", "productName": "Widget", "qty": 1, "totalAmount": 118, "date": "2024-01-15"}`
			req := httptest.NewRequest("PUT", "/api/invoices/i1", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(rec.Body.String()).To(ContainSubstring("Customer not found"))
			Expect(store.Invoices()[0].CustomerName).To(Equal("Acme"))
		})

		It("rederives the total from the product's unit price on a valid edit", func() {
			payload := `{"serialNumber": "INV-001", "customerName": "Acme", "productName": "Widget", "qty": 2, "tax": 18, "totalAmount": 999, "date": "2024-01-15"}`
			req := httptest.NewRequest("PUT", "/api/invoices/i1", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(store.Invoices()[0].Qty).To(Equal(records.Number(2)))
			Expect(store.Invoices()[0].TotalAmount).To(Equal(records.Number(218)))
		})
	})

	Describe("DELETE on a collection", func() {
		BeforeEach(func() {
			store.ReplaceAll(extractor.set)
		})

		It("clears only that collection", func() {
			req := httptest.NewRequest("DELETE", "/api/products", nil)
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(store.Products()).To(BeEmpty())
			Expect(store.Invoices()).To(HaveLen(1))
			Expect(store.Customers()).To(HaveLen(1))
		})
	})

	Describe("GET /api/stats", func() {
		BeforeEach(func() {
			store.ReplaceAll(extractor.set)
		})

		It("returns aggregate statistics", func() {
			req := httptest.NewRequest("GET", "/api/stats", nil)
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var stats records.Stats
			Expect(json.Unmarshal(rec.Body.Bytes(), &stats)).To(Succeed())
			Expect(stats.InvoiceCount).To(Equal(1))
			Expect(stats.TotalRevenue).To(Equal(118.0))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			service := NewService(rasterizer, extractor, store)
			server = NewServer(service, BasicAuth{Username: "user", Password: "secret"})
		})

		It("rejects requests without credentials", func() {
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/invoices", nil))
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("accepts requests with valid credentials", func() {
			req := httptest.NewRequest("GET", "/api/invoices", nil)
			req.SetBasicAuth("user", "secret")
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("GET /", func() {
		It("serves the HTML interface", func() {
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("text/html"))
		})
	})
})
