package invoice

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
)

// Server handles HTTP requests for the invoice workspace.
type Server struct {
	service   *Service
	basicAuth BasicAuth
	mux       *http.ServeMux
}

// BasicAuth holds basic authentication credentials.
type BasicAuth struct {
	Username string
	Password string
}

// NewServer creates a new Server with default mux.
func NewServer(service *Service, basicAuth BasicAuth) *Server {
	return NewServerWithMux(service, basicAuth, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing.
func NewServerWithMux(service *Service, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		service:   service,
		basicAuth: basicAuth,
		mux:       mux,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials.
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// corsMiddleware adds CORS headers and answers preflight requests.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			setCORSHeaders(w)
			w.Header().Set("WWW-Authenticate", `Basic realm="invoicescan"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// registerRoutes registers all API routes on the server's mux.
func (s *Server) registerRoutes() {
	// One extraction cycle per uploaded document
	s.mux.HandleFunc("POST /api/documents", s.requireAuth(s.handleUploadDocument))

	// Invoices
	s.mux.HandleFunc("GET /api/invoices", s.requireAuth(s.handleListInvoices))
	s.mux.HandleFunc("PUT /api/invoices/{id}", s.requireAuth(s.handleUpdateInvoice))
	s.mux.HandleFunc("DELETE /api/invoices", s.requireAuth(s.handleClearInvoices))

	// Products
	s.mux.HandleFunc("GET /api/products", s.requireAuth(s.handleListProducts))
	s.mux.HandleFunc("PUT /api/products/{id}", s.requireAuth(s.handleUpdateProduct))
	s.mux.HandleFunc("DELETE /api/products", s.requireAuth(s.handleClearProducts))

	// Customers
	s.mux.HandleFunc("GET /api/customers", s.requireAuth(s.handleListCustomers))
	s.mux.HandleFunc("PUT /api/customers/{id}", s.requireAuth(s.handleUpdateCustomer))
	s.mux.HandleFunc("DELETE /api/customers", s.requireAuth(s.handleClearCustomers))

	// Aggregates for the summary cards
	s.mux.HandleFunc("GET /api/stats", s.requireAuth(s.handleStats))

	// Static HTML interface (register last as it's the catch-all)
	s.mux.HandleFunc("GET /index.html", s.requireAuth(s.handleIndex))
	s.mux.HandleFunc("GET /", s.requireAuth(s.handleIndex))
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		})(w, r)
	}))
}

// ServeHTTP implements http.Handler for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
