package records

import "sync"

// Store is the in-memory holder of the three record collections. Its
// lifetime is the process lifetime; nothing is persisted. A successful
// extraction cycle replaces each collection wholesale, inline edits update
// single records by id, and each collection can be cleared independently.
type Store struct {
	mu        sync.RWMutex
	invoices  []Invoice
	products  []Product
	customers []Customer
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// ReplaceAll replaces all three collections from one extraction cycle.
func (s *Store) ReplaceAll(set *Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append([]Invoice(nil), set.Invoices...)
	s.products = append([]Product(nil), set.Products...)
	s.customers = append([]Customer(nil), set.Customers...)
}

// ReplaceInvoices replaces the invoice collection wholesale.
func (s *Store) ReplaceInvoices(invoices []Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append([]Invoice(nil), invoices...)
}

// ReplaceProducts replaces the product collection wholesale.
func (s *Store) ReplaceProducts(products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]Product(nil), products...)
}

// ReplaceCustomers replaces the customer collection wholesale.
func (s *Store) ReplaceCustomers(customers []Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append([]Customer(nil), customers...)
}

// Invoices returns a copy of the invoice collection.
func (s *Store) Invoices() []Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Invoice(nil), s.invoices...)
}

// Products returns a copy of the product collection.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Product(nil), s.products...)
}

// Customers returns a copy of the customer collection.
func (s *Store) Customers() []Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Customer(nil), s.customers...)
}

// Lookup snapshots the product and customer name sets for invoice
// reference checks.
func (s *Store) Lookup() Lookup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l := Lookup{
		ProductNames:  make(map[string]bool, len(s.products)),
		CustomerNames: make(map[string]bool, len(s.customers)),
	}
	for _, p := range s.products {
		l.ProductNames[p.Name] = true
	}
	for _, c := range s.customers {
		l.CustomerNames[c.CustomerName] = true
	}
	return l
}

// UpdateInvoice replaces the invoice whose id matches. An unknown id is a
// no-op, not an error; the return value reports whether a match was found.
func (s *Store) UpdateInvoice(invoice Invoice) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoices {
		if s.invoices[i].ID == invoice.ID {
			s.invoices[i] = invoice
			return true
		}
	}
	return false
}

// UpdateProduct replaces the product whose id matches; unknown ids are a no-op.
func (s *Store) UpdateProduct(product Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == product.ID {
			s.products[i] = product
			return true
		}
	}
	return false
}

// UpdateCustomer replaces the customer whose id matches; unknown ids are a no-op.
func (s *Store) UpdateCustomer(customer Customer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == customer.ID {
			s.customers[i] = customer
			return true
		}
	}
	return false
}

// ClearInvoices empties the invoice collection only.
func (s *Store) ClearInvoices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = nil
}

// ClearProducts empties the product collection only.
func (s *Store) ClearProducts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
}

// ClearCustomers empties the customer collection only.
func (s *Store) ClearCustomers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = nil
}

// Stats summarizes the store contents for the UI summary cards.
type Stats struct {
	InvoiceCount   int     `json:"invoiceCount"`
	ProductCount   int     `json:"productCount"`
	CustomerCount  int     `json:"customerCount"`
	TotalRevenue   float64 `json:"totalRevenue"`
	InventoryValue float64 `json:"inventoryValue"`
}

// Stats computes aggregate statistics over the current collections.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		InvoiceCount:  len(s.invoices),
		ProductCount:  len(s.products),
		CustomerCount: len(s.customers),
	}
	for _, inv := range s.invoices {
		st.TotalRevenue += float64(inv.TotalAmount)
	}
	for _, p := range s.products {
		st.InventoryValue += float64(p.Quantity) * float64(p.UnitPrice)
	}
	return st
}
