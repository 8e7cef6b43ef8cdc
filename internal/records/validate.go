package records

import (
	"fmt"
	"regexp"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// FieldErrors maps a field name to a human-readable validation message.
// An empty map means the record is acceptable.
type FieldErrors map[string]string

// Error implements the error interface.
func (e FieldErrors) Error() string {
	return fmt.Sprintf("%d invalid field(s)", len(e))
}

// Lookup carries the product and customer name sets an invoice edit is
// checked against. Invoices reference the other collections by name, so an
// edit must not point at a product or customer that does not exist.
type Lookup struct {
	ProductNames  map[string]bool
	CustomerNames map[string]bool
}

// ValidateInvoice checks an invoice edit against the grid rules, including
// the cross-collection name references.
func ValidateInvoice(inv Invoice, lookup Lookup) FieldErrors {
	errs := FieldErrors{}
	if inv.SerialNumber == "" {
		errs["serialNumber"] = "This field is required"
	}
	if !lookup.CustomerNames[inv.CustomerName] {
		errs["customerName"] = "Customer not found"
	}
	if !lookup.ProductNames[inv.ProductName] {
		errs["productName"] = "Product not found"
	}
	if inv.Qty <= 0 {
		errs["qty"] = "Quantity must be greater than 0"
	}
	if inv.Tax < 0 {
		errs["tax"] = "Tax must be non-negative"
	}
	if !datePattern.MatchString(inv.Date) {
		errs["date"] = "Invalid date format (YYYY-MM-DD)"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// RecomputeInvoiceTotal derives the invoice total from the referenced
// product's unit price: qty * unitPrice + tax. An invoice whose product
// name matches nothing keeps the total it already has.
func RecomputeInvoiceTotal(inv Invoice, products []Product) Invoice {
	for _, p := range products {
		if p.Name == inv.ProductName {
			inv.TotalAmount = inv.Qty*p.UnitPrice + inv.Tax
			break
		}
	}
	return inv
}

// ValidateProduct checks a product edit against the grid rules.
func ValidateProduct(p Product) FieldErrors {
	errs := FieldErrors{}
	if len(p.Name) < 3 {
		errs["name"] = "Name must be at least 3 characters"
	}
	if p.Quantity < 0 {
		errs["quantity"] = "Quantity must be non-negative"
	}
	if p.UnitPrice <= 0 {
		errs["unitPrice"] = "Price must be greater than 0"
	}
	if p.Tax < 0 || p.Tax > 100 {
		errs["tax"] = "Tax must be between 0 and 100"
	}
	if p.Discount < 0 {
		errs["discount"] = "Discount must be non-negative"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateCustomer checks a customer edit against the grid rules.
func ValidateCustomer(c Customer) FieldErrors {
	errs := FieldErrors{}
	if len(c.CustomerName) < 3 {
		errs["customerName"] = "Name must be at least 3 characters"
	}
	if !phonePattern.MatchString(c.PhoneNumber) {
		errs["phoneNumber"] = "Phone number must be 10 digits"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
