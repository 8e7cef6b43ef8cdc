package records

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a float64 that tolerates the loose typing of model output:
// JSON numbers decode normally, numeric strings are parsed, and anything
// else (null, empty, garbage) becomes zero.
type Number float64

// UnmarshalJSON implements lenient numeric decoding.
func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Invoice is one extracted invoice line. CustomerName and ProductName
// reference the other collections informally by name, not by id.
type Invoice struct {
	ID           string `json:"id"`
	SerialNumber string `json:"serialNumber"`
	CustomerName string `json:"customerName"`
	ProductName  string `json:"productName"`
	Qty          Number `json:"qty"`
	Tax          Number `json:"tax"`
	TotalAmount  Number `json:"totalAmount"`
	Date         string `json:"date"` // YYYY-MM-DD
}

// Product is one extracted product row.
type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Quantity     Number `json:"quantity"`
	UnitPrice    Number `json:"unitPrice"`
	Tax          Number `json:"tax"` // percentage, 0-100
	PriceWithTax Number `json:"priceWithTax"`
	Discount     Number `json:"discount"`
}

// Customer is one extracted customer row. TotalAmount is derived data:
// it is recomputed from the invoice collection at extraction time.
type Customer struct {
	ID           string `json:"id"`
	CustomerName string `json:"customerName"`
	PhoneNumber  string `json:"phoneNumber"` // 10 digits
	TotalAmount  Number `json:"totalAmount"`
}

// Set holds the three collections produced by one extraction cycle.
type Set struct {
	Invoices  []Invoice  `json:"invoices"`
	Products  []Product  `json:"products"`
	Customers []Customer `json:"customers"`
}
