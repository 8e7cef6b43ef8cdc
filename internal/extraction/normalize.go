package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"invoicescan/internal/records"
)

// ParseRecords turns the model's raw text response into the three record
// collections. Markdown code fences are stripped, the outermost JSON
// object is located, the top-level shape is validated, customer totals are
// recomputed from the invoices, and records missing an id get one. A
// failure leaves nothing half-parsed: callers get ErrMalformedResponse and
// no records.
func ParseRecords(text string) (*records.Set, error) {
	text = stripCodeFences(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	text = text[start : end+1]

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := responseSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var set records.Set
	if err := json.Unmarshal([]byte(text), &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	normalize(&set)
	return &set, nil
}

// stripCodeFences removes ```json / ``` markers the model may wrap its
// answer in despite being told not to.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// normalize reconciles derived fields and synthesizes missing identifiers.
func normalize(set *records.Set) {
	// Customer totals are derived data: sum invoice totals per customer
	// name (exact, case-sensitive match). Whatever total the model put on
	// the customer row is discarded.
	totals := make(map[string]records.Number, len(set.Customers))
	for _, inv := range set.Invoices {
		totals[inv.CustomerName] += inv.TotalAmount
	}

	for i := range set.Invoices {
		if set.Invoices[i].ID == "" {
			set.Invoices[i].ID = newID("invoice")
		}
	}
	for i := range set.Products {
		if set.Products[i].ID == "" {
			set.Products[i].ID = newID("product")
		}
	}
	for i := range set.Customers {
		if set.Customers[i].ID == "" {
			set.Customers[i].ID = newID("customer")
		}
		set.Customers[i].TotalAmount = totals[set.Customers[i].CustomerName]
	}
}

// newID synthesizes a collection-scoped identifier that stays unique
// across extraction cycles.
func newID(kind string) string {
	return kind + "_" + uuid.NewString()
}
