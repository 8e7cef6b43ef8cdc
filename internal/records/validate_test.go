package records

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validInvoice() Invoice {
	return Invoice{
		ID:           "i1",
		SerialNumber: "INV-001",
		CustomerName: "Acme",
		ProductName:  "Widget",
		Qty:          1,
		Tax:          18,
		TotalAmount:  118,
		Date:         "2024-01-05",
	}
}

func validProduct() Product {
	return Product{ID: "p1", Name: "Widget", Quantity: 0, UnitPrice: 10, Tax: 18, PriceWithTax: 11.8, Discount: 0}
}

func validCustomer() Customer {
	return Customer{ID: "c1", CustomerName: "Acme", PhoneNumber: "9876543210"}
}

func validLookup() Lookup {
	return Lookup{
		ProductNames:  map[string]bool{"Widget": true},
		CustomerNames: map[string]bool{"Acme": true},
	}
}

var _ = Describe("ValidateInvoice", func() {
	It("accepts a well-formed invoice", func() {
		Expect(ValidateInvoice(validInvoice(), validLookup())).To(BeNil())
	})

	It("rejects a customer name missing from the customer collection", func() {
		inv := validInvoice()
		inv.CustomerName = "Nobody"
		errs := ValidateInvoice(inv, validLookup())
		Expect(errs).To(HaveKeyWithValue("customerName", "Customer not found"))
	})

	It("rejects a product name missing from the product collection", func() {
		inv := validInvoice()
		inv.ProductName = "Sprocket"
		errs := ValidateInvoice(inv, validLookup())
		Expect(errs).To(HaveKeyWithValue("productName", "Product not found"))
	})

	It("matches names case-sensitively", func() {
		inv := validInvoice()
		inv.ProductName = "widget"
		Expect(ValidateInvoice(inv, validLookup())).To(HaveKey("productName"))
	})

	It("rejects zero quantity", func() {
		inv := validInvoice()
		inv.Qty = 0
		Expect(ValidateInvoice(inv, validLookup())).To(HaveKey("qty"))
	})

	It("rejects negative tax", func() {
		inv := validInvoice()
		inv.Tax = -1
		Expect(ValidateInvoice(inv, validLookup())).To(HaveKey("tax"))
	})

	It("rejects a date missing zero padding", func() {
		inv := validInvoice()
		inv.Date = "2024-1-5"
		Expect(ValidateInvoice(inv, validLookup())).To(HaveKey("date"))
	})

	It("accepts a zero-padded date", func() {
		inv := validInvoice()
		inv.Date = "2024-01-05"
		Expect(ValidateInvoice(inv, validLookup())).To(BeNil())
	})

	It("rejects an empty serial number", func() {
		inv := validInvoice()
		inv.SerialNumber = ""
		Expect(ValidateInvoice(inv, validLookup())).To(HaveKey("serialNumber"))
	})
})

var _ = Describe("RecomputeInvoiceTotal", func() {
	products := []Product{
		{ID: "p1", Name: "Widget", UnitPrice: 100},
		{ID: "p2", Name: "Gadget", UnitPrice: 30},
	}

	It("derives the total from the referenced product", func() {
		inv := validInvoice()
		inv.Qty = 2
		inv.Tax = 18
		out := RecomputeInvoiceTotal(inv, products)
		Expect(out.TotalAmount).To(Equal(Number(218)))
	})

	It("keeps the existing total when the product is unknown", func() {
		inv := validInvoice()
		inv.ProductName = "Sprocket"
		out := RecomputeInvoiceTotal(inv, products)
		Expect(out.TotalAmount).To(Equal(inv.TotalAmount))
	})
})

var _ = Describe("ValidateProduct", func() {
	It("accepts a well-formed product, including zero quantity", func() {
		Expect(ValidateProduct(validProduct())).To(BeNil())
	})

	It("rejects negative quantity", func() {
		p := validProduct()
		p.Quantity = -1
		Expect(ValidateProduct(p)).To(HaveKey("quantity"))
	})

	It("rejects a non-positive unit price", func() {
		p := validProduct()
		p.UnitPrice = 0
		Expect(ValidateProduct(p)).To(HaveKey("unitPrice"))
	})

	It("rejects tax above 100", func() {
		p := validProduct()
		p.Tax = 101
		Expect(ValidateProduct(p)).To(HaveKey("tax"))
	})

	It("rejects a two-character name", func() {
		p := validProduct()
		p.Name = "Ab"
		Expect(ValidateProduct(p)).To(HaveKey("name"))
	})

	It("rejects a negative discount", func() {
		p := validProduct()
		p.Discount = -5
		Expect(ValidateProduct(p)).To(HaveKey("discount"))
	})
})

var _ = Describe("ValidateCustomer", func() {
	It("accepts a well-formed customer", func() {
		Expect(ValidateCustomer(validCustomer())).To(BeNil())
	})

	It("rejects a nine-digit phone number", func() {
		c := validCustomer()
		c.PhoneNumber = "987654321"
		Expect(ValidateCustomer(c)).To(HaveKey("phoneNumber"))
	})

	It("rejects a phone number with punctuation", func() {
		c := validCustomer()
		c.PhoneNumber = "98765-4321"
		Expect(ValidateCustomer(c)).To(HaveKey("phoneNumber"))
	})

	It("rejects a two-character name", func() {
		c := validCustomer()
		c.CustomerName = "Ab"
		Expect(ValidateCustomer(c)).To(HaveKey("customerName"))
	})
})
