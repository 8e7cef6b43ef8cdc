package extraction

import "github.com/santhosh-tekuri/jsonschema/v5"

// responseShape is the literal JSON shape the model is instructed to
// return. It is embedded verbatim in the prompt and mirrored by
// responseSchema below; when the contract changes, both live in this file
// so they change together.
const responseShape = `{
  "invoices": [{ "serialNumber": string, "customerName": string, "productName": string, "qty": number, "tax": number, "totalAmount": number, "date": string }],
  "products": [{ "id": string, "name": string, "quantity": number, "unitPrice": number, "tax": number, "priceWithTax": number, "discount": number }],
  "customers": [{ "id": string, "customerName": string, "phoneNumber": string, "totalAmount": number }]
}`

// extractionPrompt is the fixed instruction sent with every document image.
const extractionPrompt = `Extract the invoice data from the provided image and return a JSON response with the following structure:
` + responseShape + `

Important:
- Dates must be in YYYY-MM-DD format
- Numeric fields must be numbers, not strings
- Return ONLY the JSON object, with no text before or after it
- Do not use markdown code blocks`

// responseSchema enforces the top-level contract on the way back: the
// three collections must be present and must be arrays of objects.
// Field-level sloppiness (numbers as strings, missing ids) is tolerated
// and repaired during normalization instead.
var responseSchema = jsonschema.MustCompileString("response.json", `{
  "type": "object",
  "required": ["invoices", "products", "customers"],
  "properties": {
    "invoices":  { "type": "array", "items": { "type": "object" } },
    "products":  { "type": "array", "items": { "type": "object" } },
    "customers": { "type": "array", "items": { "type": "object" } }
  }
}`)
