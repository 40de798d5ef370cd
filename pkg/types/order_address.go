package types

// OrderAddress is the delivery address captured at checkout, stored
// as jsonb on the order row.
type OrderAddress struct {
	Name       string  `json:"name"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	Phone      *string `json:"phone,omitempty"`
}

// JSONMap is a free-form jsonb payload.
type JSONMap map[string]any
