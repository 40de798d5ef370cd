package eupago

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Callback is the payment notification EuPago posts to the webhook.
// Identificador carries the order number supplied when the reference
// was created.
type Callback struct {
	Valor         decimal.Decimal `json:"valor"`
	Canal         string          `json:"canal"`
	Referencia    string          `json:"referencia"`
	Transacao     string          `json:"transacao"`
	Identificador string          `json:"identificador"`
	MP            string          `json:"mp,omitempty"`
	Data          string          `json:"data"`
	Entidade      string          `json:"entidade,omitempty"`
	ChaveAPI      string          `json:"chave_api,omitempty"`
}

// ParseCallback decodes and validates a webhook body.
func ParseCallback(r io.Reader) (*Callback, error) {
	var cb Callback
	dec := json.NewDecoder(io.LimitReader(r, 1<<20))
	if err := dec.Decode(&cb); err != nil {
		return nil, fmt.Errorf("decoding callback: %w", err)
	}
	if cb.Referencia == "" || cb.Transacao == "" || cb.Identificador == "" || cb.Canal == "" {
		return nil, fmt.Errorf("callback missing required fields")
	}
	return &cb, nil
}
