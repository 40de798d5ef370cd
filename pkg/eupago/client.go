package eupago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jocril/storefront-backend/pkg/config"
)

const (
	multibancoPath = "/clientes/rest_api/multibanco/create"
	mbwayPath      = "/api/v1.02/mbway/create"

	apiDateFormat = "2006-01-02"
)

// Error is a gateway-level failure. Rejected carries whether the
// gateway itself refused the request, as opposed to transport trouble.
type Error struct {
	Message  string
	Status   int
	Rejected bool
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("eupago: %s (status %d)", e.Message, e.Status)
	}
	return "eupago: " + e.Message
}

// MultibancoReference is the payable reference returned by the gateway.
type MultibancoReference struct {
	Entity    string
	Reference string
	Amount    decimal.Decimal
	Deadline  time.Time
}

// MBWayPayment is the acknowledgement of a push payment request.
type MBWayPayment struct {
	Reference string
	Amount    decimal.Decimal
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the EuPago REST API.
type Client struct {
	apiKey        string
	baseURL       string
	siteURL       string
	webhookURL    string
	deadlineHours int
	http          httpDoer
	now           func() time.Time
}

// NewClient builds a gateway client from configuration.
func NewClient(cfg config.EuPagoConfig, siteURL string) *Client {
	return &Client{
		apiKey:        cfg.APIKey,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		siteURL:       strings.TrimRight(siteURL, "/"),
		webhookURL:    cfg.WebhookURL(siteURL),
		deadlineHours: cfg.DeadlineHours,
		http:          &http.Client{Timeout: cfg.RequestTimeout},
		now:           time.Now,
	}
}

type multibancoRequest struct {
	Chave      string  `json:"chave"`
	Valor      float64 `json:"valor"`
	ID         string  `json:"id"`
	PerDup     int     `json:"per_dup"`
	DataInicio string  `json:"data_inicio"`
	DataFim    string  `json:"data_fim"`
	Callback   string  `json:"callback"`
}

type multibancoResponse struct {
	Sucesso    bool     `json:"sucesso"`
	Estado     int      `json:"estado"`
	Resposta   string   `json:"resposta"`
	Referencia string   `json:"referencia"`
	Entidade   string   `json:"entidade"`
	Valor      *float64 `json:"valor"`
}

// CreateMultibancoReference asks the gateway for an entity/reference
// pair payable until the configured deadline. Duplicate payments of
// the same reference are disallowed.
func (c *Client) CreateMultibancoReference(ctx context.Context, orderID string, amount decimal.Decimal) (*MultibancoReference, error) {
	if c.apiKey == "" {
		return nil, &Error{Message: "api key not configured"}
	}

	now := c.now()
	deadline := now.Add(time.Duration(c.deadlineHours) * time.Hour)

	payload := multibancoRequest{
		Chave:      c.apiKey,
		Valor:      amount.Round(2).InexactFloat64(),
		ID:         orderID,
		PerDup:     0,
		DataInicio: now.UTC().Format(apiDateFormat),
		DataFim:    deadline.UTC().Format(apiDateFormat),
		Callback:   c.webhookURL,
	}

	var parsed multibancoResponse
	status, err := c.postJSON(ctx, c.baseURL+multibancoPath, nil, payload, &parsed)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &Error{Message: "unexpected gateway status", Status: status}
	}

	if !parsed.Sucesso || parsed.Referencia == "" || parsed.Entidade == "" {
		msg := parsed.Resposta
		if msg == "" {
			msg = "multibanco reference was not generated"
		}
		return nil, &Error{Message: msg, Status: parsed.Estado, Rejected: true}
	}

	result := &MultibancoReference{
		Entity:    parsed.Entidade,
		Reference: parsed.Referencia,
		Amount:    amount.Round(2),
		Deadline:  deadline,
	}
	if parsed.Valor != nil {
		result.Amount = decimal.NewFromFloat(*parsed.Valor).Round(2)
	}
	return result, nil
}

type mbwayAmount struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

type mbwayPaymentBody struct {
	Identifier    string      `json:"identifier"`
	Amount        mbwayAmount `json:"amount"`
	CustomerPhone string      `json:"customerPhone"`
	CountryCode   string      `json:"countryCode"`
	SuccessURL    string      `json:"successUrl"`
	FailURL       string      `json:"failUrl"`
	BackURL       string      `json:"backUrl"`
	Lang          string      `json:"lang"`
}

type mbwayCustomer struct {
	Notify bool `json:"notify"`
}

type mbwayRequest struct {
	Payment  mbwayPaymentBody `json:"payment"`
	Customer mbwayCustomer    `json:"customer"`
}

type mbwayResponse struct {
	TransactionStatus string `json:"transactionStatus"`
	Sucesso           bool   `json:"sucesso"`
	Reference         string `json:"reference"`
	Referencia        string `json:"referencia"`
	Message           string `json:"message"`
	Resposta          string `json:"resposta"`
	Amount            *struct {
		Value float64 `json:"value"`
	} `json:"amount"`
	Valor *float64 `json:"valor"`
}

// CreateMBWayPayment pushes a payment request to the customer's phone.
func (c *Client) CreateMBWayPayment(ctx context.Context, orderID string, amount decimal.Decimal, phone string) (*MBWayPayment, error) {
	if c.apiKey == "" {
		return nil, &Error{Message: "api key not configured"}
	}
	if !ValidatePhoneNumber(phone) {
		return nil, &Error{Message: "invalid mobile number", Rejected: true}
	}

	payload := mbwayRequest{
		Payment: mbwayPaymentBody{
			Identifier: orderID,
			Amount: mbwayAmount{
				Value:    amount.Round(2).InexactFloat64(),
				Currency: "EUR",
			},
			CustomerPhone: cleanPhone(phone),
			CountryCode:   "+351",
			SuccessURL:    c.siteURL + "/checkout/sucesso",
			FailURL:       c.siteURL + "/checkout",
			BackURL:       c.siteURL + "/carrinho",
			Lang:          "PT",
		},
		Customer: mbwayCustomer{Notify: true},
	}

	headers := map[string]string{"Authorization": "ApiKey " + c.apiKey}

	var parsed mbwayResponse
	status, err := c.postJSON(ctx, c.baseURL+mbwayPath, headers, payload, &parsed)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		msg := firstNonEmpty(parsed.Message, parsed.Resposta, "unexpected gateway status")
		return nil, &Error{Message: msg, Status: status, Rejected: status < http.StatusInternalServerError}
	}

	if parsed.TransactionStatus != "Success" && !parsed.Sucesso {
		msg := firstNonEmpty(parsed.Message, parsed.Resposta, "mbway request was not accepted")
		return nil, &Error{Message: msg, Rejected: true}
	}

	result := &MBWayPayment{
		Reference: firstNonEmpty(parsed.Reference, parsed.Referencia, orderID),
		Amount:    amount.Round(2),
	}
	if parsed.Amount != nil {
		result.Amount = decimal.NewFromFloat(parsed.Amount.Value).Round(2)
	} else if parsed.Valor != nil {
		result.Amount = decimal.NewFromFloat(*parsed.Valor).Round(2)
	}
	return result, nil
}

func (c *Client) postJSON(ctx context.Context, url string, headers map[string]string, body any, out any) (int, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("encoding gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return 0, fmt.Errorf("building gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading gateway response: %w", err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, &Error{Message: "malformed gateway response", Status: resp.StatusCode}
		}
	}
	return resp.StatusCode, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
