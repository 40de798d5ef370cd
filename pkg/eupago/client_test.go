package eupago

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jocril/storefront-backend/pkg/config"
)

type stubDoer struct {
	lastRequest *http.Request
	lastBody    []byte
	status      int
	response    string
	err         error
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) {
	s.lastRequest = req
	if req.Body != nil {
		s.lastBody, _ = io.ReadAll(req.Body)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader(s.response)),
	}, nil
}

func newTestClient(doer *stubDoer) *Client {
	cfg := config.EuPagoConfig{
		APIKey:         "demo-key",
		BaseURL:        "https://clientes.eupago.pt",
		RequestTimeout: time.Second,
		DeadlineHours:  24,
	}
	c := NewClient(cfg, "https://loja.jocril.pt")
	c.http = doer
	c.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestCreateMultibancoReference(t *testing.T) {
	doer := &stubDoer{
		status:   http.StatusOK,
		response: `{"sucesso":true,"estado":0,"resposta":"OK","referencia":"123456789","entidade":"11111","valor":45.50}`,
	}
	client := newTestClient(doer)

	ref, err := client.CreateMultibancoReference(context.Background(), "JCR-1-ABC", decimal.NewFromFloat(45.50))
	require.NoError(t, err)

	assert.Equal(t, "11111", ref.Entity)
	assert.Equal(t, "123456789", ref.Reference)
	assert.True(t, ref.Amount.Equal(decimal.NewFromFloat(45.50)))
	assert.Equal(t, time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC), ref.Deadline)

	require.NotNil(t, doer.lastRequest)
	assert.Equal(t, "https://clientes.eupago.pt/clientes/rest_api/multibanco/create", doer.lastRequest.URL.String())

	var sent map[string]any
	require.NoError(t, json.NewDecoder(bytes.NewReader(doer.lastBody)).Decode(&sent))
	assert.Equal(t, "demo-key", sent["chave"])
	assert.Equal(t, "JCR-1-ABC", sent["id"])
	assert.Equal(t, "2025-03-10", sent["data_inicio"])
	assert.Equal(t, "2025-03-11", sent["data_fim"])
	assert.Equal(t, "https://loja.jocril.pt/api/webhooks/eupago", sent["callback"])
}

func TestCreateMultibancoReferenceGatewayRejection(t *testing.T) {
	doer := &stubDoer{
		status:   http.StatusOK,
		response: `{"sucesso":false,"estado":17,"resposta":"chave invalida"}`,
	}
	client := newTestClient(doer)

	_, err := client.CreateMultibancoReference(context.Background(), "JCR-1-ABC", decimal.NewFromInt(10))
	require.Error(t, err)

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.True(t, gwErr.Rejected)
	assert.Equal(t, "chave invalida", gwErr.Message)
	assert.Equal(t, 17, gwErr.Status)
}

func TestCreateMBWayPayment(t *testing.T) {
	doer := &stubDoer{
		status:   http.StatusOK,
		response: `{"transactionStatus":"Success","reference":"MBW-1","amount":{"value":12.00}}`,
	}
	client := newTestClient(doer)

	payment, err := client.CreateMBWayPayment(context.Background(), "JCR-2-DEF", decimal.NewFromInt(12), "+351 912 345 678")
	require.NoError(t, err)

	assert.Equal(t, "MBW-1", payment.Reference)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(12)))

	require.NotNil(t, doer.lastRequest)
	assert.Equal(t, "ApiKey demo-key", doer.lastRequest.Header.Get("Authorization"))

	var sent mbwayRequest
	require.NoError(t, json.Unmarshal(doer.lastBody, &sent))
	assert.Equal(t, "912345678", sent.Payment.CustomerPhone)
	assert.Equal(t, "+351", sent.Payment.CountryCode)
	assert.Equal(t, "EUR", sent.Payment.Amount.Currency)
}

func TestCreateMBWayPaymentRejectsInvalidPhone(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK, response: `{}`}
	client := newTestClient(doer)

	_, err := client.CreateMBWayPayment(context.Background(), "JCR-3", decimal.NewFromInt(5), "812345678")
	require.Error(t, err)

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.True(t, gwErr.Rejected)
	assert.Nil(t, doer.lastRequest, "gateway must not be called for invalid phones")
}

func TestParseCallback(t *testing.T) {
	body := `{"valor":"45.50","canal":"jocril","referencia":"123456789","transacao":"TX-1","identificador":"JCR-1-ABC","data":"2025-03-10 12:00:00"}`
	cb, err := ParseCallback(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "JCR-1-ABC", cb.Identificador)
	assert.True(t, cb.Valor.Equal(decimal.NewFromFloat(45.50)))

	_, err = ParseCallback(strings.NewReader(`{"valor":1}`))
	require.Error(t, err)

	_, err = ParseCallback(strings.NewReader(`not-json`))
	require.Error(t, err)
}
