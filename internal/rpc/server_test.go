package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvemint/curved/internal/core/sale"
	"github.com/curvemint/curved/internal/core/token"
	"github.com/curvemint/curved/internal/rpc/handlers"
)

type memView struct {
	m map[sale.Key][]byte
}

func (v *memView) Read(k sale.Key) ([]byte, error) { return v.m[k], nil }
func (v *memView) Exists(k sale.Key) (bool, error) { _, ok := v.m[k]; return ok, nil }
func (v *memView) Write(k sale.Key, d []byte) error {
	v.m[k] = d
	return nil
}

var (
	testOwner = sale.AccountID{0xaa}
	testPool  = sale.AccountID{0xbb}
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	ledger := token.NewLedger()
	engine := sale.NewEngine(sale.Config{
		View:     &memView{m: make(map[sale.Key][]byte)},
		Tokens:   ledger,
		Payments: token.NewPaymentBook(),
		Issuer:   ledger,
		Owner:    testOwner,
		Pool:     testPool,
	})

	services := &handlers.Services{
		Sales:   sale.NewDistributor(engine),
		Tokens:  ledger,
		Version: "test",
	}
	return NewServer(Config{Timeout: 5 * time.Second}, services)
}

// call posts one request and decodes the result envelope.
func call(t *testing.T, srv *Server, remoteAddr, method string, params map[string]interface{}) map[string]interface{} {
	t.Helper()

	body := map[string]interface{}{"method": method}
	if params != nil {
		body["params"] = []interface{}{params}
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Result)
	return envelope.Result
}

const local = "127.0.0.1:50000"

func listTestSale(t *testing.T, srv *Server) string {
	t.Helper()
	result := call(t, srv, local, "sale_list", map[string]interface{}{
		"receiver":       sale.AccountID{0x02}.String(),
		"name":           "Curve Asset",
		"symbol":         "CRV",
		"max_supply":     "1000000000000000000000000",
		"price_init":     "1000000000000000",
		"price_increase": "1000000000000",
	})
	require.Equal(t, "success", result["status"])
	id, ok := result["sale_id"].(string)
	require.True(t, ok)
	return id
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)
	result := call(t, srv, local, "ping", nil)
	assert.Equal(t, "success", result["status"])
}

func TestServerInfoViaGet(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = local
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var envelope struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "success", envelope.Result["status"])

	info, ok := envelope.Result["info"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "test", info["version"])
}

func TestUnknownMethod(t *testing.T) {
	srv := newTestServer(t)
	result := call(t, srv, local, "nonsense", nil)
	assert.Equal(t, "error", result["status"])
	assert.Equal(t, handlers.CodeUnknownMethod, result["error"])
}

func TestListPurchaseInfoFlow(t *testing.T) {
	srv := newTestServer(t)
	id := listTestSale(t, srv)

	buyer := sale.AccountID{0x01}
	result := call(t, srv, local, "sale_purchase", map[string]interface{}{
		"sale_id": id,
		"buyer":   buyer.String(),
		"payment": "1000000000000000000",
	})
	require.Equal(t, "success", result["status"])
	assert.NotEqual(t, "0", result["tokens_transferred"])
	assert.Equal(t, "0", result["refund"])

	info := call(t, srv, local, "sale_info", map[string]interface{}{"sale_id": id})
	require.Equal(t, "success", info["status"])
	assert.Equal(t, "CRV", info["symbol"])
	// The purchase moved the price above its initial value.
	assert.NotEqual(t, "1000000000000000", info["current_price"])

	balance := call(t, srv, local, "balance_info", map[string]interface{}{
		"account": buyer.String(),
		"sale_id": id,
	})
	require.Equal(t, "success", balance["status"])
	assert.Equal(t, result["tokens_transferred"], balance["token_balance"])
}

func TestPurchaseErrorsMapToResultCodes(t *testing.T) {
	srv := newTestServer(t)
	id := listTestSale(t, srv)

	result := call(t, srv, local, "sale_purchase", map[string]interface{}{
		"sale_id": id,
		"buyer":   sale.AccountID{0x01}.String(),
		"payment": "1",
	})
	assert.Equal(t, "error", result["status"])
	assert.Equal(t, sale.ResultPaymentTooLow.String(), result["error"])

	result = call(t, srv, local, "sale_purchase", map[string]interface{}{
		"sale_id": fmt.Sprintf("0x%064d", 1),
		"buyer":   sale.AccountID{0x01}.String(),
		"payment": "1000000000000000000",
	})
	assert.Equal(t, "error", result["status"])
	assert.Equal(t, sale.ResultSaleNotAuthorized.String(), result["error"])
}

func TestInvalidParams(t *testing.T) {
	srv := newTestServer(t)

	result := call(t, srv, local, "sale_info", map[string]interface{}{"sale_id": "xyz"})
	assert.Equal(t, "error", result["status"])
	assert.Equal(t, handlers.CodeInvalidParams, result["error"])

	result = call(t, srv, local, "sale_purchase", map[string]interface{}{
		"sale_id": fmt.Sprintf("0x%064d", 1),
		"buyer":   sale.AccountID{0x01}.String(),
		"payment": "-5",
	})
	assert.Equal(t, "error", result["status"])
	assert.Equal(t, handlers.CodeInvalidParams, result["error"])
}

func TestAdminGating(t *testing.T) {
	srv := newTestServer(t)

	params := map[string]interface{}{
		"caller":  testOwner.String(),
		"fee_bps": 250,
	}

	// Remote callers may not touch admin methods.
	result := call(t, srv, "203.0.113.9:4000", "fee_set", params)
	assert.Equal(t, "error", result["status"])
	assert.Equal(t, handlers.CodeForbidden, result["error"])

	// Loopback callers are admin.
	result = call(t, srv, local, "fee_set", params)
	assert.Equal(t, "success", result["status"])

	info := call(t, srv, "203.0.113.9:4000", "fee_info", nil)
	require.Equal(t, "success", info["status"])
	assert.Equal(t, float64(250), info["fee_bps"])
}

func TestFeeSetRejectsNonOwnerCaller(t *testing.T) {
	srv := newTestServer(t)

	result := call(t, srv, local, "fee_set", map[string]interface{}{
		"caller":  sale.AccountID{0x55}.String(),
		"fee_bps": 100,
	})
	assert.Equal(t, "error", result["status"])
	assert.Equal(t, sale.ResultNotPermitted.String(), result["error"])
}

func TestEventsNotConfigured(t *testing.T) {
	srv := newTestServer(t)

	result := call(t, srv, local, "sale_events", nil)
	assert.Equal(t, "error", result["status"])
	assert.Equal(t, handlers.CodeNotSupported, result["error"])
}
