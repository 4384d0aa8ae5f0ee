package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"solar-ledger/config"
	"solar-ledger/internal/adapter/storage/memory"
	"solar-ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	log := zerolog.Nop()

	registry, err := service.NewProtocolRegistry(config.ProtocolConfig{
		Name:            "SOLAR",
		Version:         "1.0.0",
		GenesisDate:     "2024-06-21",
		KwhPerUnit:      100,
		SubUnitsPerUnit: 100000000,
		ModuleCount:     12,
	})
	require.NoError(t, err)

	ledgerSvc := service.NewLedgerService(memory.NewWalletStore(), decimal.NewFromFloat(1.0), log)
	marketSvc := service.NewMarketService(memory.NewOrderBook(), log)
	integritySvc := service.NewIntegrityService(registry, &http.Client{Timeout: time.Second}, time.Second, log)
	querySvc := service.NewQueryService(ledgerSvc, marketSvc, registry, log)

	return SetupRouter(RouterDeps{
		LedgerSvc:    ledgerSvc,
		MarketSvc:    marketSvc,
		IntegritySvc: integritySvc,
		QuerySvc:     querySvc,
		NodeName:     "test-node",
		Logger:       log,
	})
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data envelope: %s", w.Body.String())
	return data
}

// --- Wallet Handler Tests ---

func TestCreateWallet_Success(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/wallets", gin.H{"wallet_id": "alice"})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "alice", data["wallet_id"])
	assert.Equal(t, "1", data["balance"])
}

func TestCreateWallet_ValidationError(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/wallets", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/wallets", gin.H{"wallet_id": "has spaces!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWallet_Success(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/wallets", gin.H{"wallet_id": "alice"})

	w := do(t, r, http.MethodGet, "/wallets/alice", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "alice", data["wallet_id"])
}

func TestGetWallet_NotFound(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/wallets/ghost", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LED_003", resp["error_code"])
}

func TestTransfer_Success(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/wallets", gin.H{"wallet_id": "alice"})

	w := do(t, r, http.MethodPost, "/wallets/alice/transfer", gin.H{"amount": "0.5"})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "0.5", data["balance"])
}

func TestTransfer_InsufficientBalance(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/wallets", gin.H{"wallet_id": "alice"})

	w := do(t, r, http.MethodPost, "/wallets/alice/transfer", gin.H{"amount": "2"})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LED_001", resp["error_code"])
}

func TestTransfer_NegativeAmount(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/wallets", gin.H{"wallet_id": "alice"})

	w := do(t, r, http.MethodPost, "/wallets/alice/transfer", gin.H{"amount": "-1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Market Handler Tests ---

func TestListEnergy_Success(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/energy/list", gin.H{
		"wallet_id":     "seller",
		"type":          "REC",
		"kwh":           "500",
		"price_per_kwh": "0.10",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["ok"])
	assert.NotEmpty(t, data["listing_id"])
}

func TestListEnergy_BadType(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/energy/list", gin.H{
		"wallet_id":     "seller",
		"type":          "SPOT",
		"kwh":           "500",
		"price_per_kwh": "0.10",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEnergy_NegativeQuantity(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/energy/list", gin.H{
		"wallet_id":     "seller",
		"type":          "REC",
		"kwh":           "-5",
		"price_per_kwh": "0.10",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MKT_001", resp["error_code"])
}

func TestMatch_ExecutesTrades(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/energy/list", gin.H{
		"wallet_id": "seller", "type": "REC", "kwh": "500", "price_per_kwh": "0.10",
	})
	do(t, r, http.MethodPost, "/energy/list", gin.H{
		"wallet_id": "buyer", "type": "PPA", "kwh": "500", "price_per_kwh": "0.15",
	})

	w := do(t, r, http.MethodPost, "/energy/match", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["ok"])
	assert.Equal(t, float64(1), data["trades_executed"])
}

func TestGetMarket(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/energy/list", gin.H{
		"wallet_id": "seller", "type": "REC", "kwh": "500", "price_per_kwh": "0.10",
	})

	w := do(t, r, http.MethodGet, "/energy", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	listings := data["listings"].([]interface{})
	require.Len(t, listings, 1)
	first := listings[0].(map[string]interface{})
	assert.Equal(t, "REC", first["type"])
	assert.Equal(t, "500", first["kwh"])
	trades, ok := data["trades"].([]interface{})
	require.True(t, ok, "trades must render as an array")
	assert.Empty(t, trades)
}

// --- Integrity Handler Tests ---

func TestGetIntegrityReport_BareWireFormat(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/integrity", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	// No envelope: report fields sit at the top level.
	assert.NotContains(t, report, "data")
	assert.Equal(t, "test-node", report["node_name"])
	assert.Len(t, report["constants_hash"], 64)
	assert.Len(t, report["signature"], 16)
}

func TestValidate_UnreachablePeer(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/integrity/validate", gin.H{
		"remote_endpoint": "http://127.0.0.1:1/integrity",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, false, data["synchronized"])
	discrepancies := data["discrepancies"].([]interface{})
	require.Len(t, discrepancies, 1)
	assert.Equal(t, "Remote endpoint unreachable", discrepancies[0])
}

func TestValidate_BadEndpointScheme(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/integrity/validate", gin.H{
		"remote_endpoint": "ftp://example.com/integrity",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Query Handler Tests ---

func TestQuery_Balance(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/wallets", gin.H{"wallet_id": "kiddo"})

	w := do(t, r, http.MethodPost, "/kid/query", gin.H{
		"wallet_id": "kiddo",
		"text":      "what is my balance?",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Contains(t, data["answer"], "kiddo")
}

func TestQuery_MissingText(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/kid/query", gin.H{"wallet_id": "kiddo"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Health Check Test ---

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
