package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"evmscan/pkg/config"
	"evmscan/pkg/metrics"
	"evmscan/pkg/network"
	"evmscan/pkg/scan"
	"evmscan/pkg/views"
	"evmscan/pkg/watcher"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demo = views.DemoAddress

// explorer is a fake etherscan-style API keyed by action.
type explorer struct {
	mu        sync.Mutex
	calls     []string
	responses map[string]interface{}
}

func (e *explorer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	e.mu.Lock()
	e.calls = append(e.calls, action)
	resp, ok := e.responses[action]
	e.mu.Unlock()
	if !ok {
		http.Error(w, "unexpected action", http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (e *explorer) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

func accountOK(result interface{}) map[string]interface{} {
	return map[string]interface{}{"status": "1", "message": "OK", "result": result}
}

func proxy(result interface{}) map[string]interface{} {
	return map[string]interface{}{"jsonrpc": "2.0", "id": 1, "result": result}
}

func txList(n int) []map[string]string {
	out := make([]map[string]string, n)
	for i := range out {
		out[i] = map[string]string{
			"hash":      fmt.Sprintf("0x%064x", i),
			"value":     fmt.Sprintf("%d", i),
			"timeStamp": fmt.Sprintf("%d", 1700000000+i),
			"from":      demo,
			"to":        "0x000000000000000000000000000000000000dEaD",
		}
	}
	return out
}

type fixture struct {
	server   *Server
	explorer map[network.Network]*explorer
}

func newFixture(t *testing.T, responses map[network.Network]map[string]interface{}) fixture {
	t.Helper()
	cfg := config.Default()
	cfg.TimeZone = "UTC"
	f := fixture{explorer: map[network.Network]*explorer{}}
	for _, n := range network.All {
		e := &explorer{responses: responses[n]}
		srv := httptest.NewServer(e)
		t.Cleanup(srv.Close)
		f.explorer[n] = e
		cfg.Networks[n] = config.NetworkConfig{
			APIURL:            srv.URL,
			ExplorerURL:       n.DefaultExplorerURL(),
			APIKey:            "test-key",
			RequestsPerSecond: 100,
		}
	}
	cfg.RequestTimeoutSeconds = 5

	ds := watcher.NewRealDataSource(scan.NewClients(cfg, nil, nil))
	f.server = NewServer(ds, views.SettingsFromConfig(cfg, nil), nil)
	return f
}

func (f fixture) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	f.server.Engine().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	w := f.get("/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetrics(t *testing.T) {
	f := newFixture(t, nil)
	f.get("/")
	w := f.get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "evmscan_views_renders_total")
}

func TestLanding(t *testing.T) {
	f := newFixture(t, nil)
	w := f.get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="address"`)
	assert.Contains(t, w.Body.String(), "/transactions/ethereum/address/"+demo)
	assert.NotContains(t, w.Body.String(), views.InvalidAddressMessage)
}

func TestLandingSubmit(t *testing.T) {
	f := newFixture(t, nil)

	w := f.get("/?address=0x123&network=polygon")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), views.InvalidAddressMessage)

	w = f.get("/?address=" + demo + "&network=polygon")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/transactions/polygon/address/"+demo, w.Header().Get("Location"))

	for _, e := range f.explorer {
		assert.Empty(t, e.Calls())
	}
}

func TestUnknownNetworkIsNotFound(t *testing.T) {
	f := newFixture(t, nil)
	for _, path := range []string{
		"/transactions/bsc/address/" + demo,
		"/transactions/bsc/hash/0xabc",
		"/transactions/ethereum/block/1",
		"/nowhere",
	} {
		w := f.get(path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), "Page not found", path)
	}

	w := f.get("/api/transactions/bsc/hash/0xabc")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown network")
}

func TestAddressPage(t *testing.T) {
	f := newFixture(t, map[network.Network]map[string]interface{}{
		network.Ethereum: {
			"balance": accountOK("2500000000000000000"),
			"txlist":  accountOK(txList(150)),
		},
	})

	w := f.get("/transactions/ethereum/address/" + demo)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "2.5000000 ETH")
	assert.Contains(t, body, "Date ▼")
	assert.Contains(t, body, "https://etherscan.io/address/"+demo)
	assert.Contains(t, body, `href="/transactions/polygon/address/`+demo+`"`)
	assert.Equal(t, 100, strings.Count(body, "View Details"))

	assert.ElementsMatch(t, []string{"balance", "txlist"}, f.explorer[network.Ethereum].Calls())
	assert.Empty(t, f.explorer[network.Polygon].Calls())
}

func TestAddressPageDegrades(t *testing.T) {
	f := newFixture(t, map[network.Network]map[string]interface{}{
		network.Polygon: {
			"balance": map[string]string{"status": "0", "message": "NOTOK", "result": "Invalid API Key"},
			"txlist":  map[string]interface{}{"status": "0", "message": "No transactions found", "result": []string{}},
		},
	})

	w := f.get("/transactions/polygon/address/" + demo)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0 MATIC")
	assert.Contains(t, w.Body.String(), views.NoTransactionsText)
	assert.NotContains(t, w.Body.String(), "Invalid API Key")
}

func TestEmptyAddressIsNotDegraded(t *testing.T) {
	f := newFixture(t, map[network.Network]map[string]interface{}{
		network.Ethereum: {
			"balance": accountOK("0"),
			"txlist":  map[string]interface{}{"status": "0", "message": "No transactions found", "result": []string{}},
		},
	})
	degraded := metrics.DegradedResultsTotal.WithLabelValues("address", "ethereum", "transactions")
	before := testutil.ToFloat64(degraded)

	w := f.get("/transactions/ethereum/address/" + demo)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), views.NoTransactionsText)
	assert.Equal(t, before, testutil.ToFloat64(degraded))
}

func TestNetworkSwitchFetchesFromPolygon(t *testing.T) {
	f := newFixture(t, map[network.Network]map[string]interface{}{
		network.Ethereum: {"balance": accountOK("1"), "txlist": accountOK(txList(1))},
		network.Polygon:  {"balance": accountOK("1000000000000000000"), "txlist": accountOK(txList(2))},
	})

	w := f.get("/transactions/ethereum/address/" + demo)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/transactions/polygon/address/`+demo+`"`)

	w = f.get("/transactions/polygon/address/" + demo)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1.0000000 MATIC")
	assert.Contains(t, w.Body.String(), "Value (MATIC)")
	assert.ElementsMatch(t, []string{"balance", "txlist"}, f.explorer[network.Polygon].Calls())
	assert.Len(t, f.explorer[network.Ethereum].Calls(), 2)
}

func TestAPIAddressSortAndFilter(t *testing.T) {
	f := newFixture(t, map[network.Network]map[string]interface{}{
		network.Ethereum: {"balance": accountOK("0"), "txlist": accountOK(txList(12))},
	})

	var resp addressResponse
	w := f.get("/api/transactions/ethereum/address/" + demo)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Transactions, 12)
	assert.Equal(t, "timeStamp.desc", resp.Sort)
	assert.Equal(t, fmt.Sprintf("0x%064x", 11), resp.Transactions[0].Hash)

	w = f.get("/api/transactions/ethereum/address/" + demo + "?sort=value.asc")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "value.asc", resp.Sort)
	assert.Equal(t, fmt.Sprintf("0x%064x", 0), resp.Transactions[0].Hash)

	// hex digit b only occurs in row 11; the filter is case-sensitive
	w = f.get("/api/transactions/ethereum/address/" + demo + "?q=b")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, fmt.Sprintf("0x%064x", 11), resp.Transactions[0].Hash)
	assert.Equal(t, "b", resp.Filter)

	w = f.get("/api/transactions/ethereum/address/" + demo + "?q=B")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Transactions)

	// an explicit empty sort keeps fetch order; unknown keys are dropped
	w = f.get("/api/transactions/ethereum/address/" + demo + "?sort=&q=")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Sort)
	assert.Equal(t, fmt.Sprintf("0x%064x", 0), resp.Transactions[0].Hash)

	w = f.get("/api/transactions/ethereum/address/" + demo + "?sort=hash.asc")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Sort)
}

func TestTransactionPage(t *testing.T) {
	hash := "0xfeed"
	f := newFixture(t, map[network.Network]map[string]interface{}{
		network.Ethereum: {
			"eth_getTransactionReceipt": proxy(map[string]string{
				"transactionHash":   hash,
				"from":              demo,
				"to":                "0x000000000000000000000000000000000000dEaD",
				"blockNumber":       "0x10d4f",
				"gasUsed":           "0x5208",
				"effectiveGasPrice": "0x4a817c800",
				"status":            "0x1",
			}),
			"eth_getTransactionByHash": proxy(map[string]string{"hash": hash, "value": "0x22b1c8c1227a0000"}),
			"eth_getBlockByNumber":     proxy(map[string]string{"number": "0x10d4f", "timestamp": "0x6553f100"}),
		},
	})

	w := f.get("/transactions/ethereum/hash/" + hash)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Successful")
	assert.Contains(t, body, "68943")
	assert.Contains(t, body, "21000")
	assert.Contains(t, body, "20000000000 wei")
	assert.Contains(t, body, "2.5 Ether")
	assert.Contains(t, body, "14.11.2023, 22:13:20")
	assert.Contains(t, body, "https://etherscan.io/tx/"+hash)
	assert.Contains(t, body, "/transactions/ethereum/address/"+demo)
	assert.Equal(t, []string{"eth_getTransactionReceipt", "eth_getTransactionByHash", "eth_getBlockByNumber"},
		f.explorer[network.Ethereum].Calls())

	var resp transactionResponse
	w = f.get("/api/transactions/ethereum/hash/" + hash)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Successful)
	assert.Equal(t, "2.5 Ether", resp.Value)
}

func TestTransactionNotFound(t *testing.T) {
	f := newFixture(t, map[network.Network]map[string]interface{}{
		network.Polygon: {"eth_getTransactionReceipt": proxy(nil)},
	})

	w := f.get("/transactions/polygon/hash/0xabc")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), views.NotFoundText)
	assert.Equal(t, []string{"eth_getTransactionReceipt"}, f.explorer[network.Polygon].Calls())

	w = f.get("/api/transactions/polygon/hash/0xabc")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	f := newFixture(t, nil)
	f.server.Engine().GET("/api/panic", func(*gin.Context) { panic("boom") })
	w := f.get("/api/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}
