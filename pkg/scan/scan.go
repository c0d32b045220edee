// Package scan is a client for the Etherscan-compatible explorer APIs.
package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"evmscan/pkg/config"
	"evmscan/pkg/metrics"
	"evmscan/pkg/models"
	"evmscan/pkg/network"
	"evmscan/pkg/utils"

	"github.com/charmbracelet/log"
)

var (
	// ErrAPIStatus means the explorer answered but reported a failure.
	ErrAPIStatus = errors.New("explorer reported failure")
	// ErrMissingAPIKey means no key is configured for the network.
	ErrMissingAPIKey = errors.New("missing explorer api key")

	// errNoRecords is the status "0" answer for a query that matched nothing.
	errNoRecords = fmt.Errorf("%w: no records", ErrAPIStatus)
)

const noTransactionsMessage = "No transactions found"

const maxBodyBytes = 32 << 20

// Client talks to the explorer API of a single network.
type Client struct {
	network network.Network
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *Limiter
	logger  *log.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(n network.Network, nc config.NetworkConfig, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		network: n,
		baseURL: nc.APIURL,
		apiKey:  nc.APIKey,
		http:    &http.Client{Timeout: timeout},
		limiter: NewLimiter(nc.RequestsPerSecond, n.String()),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Network() network.Network { return c.network }

func (c *Client) HasAPIKey() bool { return c.apiKey != "" }

// accountEnvelope wraps responses of the account module.
type accountEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// proxyEnvelope wraps responses of the proxy module (JSON-RPC passthrough).
type proxyEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) get(ctx context.Context, module, action string, params url.Values) (body []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.ExplorerRequestsTotal.WithLabelValues(c.network.String(), action, ClassifyError(err)).Inc()
		metrics.ExplorerRequestLatency.WithLabelValues(c.network.String(), action).Observe(time.Since(start).Seconds())
		if err != nil {
			c.logger.Debug("explorer request failed", "network", c.network, "action", action, "err", err)
		}
	}()

	if c.apiKey == "" {
		return nil, fmt.Errorf("%s %s: %w (set %s)", c.network, action, ErrMissingAPIKey, c.network.APIKeyEnv())
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("module", module)
	q.Set("action", action)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.network, action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: unexpected status %d", c.network, action, resp.StatusCode)
	}
	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", c.network, action, err)
	}
	return body, nil
}

func (c *Client) account(ctx context.Context, action string, params url.Values, out interface{}) error {
	body, err := c.get(ctx, "account", action, params)
	if err != nil {
		return err
	}
	var env accountEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%s %s: decode envelope: %w", c.network, action, err)
	}
	if env.Status == "0" && strings.EqualFold(env.Message, noTransactionsMessage) {
		return errNoRecords
	}
	if env.Status != "1" {
		return fmt.Errorf("%s %s: %w: status %q: %s", c.network, action, ErrAPIStatus, env.Status, env.Message)
	}
	if len(env.Result) == 0 {
		return fmt.Errorf("%s %s: %w: missing result", c.network, action, ErrAPIStatus)
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%s %s: decode result: %w", c.network, action, err)
	}
	return nil
}

// proxy decodes a proxy result into out. It reports found=false for a null result.
func (c *Client) proxy(ctx context.Context, action string, params url.Values, out interface{}) (found bool, err error) {
	body, err := c.get(ctx, "proxy", action, params)
	if err != nil {
		return false, err
	}
	var env proxyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return false, fmt.Errorf("%s %s: decode envelope: %w", c.network, action, err)
	}
	if env.Error != nil {
		return false, fmt.Errorf("%s %s: %w: %s", c.network, action, ErrAPIStatus, env.Error.Message)
	}
	if len(env.Result) == 0 || string(env.Result) == "null" {
		return false, nil
	}
	// Key and quota errors come back as a bare string in result.
	if env.Result[0] == '"' {
		if _, isString := out.(*string); !isString {
			var msg string
			_ = json.Unmarshal(env.Result, &msg)
			return false, fmt.Errorf("%s %s: %w: %s", c.network, action, ErrAPIStatus, msg)
		}
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return false, fmt.Errorf("%s %s: decode result: %w", c.network, action, err)
	}
	return true, nil
}

// FetchBalance returns the account balance in wei as a decimal string.
func (c *Client) FetchBalance(ctx context.Context, address string) (string, error) {
	var wei string
	err := c.account(ctx, "balance", url.Values{"address": {address}, "tag": {"latest"}}, &wei)
	if err != nil {
		return "", err
	}
	return wei, nil
}

// FetchTransactions returns the account's normal transactions, oldest first.
func (c *Client) FetchTransactions(ctx context.Context, address string) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := c.account(ctx, "txlist", url.Values{"address": {address}, "sort": {"asc"}}, &txs)
	if errors.Is(err, errNoRecords) {
		return []models.Transaction{}, nil
	}
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// FetchReceipt returns nil without error when the explorer has no receipt for hash.
func (c *Client) FetchReceipt(ctx context.Context, hash string) (*models.Receipt, error) {
	var r models.Receipt
	found, err := c.proxy(ctx, "eth_getTransactionReceipt", url.Values{"txhash": {hash}}, &r)
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}

func (c *Client) FetchTransactionByHash(ctx context.Context, hash string) (*models.ProxyTransaction, error) {
	var tx models.ProxyTransaction
	found, err := c.proxy(ctx, "eth_getTransactionByHash", url.Values{"txhash": {hash}}, &tx)
	if err != nil || !found {
		return nil, err
	}
	return &tx, nil
}

// FetchBlockByNumber takes the block number as the hex tag returned in receipts.
func (c *Client) FetchBlockByNumber(ctx context.Context, number string) (*models.ProxyBlock, error) {
	var b models.ProxyBlock
	found, err := c.proxy(ctx, "eth_getBlockByNumber", url.Values{"tag": {number}, "boolean": {"true"}}, &b)
	if err != nil || !found {
		return nil, err
	}
	return &b, nil
}

func (c *Client) FetchBlockNumber(ctx context.Context) (uint64, error) {
	var hex string
	found, err := c.proxy(ctx, "eth_blockNumber", nil, &hex)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("%s eth_blockNumber: %w: empty result", c.network, ErrAPIStatus)
	}
	n, err := utils.ParseHex(hex)
	if err != nil {
		return 0, fmt.Errorf("%s eth_blockNumber: %w: %s", c.network, ErrAPIStatus, hex)
	}
	return n.Uint64(), nil
}

// FetchTransactionDetail fetches the receipt and, only if it exists, the
// transaction and its block, strictly in that order. A nil detail with a nil
// error means the transaction was not found.
func (c *Client) FetchTransactionDetail(ctx context.Context, hash string) (*models.TransactionDetail, error) {
	receipt, err := c.FetchReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("receipt: %w", err)
	}
	if receipt == nil {
		return nil, nil
	}

	detail := &models.TransactionDetail{Receipt: *receipt}

	tx, err := c.FetchTransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("transaction: %w", err)
	}
	if tx != nil {
		detail.Value = tx.Value
	}

	block, err := c.FetchBlockByNumber(ctx, receipt.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("block: %w", err)
	}
	if block != nil {
		detail.TimeStamp = block.Timestamp
	}
	return detail, nil
}
