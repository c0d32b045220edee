package models

// Transaction is a row of the account transaction list. Numeric fields are
// decimal strings as returned by the explorer.
type Transaction struct {
	Hash      string `json:"hash"`
	Value     string `json:"value"`
	TimeStamp string `json:"timeStamp"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// Receipt holds the receipt fields used by the detail view. Numeric fields are 0x hex.
type Receipt struct {
	TransactionHash   string `json:"transactionHash"`
	From              string `json:"from"`
	To                string `json:"to"`
	BlockNumber       string `json:"blockNumber"`
	GasUsed           string `json:"gasUsed"`
	EffectiveGasPrice string `json:"effectiveGasPrice"`
	Status            string `json:"status"`
}

// ProxyTransaction is the subset of eth_getTransactionByHash we read.
type ProxyTransaction struct {
	Hash  string `json:"hash"`
	Value string `json:"value"`
}

// ProxyBlock is the subset of eth_getBlockByNumber we read.
type ProxyBlock struct {
	Number    string `json:"number"`
	Timestamp string `json:"timestamp"`
}

// TransactionDetail merges a receipt with the transaction value and block
// timestamp. Empty Value or TimeStamp means the source record was missing.
type TransactionDetail struct {
	Receipt
	Value     string `json:"value"`
	TimeStamp string `json:"timeStamp"`
}

// NetworkResult holds check results for one network.
type NetworkResult struct {
	Network     string `json:"network"`
	APIURL      string `json:"api_url"`
	HasAPIKey   bool   `json:"has_api_key"`
	Status      string `json:"status"` // "ok" or "error"
	BlockNumber uint64 `json:"block_number,omitempty"`
	LatencyMS   int64  `json:"latency_ms,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CheckReport holds the results of the configuration check.
type CheckReport struct {
	ConfigPath      string          `json:"config_path"`
	ValidStructure  bool            `json:"valid_structure"`
	StructureErrors []string        `json:"structure_errors,omitempty"`
	Networks        []NetworkResult `json:"networks,omitempty"`
}
