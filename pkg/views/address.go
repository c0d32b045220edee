package views

import (
	"strconv"

	"evmscan/pkg/metrics"
	"evmscan/pkg/models"
	"evmscan/pkg/network"
	"evmscan/pkg/route"
	"evmscan/pkg/table"
	"evmscan/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	NoTransactionsText = "No transactions found."
	FilterPlaceholder  = "Search transaction hash..."
	// TruncateChars is how many characters of a hash or address stay visible at each end.
	TruncateChars = 10
)

// Column keys of the transaction table.
const (
	ColHash      = "hash"
	ColValue     = "value"
	ColFrom      = "from"
	ColTo        = "to"
	ColTimeStamp = "timeStamp"
	ColAction    = "action"
)

// DefaultSorting shows the newest transactions first.
var DefaultSorting = []table.SortKey{{Key: ColTimeStamp, Desc: true}}

// ZeroBalance is displayed until, or instead of, a fetched balance.
func ZeroBalance(n network.Network) string {
	return "0 " + n.Symbol()
}

// AddressView holds the balance and transaction table of one (network, address).
type AddressView struct {
	Route   route.Route
	Balance string
	Table   *table.Table[models.Transaction]

	BalanceLoaded      bool
	TransactionsLoaded bool

	settings Settings
}

func NewAddressView(r route.Route, s Settings) *AddressView {
	s = s.withDefaults()
	t := table.New(TransactionColumns(r.Network, s))
	t.SetSorting(DefaultSorting)
	return &AddressView{
		Route:    r,
		Balance:  ZeroBalance(r.Network),
		Table:    t,
		settings: s,
	}
}

func (v *AddressView) Network() network.Network { return v.Route.Network }
func (v *AddressView) Address() string          { return v.Route.Address }

// Loading reports whether either fetch is still outstanding.
func (v *AddressView) Loading() bool {
	return !v.BalanceLoaded || !v.TransactionsLoaded
}

// ApplyBalance stores the formatted balance. Any failure falls back to the
// zero balance without surfacing an error.
func (v *AddressView) ApplyBalance(wei string, err error) {
	v.BalanceLoaded = true
	if err == nil {
		var formatted string
		formatted, err = utils.FormatBalance(wei, v.Network().Symbol())
		if err == nil {
			v.Balance = formatted
			return
		}
	}
	v.settings.Logger.Warn("balance unavailable, showing zero", "network", v.Network(), "address", v.Address(), "err", err)
	metrics.DegradedResultsTotal.WithLabelValues("address", v.Network().String(), "balance").Inc()
	v.Balance = ZeroBalance(v.Network())
}

// ApplyTransactions stores at most TxLimit rows. A failure leaves the table empty.
func (v *AddressView) ApplyTransactions(txs []models.Transaction, err error) {
	v.TransactionsLoaded = true
	if err != nil {
		v.settings.Logger.Warn("transactions unavailable, showing none", "network", v.Network(), "address", v.Address(), "err", err)
		metrics.DegradedResultsTotal.WithLabelValues("address", v.Network().String(), "transactions").Inc()
		v.Table.SetRows(nil)
		return
	}
	if len(txs) > v.settings.TxLimit {
		txs = txs[:v.settings.TxLimit]
	}
	v.Table.SetRows(txs)
}

// Rows is the filtered and sorted row set.
func (v *AddressView) Rows() []models.Transaction { return v.Table.Rows() }

func (v *AddressView) SetFilter(s string) { v.Table.SetFilter(ColHash, s) }
func (v *AddressView) Filter() string     { return v.Table.Filter(ColHash) }

// SwitchNetwork returns the route of the same address on n.
func (v *AddressView) SwitchNetwork(n network.Network) route.Route {
	return v.Route.WithNetwork(n)
}

func (v *AddressView) DetailRoute(tx models.Transaction) route.Route {
	return route.ForTransaction(v.Network(), tx.Hash)
}

// ExplorerURL links to the address on the network's public explorer.
func (v *AddressView) ExplorerURL() string {
	return v.settings.explorerBase(v.Network()) + "/address/" + v.Address()
}

// ValueSeries returns transaction values in native units, oldest first, for charting.
func (v *AddressView) ValueSeries() []float64 {
	rows := v.Table.Rows()
	byTime := table.New(TransactionColumns(v.Network(), v.settings))
	byTime.SetRows(rows)
	byTime.SetSorting([]table.SortKey{{Key: ColTimeStamp}})

	var out []float64
	for _, tx := range byTime.Rows() {
		wei, err := utils.ParseDecimalWei(tx.Value)
		if err != nil {
			continue
		}
		f, _ := wei.Shift(-18).Float64()
		out = append(out, f)
	}
	return out
}

// TransactionColumns describes the transaction table for network n.
func TransactionColumns(n network.Network, s Settings) []table.Column[models.Transaction] {
	s = s.withDefaults()
	detailPath := func(tx models.Transaction) string {
		return route.ForTransaction(n, tx.Hash).Path()
	}
	return []table.Column[models.Transaction]{
		{
			Key:         ColHash,
			Header:      "Transaction Hash",
			Render:      func(tx models.Transaction) string { return utils.TruncateMiddle(tx.Hash, TruncateChars) },
			Title:       func(tx models.Transaction) string { return tx.Hash },
			Link:        detailPath,
			Filterable:  true,
			FilterValue: func(tx models.Transaction) string { return tx.Hash },
		},
		{
			Key:    ColValue,
			Header: "Value (" + n.Symbol() + ")",
			Render: func(tx models.Transaction) string {
				v, err := utils.FormatWei(tx.Value)
				if err != nil {
					return utils.NotAvailable
				}
				return v + " " + n.Symbol()
			},
			Sortable: true,
			Compare: func(a, b models.Transaction) int {
				return weiOrZero(a.Value).Cmp(weiOrZero(b.Value))
			},
		},
		{
			Key:    ColFrom,
			Header: "From Address",
			Render: func(tx models.Transaction) string { return utils.TruncateMiddle(tx.From, TruncateChars) },
			Title:  func(tx models.Transaction) string { return tx.From },
		},
		{
			Key:    ColTo,
			Header: "To Address",
			Render: func(tx models.Transaction) string { return utils.TruncateMiddle(tx.To, TruncateChars) },
			Title:  func(tx models.Transaction) string { return tx.To },
		},
		{
			Key:    ColTimeStamp,
			Header: "Date",
			Render: func(tx models.Transaction) string {
				ts, err := utils.ParseUnix(tx.TimeStamp)
				if err != nil {
					return utils.NotAvailable
				}
				return utils.FormatTime(ts, s.Location, s.DateLayout)
			},
			Sortable: true,
			Compare: func(a, b models.Transaction) int {
				x, y := unixOrZero(a.TimeStamp), unixOrZero(b.TimeStamp)
				switch {
				case x < y:
					return -1
				case x > y:
					return 1
				}
				return 0
			},
		},
		{
			Key:    ColAction,
			Header: "Action",
			Render: func(models.Transaction) string { return "View Details" },
			Link:   detailPath,
		},
	}
}

func weiOrZero(raw string) decimal.Decimal {
	d, err := utils.ParseDecimalWei(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func unixOrZero(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
