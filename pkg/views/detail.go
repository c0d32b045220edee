package views

import (
	"time"

	"evmscan/pkg/metrics"
	"evmscan/pkg/models"
	"evmscan/pkg/network"
	"evmscan/pkg/route"
	"evmscan/pkg/utils"
)

const NotFoundText = "Transaction details not available or transaction not found."

// DetailView renders one merged transaction record. Hex fields are kept as
// fetched and decoded on access.
type DetailView struct {
	Route       route.Route
	Transaction *models.TransactionDetail
	Loaded      bool

	// FormattedDate is filled by FormatDate after the record is applied.
	FormattedDate string

	settings Settings
}

func NewDetailView(r route.Route, s Settings) *DetailView {
	return &DetailView{Route: r, settings: s.withDefaults()}
}

func (v *DetailView) Network() network.Network { return v.Route.Network }

// ApplyDetail stores the fetched record. Any failure is rendered as not found.
func (v *DetailView) ApplyDetail(d *models.TransactionDetail, err error) {
	v.Loaded = true
	v.FormattedDate = ""
	if err != nil {
		v.settings.Logger.Warn("transaction detail unavailable", "network", v.Network(), "hash", v.Route.Hash, "err", err)
		metrics.DegradedResultsTotal.WithLabelValues("transaction", v.Network().String(), "detail").Inc()
		v.Transaction = nil
		return
	}
	v.Transaction = d
}

func (v *DetailView) NotFound() bool {
	return v.Loaded && v.Transaction == nil
}

// Successful is true only for status exactly "0x1".
func (v *DetailView) Successful() bool {
	return v.Transaction != nil && v.Transaction.Status == "0x1"
}

func (v *DetailView) StatusText() string {
	if v.Successful() {
		return "Successful"
	}
	return "Failed"
}

func (v *DetailView) hexField(get func(*models.TransactionDetail) string) string {
	if v.Transaction == nil {
		return utils.NotAvailable
	}
	return utils.HexToDecimalString(get(v.Transaction))
}

func (v *DetailView) BlockNumber() string {
	return v.hexField(func(d *models.TransactionDetail) string { return d.BlockNumber })
}

func (v *DetailView) GasUsed() string {
	return v.hexField(func(d *models.TransactionDetail) string { return d.GasUsed })
}

// EffectiveGasPrice is in wei.
func (v *DetailView) EffectiveGasPrice() string {
	return v.hexField(func(d *models.TransactionDetail) string { return d.EffectiveGasPrice })
}

// Value is the transferred amount in native units with the network's currency label.
func (v *DetailView) Value() string {
	if v.Transaction == nil {
		return utils.NotAvailable
	}
	amount, err := utils.HexWeiToNative(v.Transaction.Value)
	if err != nil {
		return utils.NotAvailable
	}
	return amount + " " + v.Network().CurrencyLabel()
}

// FormatDate renders the block timestamp. It runs after ApplyDetail as a
// separate step and only touches FormattedDate.
func (v *DetailView) FormatDate(loc *time.Location, layout string) {
	if v.Transaction == nil {
		v.FormattedDate = ""
		return
	}
	if loc == nil {
		loc = v.settings.Location
	}
	if layout == "" {
		layout = v.settings.DateLayout
	}
	ts, err := utils.ParseHexUnix(v.Transaction.TimeStamp)
	if err != nil {
		v.FormattedDate = utils.NotAvailable
		return
	}
	v.FormattedDate = utils.FormatTime(ts, loc, layout)
}

// FormatDateDefault uses the configured zone and layout.
func (v *DetailView) FormatDateDefault() {
	v.FormatDate(nil, "")
}

func (v *DetailView) ExplorerURL() string {
	hash := v.Route.Hash
	if v.Transaction != nil && v.Transaction.TransactionHash != "" {
		hash = v.Transaction.TransactionHash
	}
	return v.settings.explorerBase(v.Network()) + "/tx/" + hash
}

// AddressRoute links the from/to parties back to their address pages.
func (v *DetailView) AddressRoute(addr string) route.Route {
	return route.ForAddress(v.Network(), addr)
}
