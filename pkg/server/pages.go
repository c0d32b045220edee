package server

import (
	"net/url"
	"strings"

	"evmscan/pkg/models"
	"evmscan/pkg/network"
	"evmscan/pkg/table"
	"evmscan/pkg/views"
)

// helpText is shown in the page footer.
const helpText = "Lookups never report errors: a balance that cannot be fetched is shown as 0, " +
	"an unavailable transaction list is shown as empty and an unavailable transaction as not found. " +
	"An empty page may also mean the explorer API is unavailable."

type tab struct {
	Title  string
	Path   string
	Active bool
}

type page struct {
	Title string
	Tabs  []tab
	Help  string
}

func newPage(title string) page {
	return page{Title: title, Help: helpText}
}

type landingPage struct {
	page
	Address     string
	Network     network.Network
	Networks    []network.Network
	Error       string
	DemoAddress string
	DemoPath    string
}

type header struct {
	Title    string
	Arrow    string
	Priority int
	Sortable bool
	SortLink string
	AddLink  string
}

type cell struct {
	Text  string
	Title string
	Link  string
}

type addressPage struct {
	page
	Address      string
	Balance      string
	Symbol       string
	ExplorerName string
	ExplorerURL  string
	Filter       string
	Placeholder  string
	Path         string
	Sort         string
	Headers      []header
	Rows         [][]cell
	Empty        string
}

type detailPage struct {
	page
	Hash              string
	NotFound          bool
	NotFoundText      string
	Successful        bool
	Status            string
	BlockNumber       string
	Date              string
	From              string
	FromPath          string
	To                string
	ToPath            string
	Value             string
	GasUsed           string
	EffectiveGasPrice string
	ExplorerName      string
	ExplorerURL       string
}

type notFoundPage struct {
	page
}

func newNotFoundPage() notFoundPage {
	return notFoundPage{page: newPage("Page not found")}
}

// networkTabs links the same address on every network.
func networkTabs(v *views.AddressView) []tab {
	tabs := make([]tab, 0, len(network.All))
	for _, n := range network.All {
		tabs = append(tabs, tab{
			Title:  n.Title(),
			Path:   v.SwitchNetwork(n).Path(),
			Active: n == v.Network(),
		})
	}
	return tabs
}

// parseSorting reads sort=key.dir[,key.dir...]. An absent parameter keeps the
// default order; an empty one means unsorted.
func parseSorting(raw string, present bool) []table.SortKey {
	if !present {
		return views.DefaultSorting
	}
	var keys []table.SortKey
	for _, part := range strings.Split(raw, ",") {
		key, dir, _ := strings.Cut(strings.TrimSpace(part), ".")
		if key == "" {
			continue
		}
		keys = append(keys, table.SortKey{Key: key, Desc: dir == "desc"})
	}
	return keys
}

func formatSorting(keys []table.SortKey) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k.Key+"."+k.Direction().String())
	}
	return strings.Join(parts, ",")
}

func pageLink(path string, sorting []table.SortKey, filter string) string {
	q := url.Values{}
	q.Set("sort", formatSorting(sorting))
	if filter != "" {
		q.Set("q", filter)
	}
	return path + "?" + q.Encode()
}

func newAddressPage(v *views.AddressView) addressPage {
	t := v.Table
	path := v.Route.Path()
	p := addressPage{
		page:         newPage(v.Address()),
		Address:      v.Address(),
		Balance:      v.Balance,
		Symbol:       v.Network().Symbol(),
		ExplorerName: v.Network().ExplorerName(),
		ExplorerURL:  v.ExplorerURL(),
		Filter:       v.Filter(),
		Placeholder:  views.FilterPlaceholder,
		Path:         path,
		Sort:         formatSorting(t.Sorting()),
		Empty:        views.NoTransactionsText,
	}
	p.Tabs = networkTabs(v)

	multi := len(t.Sorting()) > 1
	for _, c := range t.Columns() {
		h := header{Title: c.Header, Sortable: c.Sortable}
		if c.Sortable {
			h.Arrow = t.SortDirection(c.Key).Arrow()
			if multi && h.Arrow != "" {
				h.Priority = t.SortIndex(c.Key) + 1
			}
			h.SortLink = pageLink(path, t.NextSorting(c.Key, false), p.Filter)
			h.AddLink = pageLink(path, t.NextSorting(c.Key, true), p.Filter)
		}
		p.Headers = append(p.Headers, h)
	}

	for _, tx := range v.Rows() {
		p.Rows = append(p.Rows, rowCells(t.Columns(), tx))
	}
	return p
}

func rowCells(cols []table.Column[models.Transaction], tx models.Transaction) []cell {
	cells := make([]cell, 0, len(cols))
	for _, c := range cols {
		ce := cell{Text: c.Render(tx)}
		if c.Title != nil {
			ce.Title = c.Title(tx)
		}
		if c.Link != nil {
			ce.Link = c.Link(tx)
		}
		cells = append(cells, ce)
	}
	return cells
}

func newDetailPage(v *views.DetailView) detailPage {
	p := detailPage{
		page:         newPage("Transaction " + v.Route.Hash),
		Hash:         v.Route.Hash,
		NotFound:     v.NotFound(),
		NotFoundText: views.NotFoundText,
		ExplorerName: v.Network().ExplorerName(),
		ExplorerURL:  v.ExplorerURL(),
	}
	tx := v.Transaction
	if tx == nil {
		return p
	}
	if tx.TransactionHash != "" {
		p.Hash = tx.TransactionHash
	}
	p.Successful = v.Successful()
	p.Status = v.StatusText()
	p.BlockNumber = v.BlockNumber()
	p.Date = v.FormattedDate
	p.From = tx.From
	p.To = tx.To
	if tx.From != "" {
		p.FromPath = v.AddressRoute(tx.From).Path()
	}
	if tx.To != "" {
		p.ToPath = v.AddressRoute(tx.To).Path()
	}
	p.Value = v.Value()
	p.GasUsed = v.GasUsed()
	p.EffectiveGasPrice = v.EffectiveGasPrice()
	return p
}
