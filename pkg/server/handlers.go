package server

import (
	"net/http"
	"sync"

	"evmscan/pkg/metrics"
	"evmscan/pkg/models"
	"evmscan/pkg/network"
	"evmscan/pkg/route"
	"evmscan/pkg/views"

	"github.com/gin-gonic/gin"
)

// Landing renders the search form. A submitted form (address query present)
// redirects to the address page or re-renders with the inline error.
// GET /
func (s *Server) Landing(c *gin.Context) {
	l := views.NewLanding()
	if n, err := network.Parse(c.Query("network")); err == nil {
		l.SetNetwork(n)
	}

	status := http.StatusOK
	if address, submitted := c.GetQuery("address"); submitted {
		l.SetAddress(address)
		r, err := l.Submit()
		if err == nil {
			c.Redirect(http.StatusSeeOther, r.Path())
			return
		}
		status = http.StatusUnprocessableEntity
	}

	metrics.PageRendersTotal.WithLabelValues("landing", "").Inc()
	c.HTML(status, "landing.html", landingPage{
		page:        newPage("EVM Scan"),
		Address:     l.Address,
		Network:     l.Network,
		Networks:    network.All,
		Error:       l.Error,
		DemoAddress: views.DemoAddress,
		DemoPath:    views.DemoRoute().Path(),
	})
}

// loadAddress runs the balance and list fetches concurrently and applies both.
func (s *Server) loadAddress(c *gin.Context) *views.AddressView {
	n, _ := network.Parse(c.Param("network"))
	r := route.ForAddress(n, c.Param("address"))
	v := views.NewAddressView(r, s.settings)

	var (
		wg     sync.WaitGroup
		wei    string
		balErr error
		txs    []models.Transaction
		txErr  error
	)
	ctx := c.Request.Context()
	wg.Add(2)
	go func() {
		defer wg.Done()
		wei, balErr = s.data.FetchBalance(ctx, n, r.Address)
	}()
	go func() {
		defer wg.Done()
		txs, txErr = s.data.FetchTransactions(ctx, n, r.Address)
	}()
	wg.Wait()

	v.ApplyBalance(wei, balErr)
	v.ApplyTransactions(txs, txErr)

	sorting, present := c.GetQuery("sort")
	v.Table.SetSorting(parseSorting(sorting, present))
	v.SetFilter(c.Query("q"))
	return v
}

// Address renders the balance and transaction table.
// GET /transactions/:network/address/:address
func (s *Server) Address(c *gin.Context) {
	v := s.loadAddress(c)
	metrics.PageRendersTotal.WithLabelValues("address", v.Network().String()).Inc()
	c.HTML(http.StatusOK, "address.html", newAddressPage(v))
}

func (s *Server) loadDetail(c *gin.Context) *views.DetailView {
	n, _ := network.Parse(c.Param("network"))
	v := views.NewDetailView(route.ForTransaction(n, c.Param("hash")), s.settings)
	v.ApplyDetail(s.data.FetchTransactionDetail(c.Request.Context(), n, v.Route.Hash))
	v.FormatDateDefault()
	return v
}

// Transaction renders the merged receipt, transaction and block record.
// GET /transactions/:network/hash/:hash
func (s *Server) Transaction(c *gin.Context) {
	v := s.loadDetail(c)
	metrics.PageRendersTotal.WithLabelValues("transaction", v.Network().String()).Inc()
	c.HTML(http.StatusOK, "detail.html", newDetailPage(v))
}

// NotFound renders the catch-all page.
func (s *Server) NotFound(c *gin.Context) {
	if isAPI(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.HTML(http.StatusNotFound, "notfound.html", newNotFoundPage())
}

type addressResponse struct {
	Network      network.Network      `json:"network"`
	Address      string               `json:"address"`
	Balance      string               `json:"balance"`
	Sort         string               `json:"sort"`
	Filter       string               `json:"filter,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
}

// APIAddress returns the address page data as JSON.
// GET /api/transactions/:network/address/:address
func (s *Server) APIAddress(c *gin.Context) {
	v := s.loadAddress(c)
	rows := v.Rows()
	if rows == nil {
		rows = []models.Transaction{}
	}
	c.JSON(http.StatusOK, addressResponse{
		Network:      v.Network(),
		Address:      v.Address(),
		Balance:      v.Balance,
		Sort:         formatSorting(v.Table.Sorting()),
		Filter:       v.Filter(),
		Transactions: rows,
	})
}

type transactionResponse struct {
	Network           network.Network `json:"network"`
	Hash              string          `json:"hash"`
	Status            string          `json:"status"`
	Successful        bool            `json:"successful"`
	BlockNumber       string          `json:"blockNumber"`
	Date              string          `json:"date"`
	From              string          `json:"from"`
	To                string          `json:"to"`
	Value             string          `json:"value"`
	GasUsed           string          `json:"gasUsed"`
	EffectiveGasPrice string          `json:"effectiveGasPrice"`
	ExplorerURL       string          `json:"explorerUrl"`
}

// APITransaction returns the decoded detail record as JSON.
// GET /api/transactions/:network/hash/:hash
func (s *Server) APITransaction(c *gin.Context) {
	v := s.loadDetail(c)
	if v.NotFound() {
		c.JSON(http.StatusNotFound, gin.H{"error": views.NotFoundText})
		return
	}
	p := newDetailPage(v)
	c.JSON(http.StatusOK, transactionResponse{
		Network:           v.Network(),
		Hash:              p.Hash,
		Status:            p.Status,
		Successful:        p.Successful,
		BlockNumber:       p.BlockNumber,
		Date:              p.Date,
		From:              p.From,
		To:                p.To,
		Value:             p.Value,
		GasUsed:           p.GasUsed,
		EffectiveGasPrice: p.EffectiveGasPrice,
		ExplorerURL:       p.ExplorerURL,
	})
}
