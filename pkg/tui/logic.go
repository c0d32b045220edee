package tui

import (
	"time"

	"evmscan/pkg/metrics"
	"evmscan/pkg/models"
	"evmscan/pkg/route"
	"evmscan/pkg/views"
	"evmscan/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
)

// navigate switches to r and starts its fetches. The previous route is pushed
// onto the history unless push is false.
func (m model) navigate(r route.Route, push bool) (model, tea.Cmd) {
	if push && m.route != r {
		m.history = append(m.history, m.route)
	}
	m.route = r
	m.showGraph = false
	m.filtering = false
	m.filterInput.Blur()
	m.filterInput.SetValue("")
	m.rowIdx = 0

	m.address = nil
	m.detail = nil
	switch r.Kind {
	case route.Address:
		m.address = views.NewAddressView(r, m.settings)
		metrics.PageRendersTotal.WithLabelValues("address", r.Network.String()).Inc()
	case route.Transaction:
		m.detail = views.NewDetailView(r, m.settings)
		metrics.PageRendersTotal.WithLabelValues("transaction", r.Network.String()).Inc()
	default:
		m.landing = views.NewLanding()
		m.addressInput.SetValue("")
		m.addressInput.Focus()
		metrics.PageRendersTotal.WithLabelValues("landing", "").Inc()
	}

	m.generation = m.watcher.Navigate(m.ctx, r)
	if m.loading() {
		return m, m.spinner.Tick
	}
	return m, nil
}

// back returns to the previous route, or to the landing page when there is none.
func (m model) back() (model, tea.Cmd) {
	prev := route.Home()
	if n := len(m.history); n > 0 {
		prev = m.history[n-1]
		m.history = m.history[:n-1]
	}
	return m.navigate(prev, false)
}

// applyEvent feeds a watcher result into the current view. Results of an
// older navigation are ignored.
func (m model) applyEvent(ev watcher.Event) (model, tea.Cmd) {
	if ev.Generation != m.generation {
		return m, nil
	}
	switch ev.Type {
	case watcher.EventBalanceUpdated:
		if data, ok := ev.Data.(watcher.BalanceData); ok && m.address != nil {
			m.address.ApplyBalance(data.Wei, data.Err)
		}
	case watcher.EventTransactionsUpdated:
		if data, ok := ev.Data.(watcher.TransactionsData); ok && m.address != nil {
			m.address.ApplyTransactions(data.Transactions, data.Err)
			m.rowIdx = 0
		}
	case watcher.EventDetailUpdated:
		if data, ok := ev.Data.(watcher.DetailData); ok && m.detail != nil {
			m.detail.ApplyDetail(data.Detail, data.Err)
			gen := ev.Generation
			return m, func() tea.Msg { return formatDateMsg{generation: gen} }
		}
	}
	return m, nil
}

// sortableKeys lists the columns the column cursor can land on.
func (m model) sortableKeys() []string {
	if m.address == nil {
		return nil
	}
	var keys []string
	for _, c := range m.address.Table.Columns() {
		if c.Sortable {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

func (m model) selectedSortKey() string {
	keys := m.sortableKeys()
	if len(keys) == 0 {
		return ""
	}
	return keys[m.sortColIdx%len(keys)]
}

func (m model) selectedTransaction() (models.Transaction, bool) {
	if m.address == nil {
		return models.Transaction{}, false
	}
	rows := m.address.Rows()
	if m.rowIdx < 0 || m.rowIdx >= len(rows) {
		return models.Transaction{}, false
	}
	return rows[m.rowIdx], true
}

func (m *model) clampRow() {
	if m.address == nil {
		m.rowIdx = 0
		return
	}
	n := len(m.address.Rows())
	if m.rowIdx >= n {
		m.rowIdx = n - 1
	}
	if m.rowIdx < 0 {
		m.rowIdx = 0
	}
}

func (m model) setStatus(s string) (model, tea.Cmd) {
	m.statusMessage = s
	return m, tea.Tick(time.Second*2, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func listenForWatcher(sub watcher.Subscriber) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub
		if !ok {
			return nil
		}
		return ev
	}
}
