package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"evmscan/pkg/models"
	"evmscan/pkg/network"
	"evmscan/pkg/route"
	"evmscan/pkg/table"
	"evmscan/pkg/views"
	"evmscan/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDataSource struct{}

func (stubDataSource) FetchBalance(context.Context, network.Network, string) (string, error) {
	return "1000000000000000000", nil
}

func (stubDataSource) FetchTransactions(context.Context, network.Network, string) ([]models.Transaction, error) {
	return []models.Transaction{
		{Hash: "0xaaa", Value: "1", TimeStamp: "1700000000"},
		{Hash: "0xbbb", Value: "3", TimeStamp: "1700000100"},
		{Hash: "0xccc", Value: "2", TimeStamp: "1700000200"},
	}, nil
}

func (stubDataSource) FetchTransactionDetail(context.Context, network.Network, string) (*models.TransactionDetail, error) {
	return nil, nil
}

func testModel(t *testing.T) model {
	t.Helper()
	w := watcher.NewWatcher(stubDataSource{}, nil)
	t.Cleanup(w.Stop)
	s := views.Settings{Location: time.UTC}
	m := initialModel(context.Background(), w, s, route.Home())
	m.width, m.height = 200, 50
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m model, keys ...string) model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(model)
	}
	return m
}

func typeText(m model, s string) model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(model)
}

func drain(t *testing.T, m model, n int) model {
	t.Helper()
	m.watcher.Wait()
	for i := 0; i < n; i++ {
		select {
		case ev := <-m.sub:
			next, _ := m.Update(ev)
			m = next.(model)
		case <-time.After(time.Second):
			t.Fatalf("Timed out waiting for event %d", i)
		}
	}
	return m
}

func TestLandingRejectsInvalidAddress(t *testing.T) {
	m := testModel(t)
	m = typeText(m, "0x123")
	m = press(m, "enter")

	assert.Equal(t, route.Landing, m.route.Kind)
	assert.Equal(t, uint64(0), m.generation)
	assert.Equal(t, views.InvalidAddressMessage, m.landing.Error)
	assert.Contains(t, m.View(), views.InvalidAddressMessage)

	// editing clears the error
	m = typeText(m, "4")
	assert.Empty(t, m.landing.Error)
}

func TestLandingSubmitNavigates(t *testing.T) {
	m := testModel(t)
	m = press(m, "tab")
	assert.Equal(t, network.Polygon, m.landing.Network)

	m = typeText(m, views.DemoAddress)
	m = press(m, "enter")
	require.Equal(t, route.Address, m.route.Kind)
	assert.Equal(t, network.Polygon, m.route.Network)
	assert.Equal(t, "0 MATIC", m.address.Balance)

	m = drain(t, m, 3)
	assert.Equal(t, "1.0000000 MATIC", m.address.Balance)
	assert.Len(t, m.address.Rows(), 3)
	assert.False(t, m.loading())
}

func TestStaleEventIgnored(t *testing.T) {
	m := testModel(t)
	m = typeText(m, views.DemoAddress)
	m = press(m, "enter")
	m = drain(t, m, 3)

	stale := watcher.Event{
		Type:       watcher.EventBalanceUpdated,
		Generation: m.generation - 1,
		Route:      m.route,
		Data:       watcher.BalanceData{Wei: "5000000000000000000"},
	}
	next, _ := m.Update(stale)
	m = next.(model)
	assert.Equal(t, "1.0000000 ETH", m.address.Balance)
}

func TestNetworkSwitchAndBack(t *testing.T) {
	m := testModel(t)
	m = typeText(m, views.DemoAddress)
	m = press(m, "enter")
	first := m.generation

	m = press(m, "tab")
	assert.Equal(t, network.Polygon, m.route.Network)
	assert.Equal(t, views.DemoAddress, m.route.Address)
	assert.Greater(t, m.generation, first)

	m = press(m, "2")
	assert.Equal(t, network.Polygon, m.route.Network)

	m = press(m, "esc")
	assert.Equal(t, network.Ethereum, m.route.Network)
	m = press(m, "esc")
	assert.Equal(t, route.Landing, m.route.Kind)
}

func TestSortAndFilterKeys(t *testing.T) {
	m := testModel(t)
	m = typeText(m, views.DemoAddress)
	m = press(m, "enter")
	m = drain(t, m, 3)

	// newest first by default
	assert.Equal(t, "0xccc", m.address.Rows()[0].Hash)
	assert.Contains(t, m.View(), "Date ▼")

	// the column cursor starts on value: asc
	m = press(m, "s")
	assert.Equal(t, table.Ascending, m.address.Table.SortDirection(views.ColValue))
	assert.Equal(t, "0xaaa", m.address.Rows()[0].Hash)

	m = press(m, "/")
	require.True(t, m.filtering)
	m = typeText(m, "bb")
	m = press(m, "enter")
	assert.False(t, m.filtering)
	require.Len(t, m.address.Rows(), 1)
	assert.Equal(t, "0xbbb", m.address.Rows()[0].Hash)

	m = press(m, "enter")
	assert.Equal(t, route.ForTransaction(network.Ethereum, "0xbbb"), m.route)
}

func TestDetailDateIsFormattedAfterRecord(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(navigateMsg{route: route.ForTransaction(network.Ethereum, "0xfeed")})
	m = next.(model)
	m.watcher.Wait()
	<-m.sub // navigated

	detail := &models.TransactionDetail{
		Receipt:   models.Receipt{TransactionHash: "0xfeed", Status: "0x1", BlockNumber: "0x10"},
		Value:     "0xde0b6b3a7640000",
		TimeStamp: "0x6553f100",
	}
	next, cmd := m.Update(watcher.Event{
		Type:       watcher.EventDetailUpdated,
		Generation: m.generation,
		Route:      m.route,
		Data:       watcher.DetailData{Detail: detail},
	})
	m = next.(model)
	assert.Empty(t, m.detail.FormattedDate)
	require.NotNil(t, cmd)

	next, _ = m.Update(formatDateMsg{generation: m.generation})
	m = next.(model)
	assert.Equal(t, "14.11.2023, 22:13:20", m.detail.FormattedDate)

	out := m.View()
	assert.Contains(t, out, "Successful")
	assert.Contains(t, out, "1 Ether")
	assert.Contains(t, out, "https://etherscan.io/tx/0xfeed")
}

func TestDetailNotFound(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(navigateMsg{route: route.ForTransaction(network.Polygon, "0xabc")})
	m = next.(model)
	m = drain(t, m, 2)
	assert.True(t, m.detail.NotFound())
	assert.Contains(t, m.View(), views.NotFoundText)
}

func TestHelpDocumentsDegradation(t *testing.T) {
	m := testModel(t)
	m = typeText(m, views.DemoAddress)
	m = press(m, "enter", "?")
	require.True(t, m.showHelp)
	out := m.View()
	assert.True(t, strings.Contains(out, "shown as 0"))
	assert.True(t, strings.Contains(out, "shown as empty"))
	m = press(m, "esc")
	assert.False(t, m.showHelp)
}

func TestTableClipsCellsAndShowsFullParties(t *testing.T) {
	m := testModel(t)
	m, _ = m.navigate(route.ForAddress(network.Ethereum, views.DemoAddress), true)
	m = drain(t, m, 3)

	from := views.DemoAddress
	to := "0x000000000000000000000000000000000000dEaD"
	m.address.ApplyTransactions([]models.Transaction{{
		Hash:      "0xddd",
		Value:     "123456789012345678901234567890000",
		TimeStamp: "1700000300",
		From:      from,
		To:        to,
	}}, nil)
	m.rowIdx = 0

	view := m.View()
	// 123456789012345.6789012 ETH is wider than the value column
	assert.Contains(t, view, "123456789012345.67890...")
	assert.NotContains(t, view, "123456789012345.6789012 ETH")
	assert.Contains(t, view, "From: "+from+"  To: "+to)
}
