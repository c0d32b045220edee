package tui

import (
	"fmt"
	"strings"

	"evmscan/pkg/network"
	"evmscan/pkg/route"
	"evmscan/pkg/utils"
	"evmscan/pkg/views"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// HelpDegradation explains that failed lookups are not shown as errors.
var HelpDegradation = []string{
	"Lookups never show an error message:",
	"  a balance that cannot be fetched is shown as 0",
	"  a transaction list that cannot be fetched is shown as empty",
	"  a transaction that cannot be fetched is shown as not found",
	"Use 'r' to retry. Failures are written to the log.",
}

var columnWidths = map[string]int{
	views.ColHash:      23,
	views.ColValue:     24,
	views.ColFrom:      23,
	views.ColTo:        23,
	views.ColTimeStamp: 22,
	views.ColAction:    12,
}

func (m model) View() string {
	if m.showHelp {
		return m.viewHelp()
	}
	switch m.route.Kind {
	case route.Address:
		if m.showGraph {
			return m.viewGraph()
		}
		return m.viewAddress()
	case route.Transaction:
		return m.viewDetail()
	}
	return m.viewLanding()
}

func (m model) place(content, footer string) string {
	if m.statusMessage != "" {
		footer = infoStyle.Render(m.statusMessage) + "\n" + footer
	}
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, content, "\n", footer),
	)
}

func networkTabs(active network.Network) string {
	var tabs []string
	for i, n := range network.All {
		label := fmt.Sprintf("%d %s", i+1, n.Title())
		if n == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m model) viewLanding() string {
	header := titleStyle.Render("EVM Scan " + Version)
	lines := []string{
		"Enter an Ethereum or Polygon address:",
		m.addressInput.View(),
		"",
		"Network: " + networkTabs(m.landing.Network),
	}
	if m.landing.Error != "" {
		lines = append(lines, "", errStyle.Render(m.landing.Error))
	}
	lines = append(lines, "", subtleStyle.Render("ctrl+d: Demo wallet ("+views.DemoAddress+")"))

	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "\n", strings.Join(lines, "\n")))
	footer := subtleStyle.Render("enter: search • tab: switch network • f1: help • esc: quit")
	return m.place(content, footer)
}

func (m model) viewAddress() string {
	v := m.address
	header := titleStyle.Render(fmt.Sprintf("Address: %s", v.Address()))

	spin := ""
	if m.loading() {
		spin = m.spinner.View() + " "
	}
	balance := fmt.Sprintf("%sBalance: %s", spin, balanceStyle.Render(v.Balance))

	filter := subtleStyle.Render("/ " + views.FilterPlaceholder)
	if m.filtering || m.filterInput.Value() != "" {
		filter = "/ " + m.filterInput.View()
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		networkTabs(v.Network()),
		"",
		balance,
		"",
		filter,
		"",
		m.renderTable(),
	)
	content := boxStyle.Render(body)
	footer := subtleStyle.Render("↑/↓: select • ←/→: column • s/S: sort • enter: details • tab: network • g: graph • o: explorer • esc: back • ?: help")
	return m.place(content, footer)
}

func (m model) renderTable() string {
	v := m.address
	cols := v.Table.Columns()
	selected := m.selectedSortKey()

	var headers []string
	for _, c := range cols {
		h := c.Header
		if arrow := v.Table.SortDirection(c.Key).Arrow(); arrow != "" {
			h += " " + arrow
			if len(v.Table.Sorting()) > 1 {
				h += fmt.Sprint(v.Table.SortIndex(c.Key) + 1)
			}
		}
		cell := fmt.Sprintf("%-*s", columnWidths[c.Key], h)
		if c.Key == selected {
			cell = selectedHeaderStyle.Render(cell)
		} else {
			cell = tableHeaderStyle.Render(cell)
		}
		headers = append(headers, cell)
	}
	lines := []string{strings.Join(headers, " ")}

	rows := v.Rows()
	if v.TransactionsLoaded && len(rows) == 0 {
		lines = append(lines, subtleStyle.Render(views.NoTransactionsText))
		return strings.Join(lines, "\n")
	}

	// Keep the selected row visible.
	visible := m.height - 20
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.rowIdx >= visible {
		start = m.rowIdx - visible + 1
	}
	end := start + visible
	if end > len(rows) {
		end = len(rows)
	}

	for i := start; i < end; i++ {
		tx := rows[i]
		var cells []string
		for _, c := range cols {
			width := columnWidths[c.Key]
			cells = append(cells, " "+fmt.Sprintf("%-*s", width, utils.TruncateString(c.Render(tx), width)))
		}
		line := strings.Join(cells, " ")
		if i == m.rowIdx {
			line = selectedRowStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(rows) > 0 {
		lines = append(lines, subtleStyle.Render(fmt.Sprintf("%d of %d transactions", m.rowIdx+1, len(rows))))
	}
	if tx, ok := m.selectedTransaction(); ok {
		lines = append(lines, subtleStyle.Render(fmt.Sprintf("From: %s  To: %s", orNA(tx.From), orNA(tx.To))))
	}
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return utils.NotAvailable
	}
	return s
}

func (m model) viewGraph() string {
	v := m.address
	header := titleStyle.Render(fmt.Sprintf("Transaction Values: %s", v.Address()))

	series := v.ValueSeries()
	var graph string
	if len(series) > 1 {
		width := m.width - 20
		if width < 10 {
			width = 10
		}
		height := m.height - 12
		if height < 1 {
			height = 1
		}
		graph = asciigraph.Plot(series,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(fmt.Sprintf("Value per transaction (%s), oldest first", v.Network().Symbol())),
		)
	} else {
		graph = "Not enough data to draw graph."
	}

	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, header, "\n", graph))
	footer := subtleStyle.Render("g/q/esc: back")
	return m.place(content, footer)
}

func (m model) viewDetail() string {
	v := m.detail
	header := titleStyle.Render("Transaction Details")

	if !v.Loaded {
		content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "\n", m.spinner.View()+" Loading "+v.Route.Hash))
		return m.place(content, subtleStyle.Render("esc: back • q: quit"))
	}
	if v.NotFound() {
		content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "\n", v.Route.Hash, "", errStyle.Render(views.NotFoundText)))
		return m.place(content, subtleStyle.Render("r: retry • esc: back • q: quit"))
	}

	tx := v.Transaction
	status := errStyle.Render(v.StatusText())
	if v.Successful() {
		status = infoStyle.Render(v.StatusText())
	}
	date := v.FormattedDate
	if date == "" {
		date = m.spinner.View()
	}

	lines := []string{
		fmt.Sprintf("Hash:                %s", tx.TransactionHash),
		fmt.Sprintf("Status:              %s", status),
		fmt.Sprintf("Block:               %s", v.BlockNumber()),
		fmt.Sprintf("Date:                %s", date),
		fmt.Sprintf("From:                %s", tx.From),
		fmt.Sprintf("To:                  %s", tx.To),
		fmt.Sprintf("Value:               %s", v.Value()),
		fmt.Sprintf("Gas Used:            %s", v.GasUsed()),
		fmt.Sprintf("Effective Gas Price: %s wei", v.EffectiveGasPrice()),
		"",
		subtleStyle.Render(v.ExplorerURL()),
	}

	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "\n", strings.Join(lines, "\n")))
	footer := subtleStyle.Render(fmt.Sprintf("f/t: from/to address • o: open in %s • c: copy hash • esc: back • ?: help", v.Network().ExplorerName()))
	return m.place(content, footer)
}

func (m model) viewHelp() string {
	var title string
	var shortcuts []string

	switch m.route.Kind {
	case route.Address:
		title = "Address View"
		shortcuts = []string{
			"↑/k: Up",
			"↓/j: Down",
			"←/h →/l: Select Column",
			"s: Sort Column (asc, desc, off)",
			"S: Add Column To Sort",
			"/: Search Transaction Hash",
			"enter: Transaction Details",
			"tab/1/2: Switch Network",
			"g: Value Graph",
			"o: Open In Explorer",
			"c: Copy Address",
			"r: Reload",
			"n: New Search",
			"esc: Back",
			"q: Quit",
		}
	case route.Transaction:
		title = "Transaction Details"
		shortcuts = []string{
			"f: From Address",
			"t: To Address",
			"o: Open In Explorer",
			"c: Copy Hash",
			"r: Reload",
			"n: New Search",
			"esc: Back",
			"q: Quit",
		}
	default:
		title = "Search"
		shortcuts = []string{
			"enter: Search Address",
			"tab: Switch Network",
			"ctrl+d: Demo Wallet",
			"esc/ctrl+c: Quit",
		}
	}

	header := titleStyle.Render(fmt.Sprintf("Help: %s", title))
	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"\n",
		strings.Join(shortcuts, "\n"),
		"",
		subtleStyle.Render(strings.Join(HelpDegradation, "\n")),
	)
	content := boxStyle.Render(body)
	footer := subtleStyle.Render("Press '?' or 'esc' to close")
	return m.place(content, footer)
}
