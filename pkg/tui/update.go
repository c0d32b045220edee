package tui

import (
	"evmscan/pkg/network"
	"evmscan/pkg/route"
	"evmscan/pkg/views"
	"evmscan/pkg/watcher"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case navigateMsg:
		var cmd tea.Cmd
		m, cmd = m.navigate(msg.route, true)
		cmds = append(cmds, cmd)

	case watcher.Event:
		cmds = append(cmds, listenForWatcher(m.sub))
		var cmd tea.Cmd
		m, cmd = m.applyEvent(msg)
		cmds = append(cmds, cmd)

	case formatDateMsg:
		if msg.generation == m.generation && m.detail != nil {
			m.detail.FormatDateDefault()
		}

	case spinner.TickMsg:
		if m.loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case clearStatusMsg:
		m.statusMessage = ""

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		typing := m.route.Kind == route.Landing || m.filtering
		if (!typing && msg.String() == "?") || msg.String() == "f1" {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if m.showHelp {
			if msg.String() == "q" || msg.String() == "esc" || msg.String() == "?" {
				m.showHelp = false
			}
			return m, nil
		}

		var cmd tea.Cmd
		switch m.route.Kind {
		case route.Address:
			m, cmd = m.updateAddress(msg)
		case route.Transaction:
			m, cmd = m.updateDetail(msg)
		default:
			m, cmd = m.updateLanding(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) updateLanding(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab":
		m.landing.SetNetwork(m.landing.Network.Other())
		return m, nil
	case "ctrl+d":
		return m.navigate(views.DemoRoute(), true)
	case "enter":
		r, err := m.landing.Submit()
		if err != nil {
			return m, nil
		}
		return m.navigate(r, true)
	}

	var cmd tea.Cmd
	m.addressInput, cmd = m.addressInput.Update(msg)
	if m.addressInput.Value() != m.landing.Address {
		m.landing.SetAddress(m.addressInput.Value())
	}
	return m, cmd
}

func (m model) updateAddress(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.filtering {
		switch msg.String() {
		case "enter", "esc":
			m.filtering = false
			m.filterInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.address.SetFilter(m.filterInput.Value())
		m.rowIdx = 0
		return m, cmd
	}

	if m.showGraph {
		switch msg.String() {
		case "g", "q", "esc":
			m.showGraph = false
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		return m.back()
	case "n":
		return m.navigate(route.Home(), true)
	case "r":
		return m.navigate(m.route, false)
	case "tab":
		return m.navigate(m.address.SwitchNetwork(m.route.Network.Other()), true)
	case "1":
		return m.switchNetwork(network.Ethereum)
	case "2":
		return m.switchNetwork(network.Polygon)
	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, nil
	case "up", "k":
		if m.rowIdx > 0 {
			m.rowIdx--
		}
	case "down", "j":
		if m.rowIdx < len(m.address.Rows())-1 {
			m.rowIdx++
		}
	case "left", "h":
		if keys := m.sortableKeys(); len(keys) > 0 {
			m.sortColIdx = (m.sortColIdx + len(keys) - 1) % len(keys)
		}
	case "right", "l":
		if keys := m.sortableKeys(); len(keys) > 0 {
			m.sortColIdx = (m.sortColIdx + 1) % len(keys)
		}
	case "s", "S":
		if key := m.selectedSortKey(); key != "" {
			m.address.Table.ToggleSort(key, msg.String() == "S")
			m.clampRow()
		}
	case "enter":
		if tx, ok := m.selectedTransaction(); ok {
			return m.navigate(m.address.DetailRoute(tx), true)
		}
	case "g":
		m.showGraph = true
	case "o":
		if err := openBrowser(m.address.ExplorerURL()); err != nil {
			return m.setStatus("Failed to open browser: " + err.Error())
		}
		return m.setStatus("Opened in browser")
	case "c":
		if err := clipboard.WriteAll(m.route.Address); err != nil {
			return m.setStatus("Failed to copy to clipboard")
		}
		return m.setStatus("Full address copied to clipboard!")
	}
	return m, nil
}

func (m model) switchNetwork(n network.Network) (model, tea.Cmd) {
	if m.route.Network == n {
		return m, nil
	}
	return m.navigate(m.address.SwitchNetwork(n), true)
}

func (m model) updateDetail(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		return m.back()
	case "n":
		return m.navigate(route.Home(), true)
	case "r":
		return m.navigate(m.route, false)
	case "f", "t":
		tx := m.detail.Transaction
		if tx == nil {
			return m, nil
		}
		addr := tx.From
		if msg.String() == "t" {
			addr = tx.To
		}
		if addr == "" {
			return m, nil
		}
		return m.navigate(m.detail.AddressRoute(addr), true)
	case "o":
		if err := openBrowser(m.detail.ExplorerURL()); err != nil {
			return m.setStatus("Failed to open browser: " + err.Error())
		}
		return m.setStatus("Opened in browser")
	case "c":
		if err := clipboard.WriteAll(m.route.Hash); err != nil {
			return m.setStatus("Failed to copy to clipboard")
		}
		return m.setStatus("Transaction hash copied to clipboard!")
	}
	return m, nil
}
