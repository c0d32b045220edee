package tui

import (
	"context"

	"evmscan/pkg/route"
	"evmscan/pkg/views"
	"evmscan/pkg/watcher"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Version is set by Start()
var Version = "dev"

// --- Messages ---

type clearStatusMsg struct{}

// formatDateMsg asks the detail view to format its timestamp once the record
// for generation has been applied.
type formatDateMsg struct {
	generation uint64
}

// --- Model ---

type model struct {
	ctx      context.Context
	watcher  *watcher.Watcher
	sub      watcher.Subscriber
	settings views.Settings

	route      route.Route
	generation uint64
	history    []route.Route

	landing      *views.Landing
	addressInput textinput.Model

	address     *views.AddressView
	rowIdx      int
	sortColIdx  int
	filterInput textinput.Model
	filtering   bool
	showGraph   bool

	detail *views.DetailView

	width         int
	height        int
	spinner       spinner.Model
	statusMessage string
	showHelp      bool

	// initial is navigated to by Init.
	initial route.Route
}

func initialModel(ctx context.Context, w *watcher.Watcher, settings views.Settings, initial route.Route) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ai := textinput.New()
	ai.Placeholder = "0x..."
	ai.Width = 44
	ai.CharLimit = 64
	ai.Focus()

	fi := textinput.New()
	fi.Placeholder = views.FilterPlaceholder
	fi.Width = 40

	return model{
		ctx:          ctx,
		watcher:      w,
		sub:          w.Subscribe(),
		settings:     settings,
		route:        route.Home(),
		landing:      views.NewLanding(),
		addressInput: ai,
		filterInput:  fi,
		spinner:      s,
		initial:      initial,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{listenForWatcher(m.sub), m.spinner.Tick}
	if m.initial.Kind != route.Landing {
		initial := m.initial
		cmds = append(cmds, func() tea.Msg { return navigateMsg{route: initial} })
	}
	return tea.Batch(cmds...)
}

// navigateMsg defers the first navigation until the program is running.
type navigateMsg struct {
	route route.Route
}

// loading reports whether the current view still waits for fetch results.
func (m model) loading() bool {
	switch m.route.Kind {
	case route.Address:
		return m.address != nil && m.address.Loading()
	case route.Transaction:
		return m.detail != nil && !m.detail.Loaded
	}
	return false
}
