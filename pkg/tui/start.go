package tui

import (
	"context"
	"fmt"

	"evmscan/pkg/route"
	"evmscan/pkg/views"
	"evmscan/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
)

// Start runs the terminal explorer until the user quits. A non-landing
// initial route is opened right away.
func Start(ctx context.Context, w *watcher.Watcher, settings views.Settings, initial route.Route, version string) error {
	Version = version
	m := initialModel(ctx, w, settings, initial)
	defer w.Unsubscribe(m.sub)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
