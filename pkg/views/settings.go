package views

import (
	"io"
	"strings"
	"time"

	"evmscan/pkg/config"
	"evmscan/pkg/network"

	"github.com/charmbracelet/log"
)

// Settings carries the presentation options shared by all views.
type Settings struct {
	TxLimit      int
	DateLayout   string
	Location     *time.Location
	ExplorerURLs map[network.Network]string
	Logger       *log.Logger
}

func SettingsFromConfig(cfg config.Config, logger *log.Logger) Settings {
	urls := make(map[network.Network]string, len(network.All))
	for _, n := range network.All {
		urls[n] = cfg.Network(n).ExplorerURL
	}
	return Settings{
		TxLimit:      cfg.TxLimit,
		DateLayout:   cfg.DateLayout,
		Location:     cfg.Location(),
		ExplorerURLs: urls,
		Logger:       logger,
	}
}

func (s Settings) withDefaults() Settings {
	if s.TxLimit <= 0 {
		s.TxLimit = config.DefaultTxLimit
	}
	if s.DateLayout == "" {
		s.DateLayout = config.DefaultDateLayout
	}
	if s.Location == nil {
		s.Location = time.Local
	}
	if s.Logger == nil {
		s.Logger = log.New(io.Discard)
	}
	return s
}

func (s Settings) explorerBase(n network.Network) string {
	base := s.ExplorerURLs[n]
	if base == "" {
		base = n.DefaultExplorerURL()
	}
	return strings.TrimRight(base, "/")
}
