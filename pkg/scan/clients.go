package scan

import (
	"io"
	"net/http"

	"evmscan/pkg/config"
	"evmscan/pkg/network"

	"github.com/charmbracelet/log"
)

// Clients holds one client per supported network.
type Clients map[network.Network]*Client

// NewClients builds a client for every network in cfg. hc may be nil.
func NewClients(cfg config.Config, logger *log.Logger, hc *http.Client) Clients {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	out := make(Clients, len(network.All))
	for _, n := range network.All {
		opts := []Option{WithLogger(logger.WithPrefix(n.String()))}
		if hc != nil {
			opts = append(opts, WithHTTPClient(hc))
		}
		out[n] = NewClient(n, cfg.Network(n), cfg.RequestTimeout(), opts...)
	}
	return out
}

// For returns the client for n.
func (cs Clients) For(n network.Network) (*Client, error) {
	c, ok := cs[n]
	if !ok {
		return nil, network.ErrUnknownNetwork
	}
	return c, nil
}
