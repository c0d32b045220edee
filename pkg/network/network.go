package network

import (
	"errors"
	"fmt"
)

// Network identifies one of the supported explorer backends.
type Network string

const (
	Ethereum Network = "ethereum"
	Polygon  Network = "polygon"
)

var ErrUnknownNetwork = errors.New("unknown network")

// All lists the networks in tab order.
var All = []Network{Ethereum, Polygon}

type info struct {
	title         string
	symbol        string
	currencyLabel string
	explorerName  string
	apiURL        string
	explorerURL   string
	apiKeyEnv     string
}

var registry = map[Network]info{
	Ethereum: {
		title:         "Ethereum",
		symbol:        "ETH",
		currencyLabel: "Ether",
		explorerName:  "Etherscan",
		apiURL:        "https://api.etherscan.io/api",
		explorerURL:   "https://etherscan.io",
		apiKeyEnv:     "ETHERSCAN_API_KEY",
	},
	Polygon: {
		title:         "Polygon",
		symbol:        "MATIC",
		currencyLabel: "MATIC",
		explorerName:  "Polygonscan",
		apiURL:        "https://api.polygonscan.com/api",
		explorerURL:   "https://polygonscan.com",
		apiKeyEnv:     "POLYGONSCAN_API_KEY",
	},
}

// Parse converts a route segment into a Network.
func Parse(s string) (Network, error) {
	n := Network(s)
	if _, ok := registry[n]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, s)
	}
	return n, nil
}

func (n Network) Valid() bool {
	_, ok := registry[n]
	return ok
}

func (n Network) String() string { return string(n) }

func (n Network) Title() string         { return registry[n].title }
func (n Network) Symbol() string        { return registry[n].symbol }
func (n Network) CurrencyLabel() string { return registry[n].currencyLabel }
func (n Network) ExplorerName() string  { return registry[n].explorerName }
func (n Network) DefaultAPIURL() string { return registry[n].apiURL }
func (n Network) DefaultExplorerURL() string {
	return registry[n].explorerURL
}

// APIKeyEnv names the environment variable holding the explorer API key.
func (n Network) APIKeyEnv() string { return registry[n].apiKeyEnv }

// Other returns the opposite tab.
func (n Network) Other() Network {
	if n == Polygon {
		return Ethereum
	}
	return Polygon
}
