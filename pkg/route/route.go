package route

import (
	"errors"
	"fmt"
	"strings"

	"evmscan/pkg/network"
)

var ErrNotFound = errors.New("not found")

// Kind selects which view a route renders.
type Kind int

const (
	Landing Kind = iota
	Address
	Transaction
)

func (k Kind) String() string {
	switch k {
	case Address:
		return "address"
	case Transaction:
		return "transaction"
	}
	return "landing"
}

// Route is the navigation state. Views are derived from it and nothing else.
type Route struct {
	Kind    Kind
	Network network.Network
	Address string
	Hash    string
}

func Home() Route { return Route{Kind: Landing} }

func ForAddress(n network.Network, address string) Route {
	return Route{Kind: Address, Network: n, Address: address}
}

func ForTransaction(n network.Network, hash string) Route {
	return Route{Kind: Transaction, Network: n, Hash: hash}
}

// Path renders the route as a navigation path.
func (r Route) Path() string {
	switch r.Kind {
	case Address:
		return fmt.Sprintf("/transactions/%s/address/%s", r.Network, r.Address)
	case Transaction:
		return fmt.Sprintf("/transactions/%s/hash/%s", r.Network, r.Hash)
	}
	return "/"
}

func (r Route) String() string { return r.Path() }

// WithNetwork returns the same page on another network.
func (r Route) WithNetwork(n network.Network) Route {
	if r.Kind == Landing {
		return r
	}
	r.Network = n
	return r
}

// Parse resolves a navigation path. Unknown shapes and unsupported
// network segments yield ErrNotFound.
func Parse(path string) (Route, error) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return Home(), nil
	}
	parts := strings.Split(trimmed, "/")
	if len(parts) != 4 || parts[0] != "transactions" || parts[3] == "" {
		return Route{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	n, err := network.Parse(parts[1])
	if err != nil {
		return Route{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	switch parts[2] {
	case "address":
		return ForAddress(n, parts[3]), nil
	case "hash":
		return ForTransaction(n, parts[3]), nil
	}
	return Route{}, fmt.Errorf("%w: %s", ErrNotFound, path)
}
