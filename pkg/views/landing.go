package views

import (
	"errors"
	"strings"

	"evmscan/pkg/network"
	"evmscan/pkg/route"
)

const InvalidAddressMessage = "Please enter a valid Ethereum or Polygon address."

var ErrInvalidAddress = errors.New(InvalidAddressMessage)

// DemoAddress is offered on the landing page as a ready-made example.
const DemoAddress = "0xcb1bBF5e3ABA3f9E935feB03cA973Dfd12EbA56f"

// IsValidAddress is a format check only: a 0x prefix and 42 characters.
func IsValidAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && len(s) == 42
}

// Landing is the address-entry form.
type Landing struct {
	Address string
	Network network.Network
	Error   string
}

func NewLanding() *Landing {
	return &Landing{Network: network.Ethereum}
}

// SetAddress updates the input and clears any previous validation error.
func (l *Landing) SetAddress(s string) {
	l.Address = s
	l.Error = ""
}

func (l *Landing) SetNetwork(n network.Network) {
	if n.Valid() {
		l.Network = n
	}
}

// Submit validates the form. It either returns the address route or records
// the inline error, never both.
func (l *Landing) Submit() (route.Route, error) {
	if !IsValidAddress(l.Address) {
		l.Error = InvalidAddressMessage
		return route.Route{}, ErrInvalidAddress
	}
	l.Error = ""
	return route.ForAddress(l.Network, l.Address), nil
}

func DemoRoute() route.Route {
	return route.ForAddress(network.Ethereum, DemoAddress)
}
