package route

import (
	"testing"

	"evmscan/pkg/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addr = "0xcb1bBF5e3ABA3f9E935feB03cA973Dfd12EbA56f"

func TestPath(t *testing.T) {
	assert.Equal(t, "/", Home().Path())
	assert.Equal(t, "/transactions/ethereum/address/"+addr, ForAddress(network.Ethereum, addr).Path())
	assert.Equal(t, "/transactions/polygon/hash/0xabc", ForTransaction(network.Polygon, "0xabc").Path())
}

func TestParse(t *testing.T) {
	tests := []struct {
		path string
		want Route
	}{
		{"/", Home()},
		{"", Home()},
		{"/transactions/ethereum/address/" + addr, ForAddress(network.Ethereum, addr)},
		{"/transactions/polygon/hash/0xabc?x=1", ForTransaction(network.Polygon, "0xabc")},
		{"transactions/polygon/address/0x1/", ForAddress(network.Polygon, "0x1")},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Parse(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNotFound(t *testing.T) {
	for _, p := range []string{
		"/transactions/bsc/address/0x1",
		"/transactions/ethereum/block/1",
		"/transactions/ethereum/address",
		"/about",
	} {
		_, err := Parse(p)
		assert.ErrorIs(t, err, ErrNotFound, p)
	}
}

func TestWithNetwork(t *testing.T) {
	r := ForAddress(network.Ethereum, addr).WithNetwork(network.Polygon)
	assert.Equal(t, "/transactions/polygon/address/"+addr, r.Path())
	assert.Equal(t, Home(), Home().WithNetwork(network.Polygon))
}
