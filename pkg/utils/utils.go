package utils

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

// NativeDecimals is the fixed precision used for list and balance amounts.
const NativeDecimals = 7

// NotAvailable is rendered in place of values that could not be decoded.
const NotAvailable = "N/A"

var ErrNotHex = errors.New("not a 0x-prefixed hex quantity")

// weiDecimals is the number of decimals between wei and the native unit.
const weiDecimals = 18

func TruncateString(str string, num int) string {
	if len(str) <= num {
		return str
	}
	if num <= 3 {
		return str[:num]
	}
	return str[0:num-3] + "..."
}

// TruncateMiddle keeps the first and last n characters joined by "...".
// Strings no longer than 2n are returned unchanged.
func TruncateMiddle(s string, n int) string {
	if n <= 0 || len(s) <= 2*n {
		return s
	}
	return s[:n] + "..." + s[len(s)-n:]
}

// ParseDecimalWei parses a base-10 wei amount from the account endpoints.
func ParseDecimalWei(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty wei amount")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse wei %q: %w", raw, err)
	}
	return d, nil
}

// FormatWei renders a decimal wei string as native units with 7 fixed decimals.
func FormatWei(raw string) (string, error) {
	d, err := ParseDecimalWei(raw)
	if err != nil {
		return "", err
	}
	return d.Shift(-weiDecimals).StringFixed(NativeDecimals), nil
}

// FormatBalance renders a balance result as "<amount> <symbol>".
func FormatBalance(raw, symbol string) (string, error) {
	s, err := FormatWei(raw)
	if err != nil {
		return "", err
	}
	return s + " " + symbol, nil
}

// ParseHex decodes a 0x-prefixed base-16 quantity from the proxy endpoints.
func ParseHex(s string) (*big.Int, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, fmt.Errorf("%w: %q", ErrNotHex, s)
	}
	v, err := hexutil.DecodeBig(s)
	if err == nil {
		return v, nil
	}
	// Explorers occasionally pad quantities with leading zeros, which hexutil rejects.
	digits := s[2:]
	if digits == "" || digits[0] == '-' || digits[0] == '+' {
		return nil, fmt.Errorf("%w: %q", ErrNotHex, s)
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotHex, s)
	}
	return v, nil
}

// HexToDecimalString renders a hex quantity in base 10, or N/A.
func HexToDecimalString(s string) string {
	v, err := ParseHex(s)
	if err != nil {
		return NotAvailable
	}
	return v.String()
}

// HexWeiToNative converts a hex wei quantity into native units, untruncated.
func HexWeiToNative(s string) (string, error) {
	v, err := ParseHex(s)
	if err != nil {
		return "", err
	}
	return decimal.NewFromBigInt(v, -weiDecimals).String(), nil
}

// ParseUnix parses a decimal unix-seconds string.
func ParseUnix(raw string) (time.Time, error) {
	sec, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return time.Unix(sec, 0), nil
}

// ParseHexUnix parses a hex unix-seconds quantity.
func ParseHexUnix(raw string) (time.Time, error) {
	v, err := ParseHex(raw)
	if err != nil {
		return time.Time{}, err
	}
	if !v.IsInt64() {
		return time.Time{}, fmt.Errorf("timestamp %q out of range", raw)
	}
	return time.Unix(v.Int64(), 0), nil
}

func FormatTime(t time.Time, loc *time.Location, layout string) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(layout)
}
