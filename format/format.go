// Package format renders amounts, ordinals and identities for display.
package format

import (
	"iter"
	"math/big"
	"strconv"
	"strings"
)

// FormatAmount renders amount, given in indivisible units, as a decimal
// number with decimals fractional digits. Trailing fractional zeros and a
// dangling decimal point are dropped.
func FormatAmount(amount *big.Int, decimals uint) string {
	abs := new(big.Int).Abs(amount)
	unit := new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(uint64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(abs, unit, new(big.Int))

	s := whole.String()
	if decimals > 0 {
		f := frac.String()
		f = strings.Repeat("0", int(decimals)-len(f)) + f
		if f = strings.TrimRight(f, "0"); f != "" {
			s += "." + f
		}
	}
	if amount.Sign() < 0 {
		s = "-" + s
	}
	return s
}

// FormatAmountUint64 is FormatAmount for amounts that fit in a uint64.
func FormatAmountUint64(amount uint64, decimals uint) string {
	return FormatAmount(new(big.Int).SetUint64(amount), decimals)
}

// FormatOrdinal renders n with its English ordinal suffix: 1st, 2nd, 3rd,
// 4th, 11th, 12th, 13th, 21st.
func FormatOrdinal(n int) string {
	m := n % 100
	if m < 0 {
		m = -m
	}
	suffix := "th"
	if m < 10 || m >= 20 {
		switch m % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// Identity is a URI-like account identity.
type Identity struct {
	Proto string
	User  string
	Host  string
	Port  string
	Path  string
}

// String serializes the identity as proto://user@host:port/path, leaving
// out empty parts.
func (id Identity) String() string {
	var b strings.Builder
	if id.Proto != "" {
		b.WriteString(id.Proto)
		b.WriteString("://")
	}
	if id.User != "" {
		b.WriteString(id.User)
		b.WriteByte('@')
	}
	b.WriteString(id.Host)
	if id.Port != "" {
		b.WriteByte(':')
		b.WriteString(id.Port)
	}
	b.WriteString(id.Path)
	return b.String()
}

// Chunks yields consecutive sub-slices of items holding at most size
// elements each. A non-positive size yields nothing.
func Chunks[T any](items []T, size int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if size <= 0 {
			return
		}
		for i := 0; i < len(items); i += size {
			if !yield(items[i:min(i+size, len(items))]) {
				return
			}
		}
	}
}
