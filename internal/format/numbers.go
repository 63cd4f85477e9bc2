package format

import (
	"math/big"

	"github.com/dustin/go-humanize"
)

// FormatTerm renders a term with thousands separators.
// Terms may exceed math.MaxInt64, so they go through big.Int.
func FormatTerm(v uint64) string {
	return humanize.BigComma(new(big.Int).SetUint64(v))
}

// FormatBytes renders a byte count with binary units ("64 MiB").
// Zero reads "unlimited", which is what a zero memory ceiling means.
func FormatBytes(n uint64) string {
	if n == 0 {
		return "unlimited"
	}
	return humanize.IBytes(n)
}

// ParseBytes parses a size such as "64MiB", "512 kB" or "1048576".
func ParseBytes(s string) (uint64, error) {
	return humanize.ParseBytes(s)
}
