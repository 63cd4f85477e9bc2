package fibonacci

// ─────────────────────────────────────────────────────────────────────────────
// Term Range Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MaxIndex is the largest index whose term fits in a uint64.
	// F(93) = 12200160415121876738; F(94) exceeds 2^64.
	MaxIndex = 93

	// FibonacciGrowthFactor is log2(phi), where phi ≈ 1.618 (golden ratio).
	// Used to estimate the bit length of F(n) without computing it.
	FibonacciGrowthFactor = 0.69424

	// binetPrecision is the mantissa precision, in bits, used to evaluate the
	// closed form. 256 bits keep round((φⁿ − ψⁿ)/√5) exact for every
	// representable index.
	binetPrecision = 256

	// closedFormCutoff bounds the exponent handed to big.Float. Any index
	// past it is far beyond MaxIndex and would only exercise exponent
	// overflow inside math/big.
	closedFormCutoff = 1 << 16
)

// Registered algorithm names.
const (
	AlgoBinet    = "binet"
	AlgoDoubling = "doubling"

	// DefaultAlgorithm is used when no algorithm is configured.
	DefaultAlgorithm = AlgoBinet
)
