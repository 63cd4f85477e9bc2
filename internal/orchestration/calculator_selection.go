package orchestration

import (
	"strings"

	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/fibonacci"
)

// SelectCalculator resolves the configured algorithm name. An empty name
// selects fibonacci.DefaultAlgorithm.
//
// Parameters:
//   - algo: The algorithm name from the configuration.
//   - factory: The calculator factory to retrieve implementations from.
//
// Returns:
//   - fibonacci.Calculator: The selected calculator.
//   - error: An apperrors.ConfigError naming the valid choices when algo is
//     unknown.
func SelectCalculator(algo string, factory fibonacci.CalculatorFactory) (fibonacci.Calculator, error) {
	name := strings.ToLower(strings.TrimSpace(algo))
	if name == "" {
		name = fibonacci.DefaultAlgorithm
	}
	calc, err := factory.Get(name)
	if err != nil {
		return nil, apperrors.NewConfigError("unknown algorithm %q (available: %s)", algo, strings.Join(factory.List(), ", "))
	}
	return calc, nil
}
