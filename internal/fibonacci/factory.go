package fibonacci

import (
	"fmt"
	"sort"
	"sync"
)

// CalculatorFactory resolves calculators by name.
type CalculatorFactory interface {
	// Get returns the calculator registered under name.
	Get(name string) (Calculator, error)
	// List returns the registered names in sorted order.
	List() []string
}

// DefaultFactory is a concurrency-safe registry of calculators.
type DefaultFactory struct {
	mu          sync.RWMutex
	calculators map[string]Calculator
}

var _ CalculatorFactory = (*DefaultFactory)(nil)

// NewDefaultFactory returns a factory with the closed-form and fast doubling
// calculators registered.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{calculators: make(map[string]Calculator)}
	_ = f.Register(AlgoBinet, Binet{})
	_ = f.Register(AlgoDoubling, FastDoubling{})
	return f
}

// Register adds calc under name. Registering the same name twice is an error.
func (f *DefaultFactory) Register(name string, calc Calculator) error {
	if calc == nil {
		return fmt.Errorf("calculator %q is nil", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.calculators[name]; exists {
		return fmt.Errorf("calculator %q already registered", name)
	}
	f.calculators[name] = calc
	return nil
}

// Get returns the calculator registered under name.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	calc, ok := f.calculators[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q", name)
	}
	return calc, nil
}

// List returns the registered names in sorted order.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
