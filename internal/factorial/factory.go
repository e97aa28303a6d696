package factorial

import (
	"fmt"
	"sort"
	"sync"
)

// CalculatorFactory creates and caches calculators by registry key.
type CalculatorFactory interface {
	// Get returns the calculator registered under name.
	Get(name string) (Calculator, error)
	// List returns the registered keys in sorted order.
	List() []string
	// GetAll returns every registered calculator keyed by name.
	GetAll() map[string]Calculator
}

// DefaultFactory is the standard CalculatorFactory. Calculators are created
// lazily and cached; it is safe for concurrent use.
type DefaultFactory struct {
	mu       sync.RWMutex
	creators map[string]func() coreCalculator
	cache    map[string]Calculator
}

// NewDefaultFactory returns a factory with every built-in strategy
// registered.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators: make(map[string]func() coreCalculator),
		cache:    make(map[string]Calculator),
	}
	f.register("mutex", func() coreCalculator { return MutexAccumulator{} })
	f.register("atomic", func() coreCalculator { return AtomicAccumulator{} })
	f.register("channel", func() coreCalculator { return ChannelReduction{} })
	f.register(ExactAlgorithm, func() coreCalculator { return ArbitraryPrecision{} })
	return f
}

const (
	// DefaultAlgorithm is the registry key of the reference protocol.
	DefaultAlgorithm = "mutex"
	// ExactAlgorithm is the registry key of the arbitrary-precision strategy.
	ExactAlgorithm = "big"
)

func (f *DefaultFactory) register(name string, creator func() coreCalculator) {
	f.creators[name] = creator
}

// Register adds or replaces a calculator under name.
func (f *DefaultFactory) Register(name string, calc Calculator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = nil
	f.cache[name] = calc
}

// Get returns the calculator registered under name.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	calc, ok := f.cache[name]
	f.mu.RUnlock()
	if ok {
		return calc, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if calc, ok := f.cache[name]; ok {
		return calc, nil
	}
	creator, ok := f.creators[name]
	if !ok || creator == nil {
		return nil, fmt.Errorf("unknown algorithm %q (available: %v)", name, f.listLocked())
	}
	calc = NewCalculator(creator())
	f.cache[name] = calc
	return calc, nil
}

// MustGet is like Get but panics on an unknown name.
func (f *DefaultFactory) MustGet(name string) Calculator {
	calc, err := f.Get(name)
	if err != nil {
		panic(err)
	}
	return calc
}

// List returns the registered keys in sorted order.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.listLocked()
}

func (f *DefaultFactory) listLocked() []string {
	keys := make([]string, 0, len(f.creators))
	for k := range f.creators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetAll returns every registered calculator keyed by name.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	all := make(map[string]Calculator)
	for _, name := range f.List() {
		if calc, err := f.Get(name); err == nil {
			all[name] = calc
		}
	}
	return all
}

var (
	globalFactory     *DefaultFactory
	globalFactoryOnce sync.Once
)

// GlobalFactory returns a process-wide shared factory.
func GlobalFactory() *DefaultFactory {
	globalFactoryOnce.Do(func() { globalFactory = NewDefaultFactory() })
	return globalFactory
}
