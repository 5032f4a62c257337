package resource

import (
	"sync"

	"cif/internal/dictionary"
	"cif/internal/validate"
)

// Factory is the process-wide validator cache: a name-keyed map of
// compiled dictionaries guarded by a single mutex. Construction happens
// inside the critical section on a cache miss, so concurrent Gets for the
// same uncached name build it only once, and every Get (for any name)
// waits while a build is in progress.
//
// Grounded on the teacher's internal/dialect.Dialect registry
// (registryMu sync.RWMutex + map[Type]func() Dialect), generalized from
// a constructor registry to a built-value cache keyed by resource name
// instead of dialect type.
type Factory struct {
	provider Provider
	strict   bool

	mu    sync.Mutex
	cache map[string]*validate.Validator
}

// NewFactory returns a Factory that loads uncached dictionaries through
// provider, building validators in strict or lenient mode.
func NewFactory(provider Provider, strict bool) *Factory {
	return &Factory{
		provider: provider,
		strict:   strict,
		cache:    make(map[string]*validate.Validator),
	}
}

// Get returns the validator for the named dictionary resource, building
// and caching it on first use.
func (f *Factory) Get(name string) (*validate.Validator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if v, ok := f.cache[name]; ok {
		return v, nil
	}
	rc, err := f.provider.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	v, err := dictionary.Load(rc, f.strict)
	if err != nil {
		return nil, err
	}
	f.cache[name] = v
	return v, nil
}

// Evict removes name from the cache, forcing the next Get to rebuild it.
// Intended for tests and for callers that reload a dictionary resource
// after it changes on disk.
func (f *Factory) Evict(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cache, name)
}
