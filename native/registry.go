package native

import (
	"fmt"
	"sort"
	"sync"
)

// Opener returns a ready to use library.
type Opener func() (Library, error)

var (
	registryMu sync.Mutex
	registry   = make(map[string]Opener)
)

// Register makes a backend available under name.  Registering the same name
// twice panics.
func Register(name string, open Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("native: backend %q registered twice", name))
	}

	registry[name] = open
}

// Open opens the backend registered under name.
func Open(name string) (Library, error) {
	registryMu.Lock()
	open, ok := registry[name]
	registryMu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unknown backend %q (available: %v)", name, Backends())
	}

	lib, err := open()
	if err != nil {
		return nil, fmt.Errorf("opening backend %q: %w", name, err)
	}

	return lib, nil
}

// Backends returns the sorted names of the registered backends.
func Backends() []string {
	registryMu.Lock()
	defer registryMu.Unlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
