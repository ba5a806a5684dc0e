package store

import (
	"context"
	"sort"
	"sync"

	"github.com/autom8ter/docseed/errors"
	"github.com/samber/lo"
)

// Opener opens a store from provider specific params
type Opener func(ctx context.Context, params map[string]any) (Store, error)

var (
	mu                sync.RWMutex
	registeredOpeners = map[string]Opener{}
)

// Register registers a store opener by provider name
func Register(name string, opener Opener) {
	mu.Lock()
	defer mu.Unlock()
	registeredOpeners[name] = opener
}

// Open opens a registered store. Failures of the provider are StoreConnection errors.
func Open(ctx context.Context, name string, params map[string]any) (Store, error) {
	mu.RLock()
	opener, ok := registeredOpeners[name]
	mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.NotFound, "store provider %q is not registered", name)
	}
	if params == nil {
		params = map[string]any{}
	}
	s, err := opener(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, errors.StoreConnection, "failed to open %s store", name)
	}
	return s, nil
}

// Providers returns the registered provider names, sorted
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := lo.Keys(registeredOpeners)
	sort.Strings(names)
	return names
}
