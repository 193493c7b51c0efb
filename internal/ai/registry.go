package ai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var ErrUnknownProvider = errors.New("unknown ai provider")

type ProviderFactory func(ctx context.Context, model string) (Provider, error)

// Registry maps AI_PROVIDER names to constructors. main builds exactly one
// provider from it at startup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *Registry) Register(name string, f ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[normalizeName(name)] = f
}

func (r *Registry) Get(ctx context.Context, name string, model string) (Provider, error) {
	r.mu.RLock()
	f, ok := r.factories[normalizeName(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProvider, name, strings.Join(r.Names(), ", "))
	}
	return f(ctx, model)
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for n := range r.factories {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
