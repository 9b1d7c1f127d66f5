// Package lookup provides identity providers for co-author resolution:
// directory search for autocomplete and exact-match lookup for resolving a
// typed login to a name and email.
package lookup

import (
	"context"
	"fmt"
	"sync"
)

// Identity is a directory identity a login can resolve to.
type Identity struct {
	// Login is the directory username.
	Login string `json:"login"`

	// Name is the profile display name, if the directory exposes one.
	Name string `json:"name,omitempty"`

	// Email is the public email, if any.
	Email string `json:"email,omitempty"`

	// Endpoint is the API endpoint the identity came from. Empty for
	// local identities. Keys the stealth email derivation.
	Endpoint string `json:"endpoint,omitempty"`
}

// Provider is the interface identity directories implement.
type Provider interface {
	// Name returns the provider identifier (e.g., "github", "local").
	Name() string

	// Search returns up to limit candidate identities matching the
	// query. Candidates may carry only a login; name and email are
	// hydrated by ExactMatch at resolution time.
	Search(ctx context.Context, query string, limit int) ([]Identity, error)

	// ExactMatch resolves a login to its identity. A (nil, nil) return
	// means the directory has no such login.
	ExactMatch(ctx context.Context, login string) (*Identity, error)
}

// Registry manages available providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// globalRegistry is the singleton registry instance.
var (
	globalRegistry     *Registry
	globalRegistryOnce sync.Once
)

// GetRegistry returns the global provider registry.
func GetRegistry() *Registry {
	globalRegistryOnce.Do(func() {
		globalRegistry = &Registry{
			providers: make(map[string]Provider),
		}
	})
	return globalRegistry
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get retrieves a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not registered", name)
	}
	return p, nil
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Has checks if a provider is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[name]
	return ok
}

// ResetRegistryForTesting clears all registry state.
// This is intended for use in tests only.
func ResetRegistryForTesting() {
	if globalRegistry != nil {
		globalRegistry.mu.Lock()
		globalRegistry.providers = make(map[string]Provider)
		globalRegistry.mu.Unlock()
	}
}
