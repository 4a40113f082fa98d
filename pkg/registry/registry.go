// Package registry provides the in-memory memoization store mapping
// (contract, name) pairs to previously synthesized stub types.
package registry

import (
	"strconv"
	"sync"

	"github.com/mesh-intelligence/stubforge/pkg/types"
)

// DuplicateEntryError is returned when Register is called for a
// (contract, name) pair that already has a stub type.
type DuplicateEntryError struct {
	Contract string
	Name     string
}

// Error implements the error interface.
func (e DuplicateEntryError) Error() string {
	// Example: registry: stub already registered for ("Greeter", "greeter-stub")
	return "registry: stub already registered for (" +
		strconv.Quote(e.Contract) + ", " + strconv.Quote(e.Name) + ")"
}

// key identifies an entry. Contracts are compared by pointer identity, so a
// shared contract graph resolves to the same entries from every caller.
type key struct {
	contract *types.Contract
	name     string
}

// Registry is a concurrent (contract, name) → stub type store. Lookups are
// pure; registration is append-only apart from the Remove rollback hook used
// by two-phase synthesis. There is no eviction.
type Registry struct {
	mu      sync.RWMutex
	entries map[key]types.StubType
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[key]types.StubType)}
}

// TryGet implements types.Registry. It reports whether a stub type is
// registered for the exact (contract, name) pair.
func (r *Registry) TryGet(c *types.Contract, name string) (types.StubType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.entries[key{contract: c, name: name}]
	return st, ok
}

// Register stores a stub type under (c, name). At most one entry may exist
// per pair; a second registration returns DuplicateEntryError.
func (r *Registry) Register(c *types.Contract, name string, st types.StubType) error {
	if err := c.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{contract: c, name: name}
	if _, exists := r.entries[k]; exists {
		return DuplicateEntryError{Contract: c.Name, Name: name}
	}
	r.entries[k] = st
	return nil
}

// Remove drops the entry for (c, name) if present. Successful entries are
// never invalidated during normal operation; Remove exists so two-phase
// synthesis can roll back a forward registration when a later step fails.
func (r *Registry) Remove(c *types.Contract, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key{contract: c, name: name})
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
