// Package catalog provides the public API for the SQLite contract catalog.
// This package exposes the factory function for creating catalog stores
// while keeping implementation details internal.
package catalog

import (
	"github.com/mesh-intelligence/stubforge/internal/catalog"
	"github.com/mesh-intelligence/stubforge/pkg/types"
)

// NewStore creates a new SQLite catalog instance.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := catalog.NewStore()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".stubforge-db",
//	})
//	defer store.Detach()
func NewStore() types.Catalog {
	return catalog.NewStore()
}
