// Shared helpers for forge CLI commands.
package main

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/stubforge/pkg/catalog"
	"github.com/mesh-intelligence/stubforge/pkg/types"
)

// attachCatalog resolves the data directory, creates a SQLite catalog, and
// attaches it. The caller must defer store.Detach().
func attachCatalog() (types.Catalog, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	store := catalog.NewStore()
	if err := store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}); err != nil {
		return nil, fmt.Errorf("attach catalog: %w", err)
	}

	return store, nil
}

// newLogger returns a development logger when --verbose is set, a nop
// logger otherwise.
func newLogger() *zap.Logger {
	if !flagVerbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// printJSON writes v as indented JSON.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
