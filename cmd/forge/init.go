// Init command: create configuration and data directories, then initialize
// the contract catalog.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stubforge/pkg/catalog"
	"github.com/mesh-intelligence/stubforge/pkg/types"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the contract catalog",
	Long:  "Create configuration and data directories, then initialize the catalog backend.",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dataDir, err := resolveDataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	store := catalog.NewStore()
	if err := store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}); err != nil {
		return fmt.Errorf("initialize catalog: %w", err)
	}
	if err := store.Detach(); err != nil {
		return fmt.Errorf("finalize catalog: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Catalog initialized successfully")
	return nil
}
