// Contract delete command.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stubforge/pkg/types"
)

var contractDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a contract from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runContractDelete,
}

func runContractDelete(cmd *cobra.Command, args []string) error {
	store, err := attachCatalog()
	if err != nil {
		return err
	}
	defer store.Detach()

	if err := store.Delete(args[0]); err != nil {
		if errors.Is(err, types.ErrContractNotFound) {
			return fmt.Errorf("contract %q not found", args[0])
		}
		return fmt.Errorf("delete contract %q: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted contract %q\n", args[0])
	return nil
}
