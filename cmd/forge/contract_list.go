// Contract list command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contractListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog contracts",
	Args:  cobra.NoArgs,
	RunE:  runContractList,
}

func runContractList(cmd *cobra.Command, args []string) error {
	store, err := attachCatalog()
	if err != nil {
		return err
	}
	defer store.Detach()

	names, err := store.List()
	if err != nil {
		return fmt.Errorf("list contracts: %w", err)
	}

	if flagJSON {
		return printJSON(names)
	}

	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No contracts in catalog.")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Total: %d contract(s)\n", len(names))
	return nil
}
