// Contract add command: load contract definitions from a YAML file into the
// catalog.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var contractAddCmd = &cobra.Command{
	Use:   "add <file.yaml>",
	Short: "Add contracts from a YAML definition file",
	Long: `Add parses a YAML contract definition file and stores every contract
it defines in the catalog. Existing contracts with the same name are
replaced.

Example:
  forge contract add greeter.yaml
  forge contract add contracts/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runContractAdd,
}

func runContractAdd(cmd *cobra.Command, args []string) error {
	store, err := attachCatalog()
	if err != nil {
		return err
	}
	defer store.Detach()

	added := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		defs, err := parseContractFile(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		for _, def := range defs {
			c, err := def.toContract()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := store.Save(c); err != nil {
				return fmt.Errorf("save contract %q: %w", c.Name, err)
			}
			added++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %d contract(s)\n", added)
	return nil
}
