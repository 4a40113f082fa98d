// Contract show command: display one contract's members.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stubforge/pkg/types"
)

var contractShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a contract's members",
	Args:  cobra.ExactArgs(1),
	RunE:  runContractShow,
}

// memberView is one row of show output, also used for JSON mode.
type memberView struct {
	Contract string `json:"contract"`
	Member   string `json:"member"`
	Kind     string `json:"kind"`
	Type     string `json:"type"`
	Detail   string `json:"detail,omitempty"`
}

func runContractShow(cmd *cobra.Command, args []string) error {
	store, err := attachCatalog()
	if err != nil {
		return err
	}
	defer store.Detach()

	c, err := store.Get(args[0])
	if err != nil {
		return fmt.Errorf("load contract %q: %w", args[0], err)
	}

	views := contractMembers(c)
	if flagJSON {
		return printJSON(views)
	}

	printMemberTable(cmd, views)
	return nil
}

// contractMembers flattens the contract graph into display rows, walking the
// same ordered contract list the engine synthesizes from.
func contractMembers(c *types.Contract) []memberView {
	var views []memberView
	for _, cur := range c.Flatten() {
		for _, m := range cur.Methods {
			result := "void"
			if m.Result != nil {
				result = m.Result.Name
			}
			views = append(views, memberView{
				Contract: cur.Name,
				Member:   m.Name,
				Kind:     "method",
				Type:     result,
				Detail:   fmt.Sprintf("%d param(s)", len(m.Params)),
			})
		}
		for _, p := range cur.Properties {
			var sides []string
			if p.Gettable {
				sides = append(sides, "get")
			}
			if p.Settable {
				sides = append(sides, "set")
			}
			views = append(views, memberView{
				Contract: cur.Name,
				Member:   p.Name,
				Kind:     "property",
				Type:     p.Type.Name,
				Detail:   strings.Join(sides, "/"),
			})
		}
		for _, e := range cur.Events {
			views = append(views, memberView{
				Contract: cur.Name,
				Member:   e.Name,
				Kind:     "event",
				Type:     e.Handler.Name,
			})
		}
	}
	return views
}

// printMemberTable prints member rows in a human-readable table format.
func printMemberTable(cmd *cobra.Command, views []memberView) {
	if len(views) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Contract has no members.")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONTRACT\tMEMBER\tKIND\tTYPE\tDETAIL")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", v.Contract, v.Member, v.Kind, v.Type, v.Detail)
	}
	w.Flush()
}
