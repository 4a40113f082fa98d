// Synth command: synthesize a stub type from a catalog contract and probe
// every member of the result.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/stubforge/pkg/dispatch"
	"github.com/mesh-intelligence/stubforge/pkg/registry"
	"github.com/mesh-intelligence/stubforge/pkg/synth"
	"github.com/mesh-intelligence/stubforge/pkg/types"
)

var (
	synthName      string
	synthPolicy    string
	synthOverrides []string
	synthZeros     []string
	synthDeep      bool
)

// policyFileYAML is the on-disk policy format accepted by --policy. Flags
// take precedence over file entries for the same member.
type policyFileYAML struct {
	Name      string         `yaml:"name"`
	Overrides map[string]any `yaml:"overrides"`
	Zeros     []string       `yaml:"zeros"`
}

var synthCmd = &cobra.Command{
	Use:   "synth <contract>",
	Short: "Synthesize a stub type and probe its members",
	Long: `Synth loads a contract from the catalog, synthesizes a null-object
stub type for it, and invokes every member of a fresh instance, printing the
observed values.

With --deep (the default), stubs are first synthesized and registered for
every contract reachable from the target, so contract-typed members resolve
to substituted stubs instead of nil.

Example:
  forge synth Greeter
  forge synth Greeter --override Greet=hi --zero Count
  forge synth Greeter --policy greeter-policy.yaml
  forge synth Greeter --name greeter-test --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSynth,
}

func init() {
	synthCmd.Flags().StringVar(&synthName, "name", "", "generated stub type name (default: <contract>-stub)")
	synthCmd.Flags().StringVar(&synthPolicy, "policy", "", "YAML policy file with name, overrides, and zeros")
	synthCmd.Flags().StringArrayVar(&synthOverrides, "override", nil, "member return override, member=value (repeatable)")
	synthCmd.Flags().StringArrayVar(&synthZeros, "zero", nil, "member forced to its zero value (repeatable)")
	synthCmd.Flags().BoolVar(&synthDeep, "deep", true, "pre-synthesize stubs for referenced contracts")
}

// memberResult is one probe row, also used for JSON mode.
type memberResult struct {
	Member string `json:"member"`
	Kind   string `json:"kind"`
	Value  string `json:"value"`
}

// synthView is the JSON-mode output document.
type synthView struct {
	Contract string         `json:"contract"`
	Name     string         `json:"name"`
	Members  []memberResult `json:"members"`
}

func runSynth(cmd *cobra.Command, args []string) error {
	store, err := attachCatalog()
	if err != nil {
		return err
	}
	defer store.Detach()

	target, err := store.Get(args[0])
	if err != nil {
		return fmt.Errorf("load contract %q: %w", args[0], err)
	}

	var filePolicy policyFileYAML
	if synthPolicy != "" {
		data, err := os.ReadFile(synthPolicy)
		if err != nil {
			return fmt.Errorf("read policy file: %w", err)
		}
		if err := yaml.Unmarshal(data, &filePolicy); err != nil {
			return fmt.Errorf("parse policy file %s: %w", synthPolicy, err)
		}
	}

	name := synthName
	if name == "" {
		name = filePolicy.Name
	}
	if name == "" {
		name = strings.ToLower(target.Name) + "-stub"
	}

	reg := registry.New()
	engine := synth.New(dispatch.NewBackend(), reg,
		synth.WithSelfRegistration(reg),
		synth.WithLogger(newLogger()))

	if synthDeep {
		for _, dep := range referencedContracts(target) {
			if dep == target {
				continue
			}
			if _, ok := reg.TryGet(dep, name); ok {
				continue
			}
			if _, ok := engine.Create(types.NewPolicy(dep, name)); !ok {
				return fmt.Errorf("contract %q is not synthesizable", dep.Name)
			}
		}
	}

	policy, err := buildPolicy(target, name, filePolicy)
	if err != nil {
		return err
	}

	st, ok := engine.Create(policy)
	if !ok {
		return fmt.Errorf("contract %q is not synthesizable under this policy", target.Name)
	}

	results := probe(st)
	if flagJSON {
		return printJSON(synthView{
			Contract: target.Name,
			Name:     st.Name(),
			Members:  results,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Synthesized %s for contract %s\n\n", st.Name(), target.Name)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEMBER\tKIND\tVALUE")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Member, r.Kind, r.Value)
	}
	w.Flush()
	return nil
}

// buildPolicy assembles the generation policy from the policy file and the
// override flags, file entries first so flags win on the same member.
// Override values are parsed as YAML scalars, so --override Count=5 yields
// an integer and --override Greet=hi a string.
func buildPolicy(target *types.Contract, name string, file policyFileYAML) (types.Policy, error) {
	policy := types.NewPolicy(target, name)

	for member, value := range file.Overrides {
		policy = policy.WithReturn(member, value)
	}
	for _, member := range file.Zeros {
		policy = policy.WithZeroReturn(member)
	}

	for _, spec := range synthOverrides {
		member, raw, found := strings.Cut(spec, "=")
		if !found || member == "" {
			return types.Policy{}, fmt.Errorf("invalid override %q, want member=value", spec)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return types.Policy{}, fmt.Errorf("parse override %q: %w", spec, err)
		}
		policy = policy.WithReturn(member, value)
	}

	for _, member := range synthZeros {
		policy = policy.WithZeroReturn(member)
	}

	return policy, nil
}

// referencedContracts returns every contract reachable from c through embeds
// and contract-typed member results, in dependency-first order so referenced
// stubs exist before their referrers are synthesized. Cycles terminate and
// resolve through the engine's forward registration.
func referencedContracts(c *types.Contract) []*types.Contract {
	seen := make(map[*types.Contract]bool)
	var order []*types.Contract
	var walk func(*types.Contract)
	walk = func(cur *types.Contract) {
		if cur == nil || seen[cur] {
			return
		}
		seen[cur] = true
		for _, flat := range cur.Flatten() {
			for _, m := range flat.Methods {
				if m.Result != nil && m.Result.IsContract() {
					walk(m.Result.Contract)
				}
			}
			for _, p := range flat.Properties {
				if p.Type.IsContract() {
					walk(p.Type.Contract)
				}
			}
		}
		order = append(order, cur)
	}
	walk(c)
	return order
}

// probe creates one instance and exercises every member of the stub's
// contract graph.
func probe(st types.StubType) []memberResult {
	instance := st.New()
	var results []memberResult

	for _, c := range st.Contract().Flatten() {
		for _, m := range c.Methods {
			v, err := instance.Call(m.Name)
			value := formatValue(v, err)
			if m.Result == nil && err == nil {
				value = "(void)"
			}
			results = append(results, memberResult{Member: m.Name, Kind: "method", Value: value})
		}
		for _, p := range c.Properties {
			if p.Gettable {
				v, err := instance.Get(p.Name)
				results = append(results, memberResult{Member: p.Name, Kind: "property", Value: formatValue(v, err)})
			} else {
				results = append(results, memberResult{Member: p.Name, Kind: "property", Value: "(write-only)"})
			}
		}
		for _, e := range c.Events {
			err := instance.Subscribe(e.Name, nil)
			if err == nil {
				err = instance.Unsubscribe(e.Name, nil)
			}
			value := "(no-op)"
			if err != nil {
				value = "error: " + err.Error()
			}
			results = append(results, memberResult{Member: e.Name, Kind: "event", Value: value})
		}
	}
	return results
}

// formatValue renders a probed member value for display.
func formatValue(v any, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	if v == nil {
		return "nil"
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
