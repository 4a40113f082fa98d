// Contract command group and the YAML contract definition format.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/stubforge/pkg/types"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Manage catalog contracts",
}

func init() {
	contractCmd.AddCommand(contractAddCmd)
	contractCmd.AddCommand(contractListCmd)
	contractCmd.AddCommand(contractShowCmd)
	contractCmd.AddCommand(contractDeleteCmd)
}

// YAML structures for contract definition files. References to other
// contracts are by name; referenced contracts must exist in the catalog by
// the time a stub is synthesized, not at add time.

type contractFileYAML struct {
	Contracts []contractYAML `yaml:"contracts"`
}

type contractYAML struct {
	Name       string         `yaml:"name"`
	Embeds     []string       `yaml:"embeds"`
	Methods    []methodYAML   `yaml:"methods"`
	Properties []propertyYAML `yaml:"properties"`
	Events     []eventYAML    `yaml:"events"`
}

type typeYAML struct {
	Kind     string `yaml:"kind"`
	Name     string `yaml:"name"`
	Contract string `yaml:"contract"`
}

type methodYAML struct {
	Name   string     `yaml:"name"`
	Params []typeYAML `yaml:"params"`
	Result *typeYAML  `yaml:"result"`
}

type propertyYAML struct {
	Name     string     `yaml:"name"`
	Type     typeYAML   `yaml:"type"`
	Gettable bool       `yaml:"gettable"`
	Settable bool       `yaml:"settable"`
	Index    []typeYAML `yaml:"index"`
}

type eventYAML struct {
	Name    string   `yaml:"name"`
	Handler typeYAML `yaml:"handler"`
}

// parseContractFile decodes a YAML definition file. Both a top-level
// contracts list and a single bare contract document are accepted.
func parseContractFile(data []byte) ([]contractYAML, error) {
	var file contractFileYAML
	if err := yaml.Unmarshal(data, &file); err == nil && len(file.Contracts) > 0 {
		return file.Contracts, nil
	}

	var single contractYAML
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parse contract file: %w", err)
	}
	if single.Name == "" {
		return nil, fmt.Errorf("contract file defines no contracts")
	}
	return []contractYAML{single}, nil
}

// toContract converts a YAML definition into a contract descriptor.
// Referenced contracts become name-only placeholders; the catalog stores
// references by name and re-resolves them on load.
func (cy contractYAML) toContract() (*types.Contract, error) {
	c := &types.Contract{Name: cy.Name}

	for _, name := range cy.Embeds {
		if name == "" {
			return nil, fmt.Errorf("contract %q: empty embed name", cy.Name)
		}
		c.Embeds = append(c.Embeds, &types.Contract{Name: name})
	}

	for _, my := range cy.Methods {
		m := types.Method{Name: my.Name}
		for _, ty := range my.Params {
			t, err := ty.toTypeRef()
			if err != nil {
				return nil, fmt.Errorf("contract %q, method %q: %w", cy.Name, my.Name, err)
			}
			m.Params = append(m.Params, t)
		}
		if my.Result != nil {
			t, err := my.Result.toTypeRef()
			if err != nil {
				return nil, fmt.Errorf("contract %q, method %q: %w", cy.Name, my.Name, err)
			}
			m.Result = &t
		}
		c.Methods = append(c.Methods, m)
	}

	for _, py := range cy.Properties {
		t, err := py.Type.toTypeRef()
		if err != nil {
			return nil, fmt.Errorf("contract %q, property %q: %w", cy.Name, py.Name, err)
		}
		p := types.Property{
			Name:     py.Name,
			Type:     t,
			Gettable: py.Gettable,
			Settable: py.Settable,
		}
		for _, iy := range py.Index {
			it, err := iy.toTypeRef()
			if err != nil {
				return nil, fmt.Errorf("contract %q, property %q: %w", cy.Name, py.Name, err)
			}
			p.IndexParams = append(p.IndexParams, it)
		}
		c.Properties = append(c.Properties, p)
	}

	for _, ey := range cy.Events {
		t, err := ey.Handler.toTypeRef()
		if err != nil {
			return nil, fmt.Errorf("contract %q, event %q: %w", cy.Name, ey.Name, err)
		}
		c.Events = append(c.Events, types.Event{Name: ey.Name, Handler: t})
	}

	return c, nil
}

func (ty typeYAML) toTypeRef() (types.TypeRef, error) {
	if !types.ValidKind(ty.Kind) {
		return types.TypeRef{}, fmt.Errorf("unknown type kind %q", ty.Kind)
	}

	t := types.TypeRef{Kind: ty.Kind, Name: ty.Name}
	if ty.Kind == types.KindInterface {
		ref := ty.Contract
		if ref == "" {
			ref = ty.Name
		}
		if ref == "" {
			return types.TypeRef{}, fmt.Errorf("interface type needs a contract name")
		}
		t.Contract = &types.Contract{Name: ref}
		t.Name = ref
	}
	return t, nil
}
