package catalog

// JSON document structures for catalog persistence. These mirror the
// contract descriptor model with references flattened to names; the loader
// re-resolves them against the catalog. Constructors are not persistable, so
// struct-typed members loaded from the catalog carry no constructor and
// synthesize to their zero value.

import (
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/stubforge/pkg/types"
)

// contractJSON represents one contract document.
type contractJSON struct {
	Name       string         `json:"name"`
	Embeds     []string       `json:"embeds,omitempty"`
	Methods    []methodJSON   `json:"methods,omitempty"`
	Properties []propertyJSON `json:"properties,omitempty"`
	Events     []eventJSON    `json:"events,omitempty"`
}

// typeJSON represents a TypeRef. Contract carries the referenced contract
// name for interface kinds.
type typeJSON struct {
	Kind     string `json:"kind"`
	Name     string `json:"name,omitempty"`
	Contract string `json:"contract,omitempty"`
}

type methodJSON struct {
	Name   string     `json:"name"`
	Params []typeJSON `json:"params,omitempty"`
	Result *typeJSON  `json:"result,omitempty"`
}

type propertyJSON struct {
	Name     string     `json:"name"`
	Type     typeJSON   `json:"type"`
	Gettable bool       `json:"gettable"`
	Settable bool       `json:"settable"`
	Index    []typeJSON `json:"index,omitempty"`
}

type eventJSON struct {
	Name    string   `json:"name"`
	Handler typeJSON `json:"handler"`
}

// loaderFunc resolves a contract name to a contract, sharing the cache of
// the enclosing load.
type loaderFunc func(name string, cache map[string]*types.Contract) (*types.Contract, error)

// encodeContract serializes a contract graph node to its JSON document.
// References are stored by name only; referenced contracts must be saved
// separately.
func encodeContract(c *types.Contract) (string, error) {
	doc := contractJSON{Name: c.Name}

	for _, e := range c.Embeds {
		if err := e.Validate(); err != nil {
			return "", errors.WithSecondaryError(types.ErrInvalidContract, err)
		}
		doc.Embeds = append(doc.Embeds, e.Name)
	}
	for _, m := range c.Methods {
		mj := methodJSON{Name: m.Name, Params: typesToJSON(m.Params)}
		if m.Result != nil {
			rj := typeToJSON(*m.Result)
			mj.Result = &rj
		}
		doc.Methods = append(doc.Methods, mj)
	}
	for _, p := range c.Properties {
		doc.Properties = append(doc.Properties, propertyJSON{
			Name:     p.Name,
			Type:     typeToJSON(p.Type),
			Gettable: p.Gettable,
			Settable: p.Settable,
			Index:    typesToJSON(p.IndexParams),
		})
	}
	for _, e := range c.Events {
		doc.Events = append(doc.Events, eventJSON{Name: e.Name, Handler: typeToJSON(e.Handler)})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrapf(err, "encode contract %q", c.Name)
	}
	return string(data), nil
}

// decodeContract rebuilds a contract from its document, resolving embedded
// and interface-typed references through load. The partially built contract
// enters the cache before references resolve, so cycles terminate.
func decodeContract(name, doc string, cache map[string]*types.Contract, load loaderFunc) (*types.Contract, error) {
	var cj contractJSON
	if err := json.Unmarshal([]byte(doc), &cj); err != nil {
		return nil, errors.Wrapf(err, "decode contract %q", name)
	}

	c := &types.Contract{Name: cj.Name}
	cache[name] = c

	for _, embed := range cj.Embeds {
		e, err := load(embed, cache)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve embed of %q", name)
		}
		c.Embeds = append(c.Embeds, e)
	}

	for _, mj := range cj.Methods {
		m := types.Method{Name: mj.Name}
		params, err := typesFromJSON(mj.Params, cache, load)
		if err != nil {
			return nil, err
		}
		m.Params = params
		if mj.Result != nil {
			r, err := typeFromJSON(*mj.Result, cache, load)
			if err != nil {
				return nil, err
			}
			m.Result = &r
		}
		c.Methods = append(c.Methods, m)
	}

	for _, pj := range cj.Properties {
		t, err := typeFromJSON(pj.Type, cache, load)
		if err != nil {
			return nil, err
		}
		index, err := typesFromJSON(pj.Index, cache, load)
		if err != nil {
			return nil, err
		}
		c.Properties = append(c.Properties, types.Property{
			Name:        pj.Name,
			Type:        t,
			Gettable:    pj.Gettable,
			Settable:    pj.Settable,
			IndexParams: index,
		})
	}

	for _, ej := range cj.Events {
		h, err := typeFromJSON(ej.Handler, cache, load)
		if err != nil {
			return nil, err
		}
		c.Events = append(c.Events, types.Event{Name: ej.Name, Handler: h})
	}

	return c, nil
}

func typeToJSON(t types.TypeRef) typeJSON {
	tj := typeJSON{Kind: t.Kind, Name: t.Name}
	if t.Contract != nil {
		tj.Contract = t.Contract.Name
	}
	return tj
}

func typesToJSON(ts []types.TypeRef) []typeJSON {
	if len(ts) == 0 {
		return nil
	}
	out := make([]typeJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, typeToJSON(t))
	}
	return out
}

func typeFromJSON(tj typeJSON, cache map[string]*types.Contract, load loaderFunc) (types.TypeRef, error) {
	if !types.ValidKind(tj.Kind) {
		return types.TypeRef{}, errors.Newf("unknown type kind %q", tj.Kind)
	}

	t := types.TypeRef{Kind: tj.Kind, Name: tj.Name}
	if tj.Kind == types.KindInterface && tj.Contract != "" {
		c, err := load(tj.Contract, cache)
		if err != nil {
			return types.TypeRef{}, errors.Wrapf(err, "resolve interface type %q", tj.Contract)
		}
		t.Contract = c
		if t.Name == "" {
			t.Name = c.Name
		}
	}
	return t, nil
}

func typesFromJSON(tjs []typeJSON, cache map[string]*types.Contract, load loaderFunc) ([]types.TypeRef, error) {
	if len(tjs) == 0 {
		return nil, nil
	}
	out := make([]types.TypeRef, 0, len(tjs))
	for _, tj := range tjs {
		t, err := typeFromJSON(tj, cache, load)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
