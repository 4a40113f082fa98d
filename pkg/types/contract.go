package types

import "errors"

// Contract describes an abstract capability: the methods, properties, and
// events a concrete type must satisfy. A contract may embed other contracts;
// a stub synthesized for it implements every member of every contract it
// transitively embeds.
//
// Contracts are built once and treated as immutable afterward. The engine
// keys registry lookups on contract identity (pointer), so a contract graph
// should be shared, not copied.
type Contract struct {
	Name       string
	Embeds     []*Contract
	Methods    []Method
	Properties []Property
	Events     []Event
}

// Method describes a callable member. A nil Result marks a void method.
type Method struct {
	Name   string
	Params []TypeRef
	Result *TypeRef
}

// Property describes a gettable and/or settable member. IndexParams is
// non-empty for indexed properties.
type Property struct {
	Name        string
	Type        TypeRef
	Gettable    bool
	Settable    bool
	IndexParams []TypeRef
}

// Event describes a subscribable member. Handler names the handler type the
// add and remove accessors accept.
type Event struct {
	Name    string
	Handler TypeRef
}

// Contract validation errors.
var (
	ErrNilContract       = errors.New("contract must not be nil")
	ErrContractNameEmpty = errors.New("contract name must not be empty")
)

// Validate checks that the contract is well-formed enough to synthesize:
// non-nil with a non-empty name.
func (c *Contract) Validate() error {
	if c == nil {
		return ErrNilContract
	}
	if c.Name == "" {
		return ErrContractNameEmpty
	}
	return nil
}

// Flatten returns the ordered contract list the engine walks during
// synthesis: the receiver first, then every embedded contract in depth-first
// order. Each contract appears exactly once, so diamond and cyclic embed
// graphs terminate.
func (c *Contract) Flatten() []*Contract {
	if c == nil {
		return nil
	}
	seen := make(map[*Contract]bool)
	var out []*Contract
	var walk func(*Contract)
	walk = func(cur *Contract) {
		if cur == nil || seen[cur] {
			return
		}
		seen[cur] = true
		out = append(out, cur)
		for _, e := range cur.Embeds {
			walk(e)
		}
	}
	walk(c)
	return out
}
