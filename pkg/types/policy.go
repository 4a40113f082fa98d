package types

// Override is one entry in a policy's return-override map. The tri-state
// per member is: no map entry (member follows the normal result rule),
// Zero true (member explicitly returns its type's zero value), or a stored
// Value (member returns exactly that value).
type Override struct {
	Value any
	Zero  bool
}

// Policy is the per-call generation configuration: the target contract, the
// name the synthesized type is registered and created under, and per-member
// return overrides.
//
// Policies are values; the With methods copy the override map, so a policy
// handed to Create can be treated as immutable. Override keys that match no
// member of the target graph are silently ignored.
type Policy struct {
	Target    *Contract
	Name      string
	overrides map[string]Override
}

// NewPolicy returns a policy for target with the given generated name and no
// overrides. An empty name is allowed; the engine generates one.
func NewPolicy(target *Contract, name string) Policy {
	return Policy{Target: target, Name: name}
}

// WithReturn returns a copy of the policy where member returns exactly value
// instead of whatever the result rule would produce.
func (p Policy) WithReturn(member string, value any) Policy {
	p.overrides = cloneOverrides(p.overrides)
	p.overrides[member] = Override{Value: value}
	return p
}

// WithZeroReturn returns a copy of the policy where member explicitly
// returns its declared type's zero value, bypassing stub substitution and
// default construction.
func (p Policy) WithZeroReturn(member string) Policy {
	p.overrides = cloneOverrides(p.overrides)
	p.overrides[member] = Override{Zero: true}
	return p
}

// Override returns the override entry for member, if any.
func (p Policy) Override(member string) (Override, bool) {
	o, ok := p.overrides[member]
	return o, ok
}

// Overridden returns the member names with override entries, in no
// particular order.
func (p Policy) Overridden() []string {
	names := make([]string, 0, len(p.overrides))
	for name := range p.overrides {
		names = append(names, name)
	}
	return names
}

func cloneOverrides(src map[string]Override) map[string]Override {
	dst := make(map[string]Override, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
