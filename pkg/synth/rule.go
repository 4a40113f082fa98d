package synth

import "github.com/mesh-intelligence/stubforge/pkg/types"

// resolveResult is the member-result rule: the single ordered evaluator
// applied to every method return and property getter. Priority is strict:
//
//	override > stub substitution > default construction > zero value
//
// An explicit-zero override bypasses stub substitution and default
// construction entirely. An interface-typed member consults the registry
// under (member contract, stub name); a missing entry is not a fault and
// silently degrades to the zero value. No inline recursive synthesis is
// attempted here.
func (s *Synthesizer) resolveResult(policy types.Policy, member string, typ types.TypeRef, stubName string) types.Body {
	if o, ok := policy.Override(member); ok {
		if o.Zero {
			return types.Body{Op: types.OpZeroValue, Type: typ}
		}
		return types.Body{Op: types.OpReturnValue, Value: o.Value}
	}

	if typ.IsContract() {
		if st, ok := s.reg.TryGet(typ.Contract, stubName); ok {
			return types.Body{Op: types.OpConstructStub, Stub: st}
		}
		return types.Body{Op: types.OpZeroValue, Type: typ}
	}

	if typ.Kind == types.KindStruct && typ.New != nil {
		return types.Body{Op: types.OpConstructDefault, Type: typ}
	}

	return types.Body{Op: types.OpZeroValue, Type: typ}
}
