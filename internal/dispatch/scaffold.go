package dispatch

import (
	"github.com/mesh-intelligence/stubforge/pkg/types"
)

// methodSlot is one member body slot: the signature the engine requested
// plus the compiled body closure. It implements types.MethodHandle.
type methodSlot struct {
	scaffold *scaffold
	name     string
	attrs    types.MethodAttrs
	result   *types.TypeRef
	params   []types.TypeRef
	body     func() any
	hasBody  bool
}

// EmitBody compiles the body description into a closure. Each slot accepts
// exactly one body; later definitions and unknown operations are rejected.
func (m *methodSlot) EmitBody(body types.Body) error {
	if m.scaffold.finalized {
		return types.ErrScaffoldFinalized
	}
	if m.hasBody {
		return types.ErrBodyAlreadySet
	}

	fn, err := compileBody(body)
	if err != nil {
		return err
	}
	m.body = fn
	m.hasBody = true
	return nil
}

// compileBody turns a body description into the closure invoked on every
// member call. Construction ops defer to invocation time, so a stub-typed
// member yields a fresh instance per call.
func compileBody(body types.Body) (func() any, error) {
	switch body.Op {
	case types.OpEmpty:
		return func() any { return nil }, nil

	case types.OpReturnValue:
		v := body.Value
		return func() any { return v }, nil

	case types.OpConstructDefault:
		ctor := body.Type.New
		if ctor == nil {
			return nil, types.ErrNoConstructor
		}
		return func() any { return ctor() }, nil

	case types.OpConstructStub:
		st := body.Stub
		if st == nil {
			return nil, types.ErrNilStubType
		}
		return func() any { return st.New() }, nil

	case types.OpZeroValue:
		z := body.Type.Zero()
		return func() any { return z }, nil

	default:
		return nil, types.ErrUnknownBodyOp
	}
}

// propertyEntry binds a property's declared type to its accessor slots.
type propertyEntry struct {
	typ    types.TypeRef
	attrs  types.MethodAttrs
	index  []types.TypeRef
	getter *methodSlot
	setter *methodSlot
}

// eventEntry binds an event's handler type to its add/remove slots.
type eventEntry struct {
	handler types.TypeRef
	attrs   types.MethodAttrs
	add     *methodSlot
	remove  *methodSlot
}

// scaffold is an in-progress stub type. The underlying stubType is created
// up front so Declare can hand out a forward identity before the member
// tables are filled.
type scaffold struct {
	typ       *stubType
	finalized bool
}

func newScaffold(target *types.Contract, name string) *scaffold {
	return &scaffold{
		typ: &stubType{
			name:       name,
			contract:   target,
			methods:    make(map[string]*methodSlot),
			properties: make(map[string]*propertyEntry),
			events:     make(map[string]*eventEntry),
		},
	}
}

// DefineMethod adds a method slot. Accessor slots for properties and events
// are defined through here as well, under their accessor names.
func (s *scaffold) DefineMethod(name string, attrs types.MethodAttrs, result *types.TypeRef, params []types.TypeRef) (types.MethodHandle, error) {
	if s.finalized {
		return nil, types.ErrScaffoldFinalized
	}
	if _, exists := s.typ.methods[name]; exists {
		return nil, types.ErrMemberConflict
	}

	slot := &methodSlot{
		scaffold: s,
		name:     name,
		attrs:    attrs,
		result:   result,
		params:   params,
	}
	s.typ.methods[name] = slot
	return slot, nil
}

// DefineProperty binds getter/setter handles built via DefineMethod as the
// property's accessors. Either handle may be nil for a one-sided property.
func (s *scaffold) DefineProperty(name string, attrs types.MethodAttrs, typ types.TypeRef, index []types.TypeRef, getter, setter types.MethodHandle) error {
	if s.finalized {
		return types.ErrScaffoldFinalized
	}
	if _, exists := s.typ.properties[name]; exists {
		return types.ErrMemberConflict
	}

	get, err := s.ownSlot(getter)
	if err != nil {
		return err
	}
	set, err := s.ownSlot(setter)
	if err != nil {
		return err
	}

	s.typ.properties[name] = &propertyEntry{
		typ:    typ,
		attrs:  attrs,
		index:  index,
		getter: get,
		setter: set,
	}
	return nil
}

// DefineEvent binds add/remove handles built via DefineMethod as the
// event's accessors.
func (s *scaffold) DefineEvent(name string, attrs types.MethodAttrs, handler types.TypeRef, add, remove types.MethodHandle) error {
	if s.finalized {
		return types.ErrScaffoldFinalized
	}
	if _, exists := s.typ.events[name]; exists {
		return types.ErrMemberConflict
	}

	addSlot, err := s.ownSlot(add)
	if err != nil {
		return err
	}
	removeSlot, err := s.ownSlot(remove)
	if err != nil {
		return err
	}

	s.typ.events[name] = &eventEntry{
		handler: handler,
		attrs:   attrs,
		add:     addSlot,
		remove:  removeSlot,
	}
	return nil
}

// Declare returns the forward type identity of the type being built.
func (s *scaffold) Declare() types.StubType {
	return s.typ
}

// Finalize verifies every slot received a body, freezes the tables, and
// returns the usable type.
func (s *scaffold) Finalize() (types.StubType, error) {
	if s.finalized {
		return nil, types.ErrScaffoldFinalized
	}
	for _, slot := range s.typ.methods {
		if !slot.hasBody {
			return nil, types.ErrMissingBody
		}
	}

	s.finalized = true
	s.typ.complete = true
	return s.typ, nil
}

// ownSlot asserts that a handle was created by this scaffold. A nil handle
// is allowed and maps to a nil slot.
func (s *scaffold) ownSlot(h types.MethodHandle) (*methodSlot, error) {
	if h == nil {
		return nil, nil
	}
	slot, ok := h.(*methodSlot)
	if !ok || slot.scaffold != s {
		return nil, types.ErrInvalidHandle
	}
	return slot, nil
}
