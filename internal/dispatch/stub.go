package dispatch

import (
	"github.com/mesh-intelligence/stubforge/pkg/types"
)

// stubType is a synthesized concrete type: frozen dispatch tables shared by
// every instance. It is handed out as a forward identity by Declare before
// the tables are complete; instances created that early observe zero values
// for members whose bodies are not yet emitted.
type stubType struct {
	name       string
	contract   *types.Contract
	methods    map[string]*methodSlot
	properties map[string]*propertyEntry
	events     map[string]*eventEntry
	complete   bool
}

func (t *stubType) Name() string { return t.name }

func (t *stubType) Contract() *types.Contract { return t.contract }

// New creates an instance. Instances are stateless views over the shared
// tables, so creation never fails and instances are safe for concurrent use
// once the type is finalized.
func (t *stubType) New() types.Stub {
	return &stub{typ: t}
}

// stub is one instance of a synthesized type.
type stub struct {
	typ *stubType
}

// String identifies the instance's synthesized type.
func (s *stub) String() string {
	return "stub<" + s.typ.name + ">"
}

// Call invokes a method body. Arguments are accepted and ignored; the body
// alone decides the result.
func (s *stub) Call(method string, _ ...any) (any, error) {
	slot, ok := s.typ.methods[method]
	if !ok {
		return nil, types.ErrMemberNotFound
	}
	return s.invoke(slot), nil
}

// Get reads a property through its getter body.
func (s *stub) Get(property string, _ ...any) (any, error) {
	entry, ok := s.typ.properties[property]
	if !ok {
		return nil, types.ErrMemberNotFound
	}
	if entry.getter == nil {
		return nil, types.ErrMemberNotGettable
	}
	return s.invoke(entry.getter), nil
}

// Set writes a property through its setter body. Generated setters accept
// the value and drop it, so the observable state never changes.
func (s *stub) Set(property string, _ any) error {
	entry, ok := s.typ.properties[property]
	if !ok {
		return types.ErrMemberNotFound
	}
	if entry.setter == nil {
		return types.ErrMemberNotSettable
	}
	s.invoke(entry.setter)
	return nil
}

// Subscribe invokes the event's add accessor. The handler is dropped.
func (s *stub) Subscribe(event string, _ any) error {
	entry, ok := s.typ.events[event]
	if !ok {
		return types.ErrMemberNotFound
	}
	s.invoke(entry.add)
	return nil
}

// Unsubscribe invokes the event's remove accessor.
func (s *stub) Unsubscribe(event string, _ any) error {
	entry, ok := s.typ.events[event]
	if !ok {
		return types.ErrMemberNotFound
	}
	s.invoke(entry.remove)
	return nil
}

// invoke runs a slot's body. A slot without a body (forward-declared type
// still being filled in) degrades to the declared type's zero value.
func (s *stub) invoke(slot *methodSlot) any {
	if slot == nil || !slot.hasBody {
		if slot != nil && slot.result != nil {
			return slot.result.Zero()
		}
		return nil
	}
	return slot.body()
}
