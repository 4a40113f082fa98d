package types

import "errors"

// Body operations. The engine describes what a member body should produce;
// the backend compiles the description into an executable body.
const (
	// OpEmpty is a body that accepts its arguments, does nothing, and
	// returns. Used for void methods, setters, and event accessors.
	OpEmpty = "empty"

	// OpReturnValue returns the literal value carried in Body.Value.
	OpReturnValue = "return-value"

	// OpConstructDefault returns a freshly constructed default instance of
	// Body.Type via its parameterless constructor.
	OpConstructDefault = "construct-default"

	// OpConstructStub returns a new instance of the registered stub type
	// carried in Body.Stub.
	OpConstructStub = "construct-stub"

	// OpZeroValue returns the zero value of Body.Type.
	OpZeroValue = "zero-value"
)

// Body is the ordered description of what a generated member body produces,
// then returns. Exactly one of the value-carrying fields is meaningful,
// selected by Op.
type Body struct {
	Op    string
	Value any
	Stub  StubType
	Type  TypeRef
}

// MethodHandle is a member body slot on a scaffold, produced by DefineMethod
// and later bound as a method, accessor, or event handle.
type MethodHandle interface {
	// EmitBody installs the body description. Emitting twice on the same
	// handle or using an unknown Op is a definition error.
	EmitBody(body Body) error
}

// Scaffold is an in-progress stub type owned by a synthesis backend. The
// engine defines members and bodies on it, then finalizes it into a usable
// StubType. A scaffold rejects definitions after finalization.
type Scaffold interface {
	// DefineMethod adds a method slot with the given signature. A nil
	// result marks a void method. Returns ErrMemberConflict if the name is
	// already defined on this scaffold.
	DefineMethod(name string, attrs MethodAttrs, result *TypeRef, params []TypeRef) (MethodHandle, error)

	// DefineProperty binds separately built getter/setter handles as the
	// property's accessors. Either handle may be nil when the side is not
	// declared.
	DefineProperty(name string, attrs MethodAttrs, typ TypeRef, index []TypeRef, getter, setter MethodHandle) error

	// DefineEvent binds separately built add/remove handles as the event's
	// accessors.
	DefineEvent(name string, attrs MethodAttrs, handler TypeRef, add, remove MethodHandle) error

	// Declare returns the scaffold's forward type identity before
	// finalization, so member bodies resolved during fill-in can already
	// reference the type being built. Instances created before Finalize
	// observe zero values for members without bodies.
	Declare() StubType

	// Finalize validates that every defined member received a body and
	// turns the scaffold into a usable StubType. A finalized scaffold
	// accepts no further definitions.
	Finalize() (StubType, error)
}

// Backend is the synthesis backend consumed by the engine: it allocates
// scaffolds and owns the finalized types.
type Backend interface {
	CreateScaffold(target *Contract, name string) (Scaffold, error)
}

// StubType is a finalized synthesized type. It implements every member of
// its target contract and all contracts the target transitively embeds, and
// lives for the rest of the process.
type StubType interface {
	Name() string
	Contract() *Contract
	New() Stub
}

// Stub is one instance of a synthesized type. Unknown member names return
// ErrMemberNotFound; everything else behaves as the generation policy
// configured.
type Stub interface {
	// Call invokes a method and returns its configured result, or nil for
	// void methods. Arguments are accepted and ignored.
	Call(method string, args ...any) (any, error)

	// Get reads a property through its getter.
	Get(property string, index ...any) (any, error)

	// Set writes a property through its setter. Generated setters accept
	// the value and drop it.
	Set(property string, value any) error

	// Subscribe invokes an event's add accessor. The handler is never
	// stored or invoked.
	Subscribe(event string, handler any) error

	// Unsubscribe invokes an event's remove accessor.
	Unsubscribe(event string, handler any) error
}

// Backend definition errors.
var (
	ErrMemberConflict    = errors.New("member already defined")
	ErrScaffoldFinalized = errors.New("scaffold is finalized")
	ErrMissingBody       = errors.New("member has no body")
	ErrBodyAlreadySet    = errors.New("member body already emitted")
	ErrUnknownBodyOp     = errors.New("unknown body operation")
	ErrNoConstructor     = errors.New("type has no parameterless constructor")
	ErrNilStubType       = errors.New("stub type must not be nil")
	ErrInvalidHandle     = errors.New("handle does not belong to this scaffold")
)

// Stub invocation errors.
var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrMemberNotGettable = errors.New("property has no getter")
	ErrMemberNotSettable = errors.New("property has no setter")
)
