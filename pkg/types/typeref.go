package types

// Value-type kinds understood by the synthesis engine. A member's declared
// type is one of these kinds; the kind decides which branch of the
// member-result rule applies and what the type's zero value is.
const (
	KindVoid      = "void"
	KindBool      = "bool"
	KindInt       = "int"
	KindFloat     = "float"
	KindString    = "string"
	KindInterface = "interface"
	KindStruct    = "struct"
)

// validKinds is the set of recognized kind values.
var validKinds = map[string]bool{
	KindVoid:      true,
	KindBool:      true,
	KindInt:       true,
	KindFloat:     true,
	KindString:    true,
	KindInterface: true,
	KindStruct:    true,
}

// ValidKind reports whether kind is a recognized kind name.
func ValidKind(kind string) bool {
	return validKinds[kind]
}

// TypeRef describes the declared type of a member result, parameter,
// property, or event handler.
//
// Contract is non-nil only for KindInterface and names the contract the
// member's result must satisfy. New is an optional parameterless constructor
// for KindStruct; members of a struct type without a constructor fall back
// to the nil zero value.
type TypeRef struct {
	Kind     string
	Name     string
	Contract *Contract  `json:"-" yaml:"-"`
	New      func() any `json:"-" yaml:"-"`
}

// Bool returns the boolean type.
func Bool() TypeRef { return TypeRef{Kind: KindBool, Name: "bool"} }

// Int returns the integer type.
func Int() TypeRef { return TypeRef{Kind: KindInt, Name: "int"} }

// Float returns the floating-point type.
func Float() TypeRef { return TypeRef{Kind: KindFloat, Name: "float"} }

// String returns the string type.
func String() TypeRef { return TypeRef{Kind: KindString, Name: "string"} }

// InterfaceOf returns an interface type backed by the given contract.
func InterfaceOf(c *Contract) TypeRef {
	name := ""
	if c != nil {
		name = c.Name
	}
	return TypeRef{Kind: KindInterface, Name: name, Contract: c}
}

// StructOf returns a concrete struct type. ctor may be nil when the type has
// no parameterless constructor.
func StructOf(name string, ctor func() any) TypeRef {
	return TypeRef{Kind: KindStruct, Name: name, New: ctor}
}

// IsContract reports whether the type is an interface kind with a known
// contract behind it.
func (t TypeRef) IsContract() bool {
	return t.Kind == KindInterface && t.Contract != nil
}

// Zero returns the zero value for the type: false, 0, 0.0, "" for the
// scalar kinds and nil for void, interface, and struct kinds.
func (t TypeRef) Zero() any {
	switch t.Kind {
	case KindBool:
		return false
	case KindInt:
		return 0
	case KindFloat:
		return 0.0
	case KindString:
		return ""
	default:
		return nil
	}
}
