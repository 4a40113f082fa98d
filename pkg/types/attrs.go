package types

// MethodAttrs carries the visibility and dispatch flags the engine requests
// for a defined member. The dispatch backend records them with the member so
// the requested override shape is observable; it does not change runtime
// behavior.
type MethodAttrs uint16

const (
	AttrPublic MethodAttrs = 1 << iota
	AttrFinal
	AttrVirtual
	AttrHideBySig
	AttrNewSlot
	AttrSpecialName
)

// StubMethodAttrs is the flag set used for every synthesized method
// override: a public, final, virtual, hide-by-signature, new-slot member.
const StubMethodAttrs = AttrPublic | AttrFinal | AttrVirtual | AttrHideBySig | AttrNewSlot

// AccessorAttrs is StubMethodAttrs plus the special-name marker used for
// property getters/setters and event add/remove accessors.
const AccessorAttrs = StubMethodAttrs | AttrSpecialName

// Has reports whether all flags in mask are set.
func (a MethodAttrs) Has(mask MethodAttrs) bool {
	return a&mask == mask
}
