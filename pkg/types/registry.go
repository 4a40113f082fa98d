package types

// Registry is the memoization store the engine consults when a member's
// declared type is itself a contract: (contract, name) maps to a previously
// synthesized stub type.
//
// TryGet is a pure lookup with no side effects. Implementations must
// tolerate concurrent reads while entries are registered elsewhere.
type Registry interface {
	TryGet(c *Contract, name string) (StubType, bool)
}
