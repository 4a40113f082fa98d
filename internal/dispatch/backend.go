// Package dispatch implements the default synthesis backend for stubforge.
// A synthesized type is a generic interception object: per-member dispatch
// tables of closures, filled in while the scaffold is open and frozen at
// finalization. No code generation or reflection is involved.
package dispatch

import (
	"errors"

	"github.com/mesh-intelligence/stubforge/pkg/types"
)

// ErrNameEmpty is returned when a scaffold is requested without a generated
// type name.
var ErrNameEmpty = errors.New("generated type name must not be empty")

// Backend implements types.Backend. It is stateless; each scaffold owns its
// own tables, so concurrent scaffold allocation needs no coordination.
type Backend struct{}

// NewBackend creates a dispatch backend instance.
func NewBackend() *Backend {
	return &Backend{}
}

// CreateScaffold allocates an empty type scaffold for the target contract.
func (b *Backend) CreateScaffold(target *types.Contract, name string) (types.Scaffold, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameEmpty
	}
	return newScaffold(target, name), nil
}
