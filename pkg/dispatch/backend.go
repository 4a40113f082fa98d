// Package dispatch provides the public API for the closure-dispatch
// synthesis backend. This package exposes the factory function while keeping
// implementation details internal.
package dispatch

import (
	"github.com/mesh-intelligence/stubforge/internal/dispatch"
	"github.com/mesh-intelligence/stubforge/pkg/types"
)

// NewBackend creates a dispatch backend instance for use with the synthesis
// engine.
//
// Example:
//
//	engine := synth.New(dispatch.NewBackend(), registry.New())
//	stub, ok := engine.Create(policy)
func NewBackend() types.Backend {
	return dispatch.NewBackend()
}
