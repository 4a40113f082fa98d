// Package synth implements the stub-synthesis engine: it consumes a
// generation policy, a synthesis backend, and a stub registry, and produces
// a concrete stub type implementing every member of the policy's target
// contract and all contracts the target transitively embeds.
package synth

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stubforge/pkg/registry"
	"github.com/mesh-intelligence/stubforge/pkg/types"
)

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLogger attaches a structured logger. The engine logs member emission
// at debug level and aborted creates at warn level; by default it is silent.
func WithLogger(log *zap.Logger) Option {
	return func(s *Synthesizer) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSelfRegistration enables the two-phase protocol: the scaffold's
// forward identity is registered under (target, name) before members are
// filled in, so member bodies resolved during fill-in can already reference
// the type being built. Self-referential contract graphs then resolve via
// stub substitution instead of degrading to zero values. The forward entry
// is rolled back if any later step fails.
func WithSelfRegistration(reg *registry.Registry) Option {
	return func(s *Synthesizer) {
		s.registrar = reg
	}
}

// Synthesizer is the synthesis engine. It owns no shared mutable state: the
// policy is read-only input, the registry is consulted through pure lookups,
// and every scaffold belongs to a single Create call. Concurrent Create
// calls are safe as long as the backend and registry support them.
type Synthesizer struct {
	backend   types.Backend
	reg       types.Registry
	registrar *registry.Registry
	log       *zap.Logger
}

// New creates a Synthesizer over the given backend and registry.
func New(backend types.Backend, reg types.Registry, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		backend: backend,
		reg:     reg,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanCreate reports whether creation is currently supported. Always true in
// the baseline engine; kept as an extensibility hook for future
// preconditions such as rejecting unsynthesizable contracts.
func (s *Synthesizer) CanCreate() bool {
	return true
}

// Create synthesizes a stub type from the policy. The outcome is binary: a
// complete, finalized type and true, or nil and false. Every backend fault,
// including panics, is contained here; no partially built type ever
// escapes, and a forward registration made under self-registration is
// removed on failure.
func (s *Synthesizer) Create(policy types.Policy) (st types.StubType, ok bool) {
	var undo func()
	defer func() {
		if rec := recover(); rec != nil {
			if undo != nil {
				undo()
			}
			s.log.Warn("synthesis aborted by backend panic", zap.Any("cause", rec))
			st, ok = nil, false
		}
	}()

	target := policy.Target
	if err := target.Validate(); err != nil {
		s.log.Warn("synthesis rejected", zap.Error(err))
		return nil, false
	}

	name := policy.Name
	if name == "" {
		name = generatedName(target)
	}

	scaffold, err := s.backend.CreateScaffold(target, name)
	if err != nil {
		s.log.Warn("scaffold allocation failed",
			zap.String("contract", target.Name), zap.Error(err))
		return nil, false
	}

	if s.registrar != nil {
		if err := s.registrar.Register(target, name, scaffold.Declare()); err != nil {
			s.log.Warn("forward registration failed",
				zap.String("contract", target.Name), zap.String("name", name), zap.Error(err))
			return nil, false
		}
		undo = func() { s.registrar.Remove(target, name) }
	}

	for _, c := range target.Flatten() {
		if err := s.defineMembers(scaffold, c, policy, name); err != nil {
			if undo != nil {
				undo()
			}
			s.log.Warn("member definition failed",
				zap.String("contract", c.Name), zap.Error(err))
			return nil, false
		}
	}

	st, err = scaffold.Finalize()
	if err != nil {
		if undo != nil {
			undo()
		}
		s.log.Warn("finalization failed",
			zap.String("contract", target.Name), zap.String("name", name), zap.Error(err))
		return nil, false
	}

	s.log.Debug("stub type synthesized",
		zap.String("contract", target.Name), zap.String("name", name))
	return st, true
}

// defineMembers defines every method, property, and event of one contract on
// the scaffold.
func (s *Synthesizer) defineMembers(scaffold types.Scaffold, c *types.Contract, policy types.Policy, stubName string) error {
	for _, m := range c.Methods {
		if err := s.defineMethod(scaffold, m, policy, stubName); err != nil {
			return err
		}
	}
	for _, p := range c.Properties {
		if err := s.defineProperty(scaffold, p, policy, stubName); err != nil {
			return err
		}
	}
	for _, e := range c.Events {
		if err := s.defineEvent(scaffold, e); err != nil {
			return err
		}
	}
	return nil
}

// defineMethod emits a method override. Void methods get an empty body;
// value-returning methods get the member-result rule's verdict.
func (s *Synthesizer) defineMethod(scaffold types.Scaffold, m types.Method, policy types.Policy, stubName string) error {
	handle, err := scaffold.DefineMethod(m.Name, types.StubMethodAttrs, m.Result, m.Params)
	if err != nil {
		return err
	}

	body := types.Body{Op: types.OpEmpty}
	if m.Result != nil {
		body = s.resolveResult(policy, m.Name, *m.Result, stubName)
	}
	if err := handle.EmitBody(body); err != nil {
		return err
	}

	s.log.Debug("defined method", zap.String("member", m.Name), zap.String("body", body.Op))
	return nil
}

// defineProperty builds the declared accessor sides and binds them. Getters
// follow the member-result rule; setters accept the value and drop it.
func (s *Synthesizer) defineProperty(scaffold types.Scaffold, p types.Property, policy types.Policy, stubName string) error {
	var getter, setter types.MethodHandle

	if p.Gettable {
		result := p.Type
		h, err := scaffold.DefineMethod("get_"+p.Name, types.AccessorAttrs, &result, p.IndexParams)
		if err != nil {
			return err
		}
		if err := h.EmitBody(s.resolveResult(policy, p.Name, p.Type, stubName)); err != nil {
			return err
		}
		getter = h
	}

	if p.Settable {
		params := append(append([]types.TypeRef{}, p.IndexParams...), p.Type)
		h, err := scaffold.DefineMethod("set_"+p.Name, types.AccessorAttrs, nil, params)
		if err != nil {
			return err
		}
		if err := h.EmitBody(types.Body{Op: types.OpEmpty}); err != nil {
			return err
		}
		setter = h
	}

	if err := scaffold.DefineProperty(p.Name, types.AccessorAttrs, p.Type, p.IndexParams, getter, setter); err != nil {
		return err
	}

	s.log.Debug("defined property", zap.String("member", p.Name),
		zap.Bool("gettable", p.Gettable), zap.Bool("settable", p.Settable))
	return nil
}

// defineEvent builds no-op add/remove accessors and binds them as the
// event's implementation. Handlers are never stored or invoked.
func (s *Synthesizer) defineEvent(scaffold types.Scaffold, e types.Event) error {
	handlerParam := []types.TypeRef{e.Handler}

	add, err := scaffold.DefineMethod("add_"+e.Name, types.AccessorAttrs, nil, handlerParam)
	if err != nil {
		return err
	}
	if err := add.EmitBody(types.Body{Op: types.OpEmpty}); err != nil {
		return err
	}

	remove, err := scaffold.DefineMethod("remove_"+e.Name, types.AccessorAttrs, nil, handlerParam)
	if err != nil {
		return err
	}
	if err := remove.EmitBody(types.Body{Op: types.OpEmpty}); err != nil {
		return err
	}

	if err := scaffold.DefineEvent(e.Name, types.AccessorAttrs, e.Handler, add, remove); err != nil {
		return err
	}

	s.log.Debug("defined event", zap.String("member", e.Name))
	return nil
}

// generatedName produces a stub type name when the policy leaves it empty.
func generatedName(target *types.Contract) string {
	return target.Name + "-" + uuid.Must(uuid.NewV7()).String()
}
