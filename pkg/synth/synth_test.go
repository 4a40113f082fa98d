package synth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stubforge/pkg/dispatch"
	"github.com/mesh-intelligence/stubforge/pkg/registry"
	"github.com/mesh-intelligence/stubforge/pkg/types"
)

// newEngine wires a synthesizer over the dispatch backend and a fresh
// registry.
func newEngine(opts ...Option) (*Synthesizer, *registry.Registry) {
	reg := registry.New()
	return New(dispatch.NewBackend(), reg, opts...), reg
}

// greeterContract mirrors the canonical example: a string method and an
// int property with both accessor sides.
func greeterContract() *types.Contract {
	return &types.Contract{
		Name: "Greeter",
		Methods: []types.Method{
			{Name: "Greet", Result: refOf(types.String())},
		},
		Properties: []types.Property{
			{Name: "Count", Type: types.Int(), Gettable: true, Settable: true},
		},
	}
}

func refOf(t types.TypeRef) *types.TypeRef { return &t }

func TestCanCreate(t *testing.T) {
	engine, _ := newEngine()
	assert.True(t, engine.CanCreate())
}

func TestZeroValueStub(t *testing.T) {
	target := &types.Contract{
		Name: "Everything",
		Methods: []types.Method{
			{Name: "Flag", Result: refOf(types.Bool())},
			{Name: "Number", Result: refOf(types.Int())},
			{Name: "Ratio", Result: refOf(types.Float())},
			{Name: "Label", Result: refOf(types.String())},
			{Name: "Bare", Result: refOf(types.StructOf("Widget", nil))},
		},
		Properties: []types.Property{
			{Name: "Size", Type: types.Int(), Gettable: true},
		},
	}

	engine, _ := newEngine()
	st, ok := engine.Create(types.NewPolicy(target, "everything-stub"))
	require.True(t, ok)

	stub := st.New()
	for member, want := range map[string]any{
		"Flag":   false,
		"Number": 0,
		"Ratio":  0.0,
		"Label":  "",
		"Bare":   nil,
	} {
		got, err := stub.Call(member)
		require.NoError(t, err, member)
		assert.Equal(t, want, got, member)
	}

	got, err := stub.Get("Size")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestGreeterExample(t *testing.T) {
	engine, _ := newEngine()
	policy := types.NewPolicy(greeterContract(), "greeter-stub").WithReturn("Greet", "hi")

	st, ok := engine.Create(policy)
	require.True(t, ok)
	stub := st.New()

	got, err := stub.Call("Greet")
	require.NoError(t, err)
	assert.Equal(t, "hi", got)

	got, err = stub.Get("Count")
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	require.NoError(t, stub.Set("Count", 5))
	got, err = stub.Get("Count")
	require.NoError(t, err)
	assert.Equal(t, 0, got, "assignment causes no observable change")
}

func TestVoidMethod(t *testing.T) {
	target := &types.Contract{
		Name:    "Runner",
		Methods: []types.Method{{Name: "Run", Params: []types.TypeRef{types.Int()}}},
	}

	engine, _ := newEngine()
	st, ok := engine.Create(types.NewPolicy(target, "runner-stub"))
	require.True(t, ok)

	got, err := st.New().Call("Run", 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDefaultConstruction(t *testing.T) {
	calls := 0
	target := &types.Contract{
		Name: "Factory",
		Methods: []types.Method{
			{Name: "Widget", Result: refOf(types.StructOf("Widget", func() any {
				calls++
				return calls
			}))},
		},
	}

	engine, _ := newEngine()
	st, ok := engine.Create(types.NewPolicy(target, "factory-stub"))
	require.True(t, ok)
	stub := st.New()

	first, err := stub.Call("Widget")
	require.NoError(t, err)
	second, err := stub.Call("Widget")
	require.NoError(t, err)

	// A fresh default instance per invocation.
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestOverridePrecedence(t *testing.T) {
	inner := &types.Contract{Name: "Inner"}
	target := &types.Contract{
		Name: "Outer",
		Methods: []types.Method{
			{Name: "Built", Result: refOf(types.StructOf("Widget", func() any { return "constructed" }))},
			{Name: "Sub", Result: refOf(types.InterfaceOf(inner))},
		},
	}

	engine, reg := newEngine()

	// Register a stub for the interface member so substitution would apply.
	innerStub, ok := engine.Create(types.NewPolicy(inner, "outer-stub"))
	require.True(t, ok)
	require.NoError(t, reg.Register(inner, "outer-stub", innerStub))

	policy := types.NewPolicy(target, "outer-stub").
		WithReturn("Built", "overridden").
		WithReturn("Sub", "also overridden")

	st, ok := engine.Create(policy)
	require.True(t, ok)
	stub := st.New()

	got, err := stub.Call("Built")
	require.NoError(t, err)
	assert.Equal(t, "overridden", got, "override beats default construction")

	got, err = stub.Call("Sub")
	require.NoError(t, err)
	assert.Equal(t, "also overridden", got, "override beats stub substitution")
}

func TestExplicitZeroOverride(t *testing.T) {
	target := &types.Contract{
		Name: "Factory",
		Methods: []types.Method{
			{Name: "Widget", Result: refOf(types.StructOf("Widget", func() any { return "constructed" }))},
		},
	}

	engine, _ := newEngine()
	policy := types.NewPolicy(target, "factory-stub").WithZeroReturn("Widget")

	st, ok := engine.Create(policy)
	require.True(t, ok)

	got, err := st.New().Call("Widget")
	require.NoError(t, err)
	assert.Nil(t, got, "explicit zero bypasses the constructor")
}

func TestStubSubstitution(t *testing.T) {
	dep := &types.Contract{
		Name:    "Dep",
		Methods: []types.Method{{Name: "Ping", Result: refOf(types.String())}},
	}
	target := &types.Contract{
		Name:    "Holder",
		Methods: []types.Method{{Name: "Dep", Result: refOf(types.InterfaceOf(dep))}},
		Properties: []types.Property{
			{Name: "Backup", Type: types.InterfaceOf(dep), Gettable: true},
		},
	}

	engine, reg := newEngine()

	depStub, ok := engine.Create(types.NewPolicy(dep, "holder-stub"))
	require.True(t, ok)
	require.NoError(t, reg.Register(dep, "holder-stub", depStub))

	st, ok := engine.Create(types.NewPolicy(target, "holder-stub"))
	require.True(t, ok)
	stub := st.New()

	got, err := stub.Call("Dep")
	require.NoError(t, err)
	require.Implements(t, (*types.Stub)(nil), got)

	// The substituted stub is usable in turn.
	inner := got.(types.Stub)
	pong, err := inner.Call("Ping")
	require.NoError(t, err)
	assert.Equal(t, "", pong)

	// Getters substitute the same way.
	got, err = stub.Get("Backup")
	require.NoError(t, err)
	assert.Implements(t, (*types.Stub)(nil), got)

	// A fresh instance per invocation.
	again, err := stub.Call("Dep")
	require.NoError(t, err)
	assert.NotSame(t, got, again)
}

func TestMissingStubFallsBackToZero(t *testing.T) {
	dep := &types.Contract{Name: "Dep"}
	target := &types.Contract{
		Name:    "Holder",
		Methods: []types.Method{{Name: "Dep", Result: refOf(types.InterfaceOf(dep))}},
	}

	engine, reg := newEngine()

	// Registered under a different name: the exact pair must miss.
	depStub, ok := engine.Create(types.NewPolicy(dep, "other-name"))
	require.True(t, ok)
	require.NoError(t, reg.Register(dep, "other-name", depStub))

	st, ok := engine.Create(types.NewPolicy(target, "holder-stub"))
	require.True(t, ok)

	got, err := st.New().Call("Dep")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmbeddedContractMembers(t *testing.T) {
	base := &types.Contract{
		Name:    "Base",
		Methods: []types.Method{{Name: "BaseName", Result: refOf(types.String())}},
	}
	mid := &types.Contract{
		Name:   "Mid",
		Embeds: []*types.Contract{base},
		Properties: []types.Property{
			{Name: "MidCount", Type: types.Int(), Gettable: true},
		},
	}
	target := &types.Contract{
		Name:    "Top",
		Embeds:  []*types.Contract{mid},
		Methods: []types.Method{{Name: "TopName", Result: refOf(types.String())}},
	}

	engine, _ := newEngine()
	st, ok := engine.Create(types.NewPolicy(target, "top-stub"))
	require.True(t, ok)
	stub := st.New()

	for _, member := range []string{"TopName", "BaseName"} {
		got, err := stub.Call(member)
		require.NoError(t, err, member)
		assert.Equal(t, "", got, member)
	}
	got, err := stub.Get("MidCount")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestDuplicateMembersAcrossContractsAbort(t *testing.T) {
	left := &types.Contract{
		Name:    "Left",
		Methods: []types.Method{{Name: "Name", Result: refOf(types.String())}},
	}
	right := &types.Contract{
		Name:    "Right",
		Methods: []types.Method{{Name: "Name", Result: refOf(types.String())}},
	}
	target := &types.Contract{Name: "Both", Embeds: []*types.Contract{left, right}}

	engine, _ := newEngine()

	// Overlapping members are not de-duplicated; the backend's conflict
	// detection aborts the whole call.
	st, ok := engine.Create(types.NewPolicy(target, "both-stub"))
	assert.False(t, ok)
	assert.Nil(t, st)
}

func TestIdempotentCreates(t *testing.T) {
	engine, _ := newEngine()

	build := func() types.Policy {
		return types.NewPolicy(greeterContract(), "greeter-stub").WithReturn("Greet", "hi")
	}

	first, ok := engine.Create(build())
	require.True(t, ok)
	second, ok := engine.Create(build())
	require.True(t, ok)

	assert.NotSame(t, first, second, "each call yields an independent type")

	for _, st := range []types.StubType{first, second} {
		stub := st.New()
		got, err := stub.Call("Greet")
		require.NoError(t, err)
		assert.Equal(t, "hi", got)
		got, err = stub.Get("Count")
		require.NoError(t, err)
		assert.Equal(t, 0, got)
	}
}

func TestEventAccessorsAreInert(t *testing.T) {
	target := &types.Contract{
		Name:   "Notifier",
		Events: []types.Event{{Name: "Changed", Handler: types.StructOf("ChangedHandler", nil)}},
	}

	engine, _ := newEngine()
	st, ok := engine.Create(types.NewPolicy(target, "notifier-stub"))
	require.True(t, ok)
	stub := st.New()

	invoked := false
	handler := func() { invoked = true }

	require.NoError(t, stub.Subscribe("Changed", handler))
	require.NoError(t, stub.Unsubscribe("Changed", handler))
	require.NoError(t, stub.Subscribe("Changed", nil))
	assert.False(t, invoked)
}

func TestInvalidTargetRejected(t *testing.T) {
	engine, _ := newEngine()

	st, ok := engine.Create(types.NewPolicy(nil, "x"))
	assert.False(t, ok)
	assert.Nil(t, st)

	st, ok = engine.Create(types.NewPolicy(&types.Contract{}, "x"))
	assert.False(t, ok)
	assert.Nil(t, st)
}

func TestGeneratedName(t *testing.T) {
	engine, _ := newEngine()

	st, ok := engine.Create(types.NewPolicy(greeterContract(), ""))
	require.True(t, ok)

	assert.True(t, strings.HasPrefix(st.Name(), "Greeter-"))
	assert.Greater(t, len(st.Name()), len("Greeter-"))
}

func TestSelfReferentialContract(t *testing.T) {
	node := &types.Contract{Name: "Node"}
	node.Methods = []types.Method{{Name: "Next", Result: refOf(types.InterfaceOf(node))}}

	t.Run("two-phase resolves the cycle", func(t *testing.T) {
		reg := registry.New()
		engine := New(dispatch.NewBackend(), reg, WithSelfRegistration(reg))

		st, ok := engine.Create(types.NewPolicy(node, "node-stub"))
		require.True(t, ok)

		got, err := st.New().Call("Next")
		require.NoError(t, err)
		require.Implements(t, (*types.Stub)(nil), got)

		// The forward registration survives and matches the result.
		entry, found := reg.TryGet(node, "node-stub")
		require.True(t, found)
		assert.Same(t, st, entry)

		// The substituted instance walks the cycle again.
		next, err := got.(types.Stub).Call("Next")
		require.NoError(t, err)
		assert.Implements(t, (*types.Stub)(nil), next)
	})

	t.Run("baseline degrades to zero", func(t *testing.T) {
		engine, _ := newEngine()

		st, ok := engine.Create(types.NewPolicy(node, "node-stub"))
		require.True(t, ok)

		got, err := st.New().Call("Next")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestSelfRegistrationDuplicateFails(t *testing.T) {
	reg := registry.New()
	engine := New(dispatch.NewBackend(), reg, WithSelfRegistration(reg))
	target := greeterContract()

	first, ok := engine.Create(types.NewPolicy(target, "greeter-stub"))
	require.True(t, ok)

	// The pair is taken; a second self-registering create must fail and
	// leave the original entry intact.
	_, ok = engine.Create(types.NewPolicy(target, "greeter-stub"))
	assert.False(t, ok)

	entry, found := reg.TryGet(target, "greeter-stub")
	require.True(t, found)
	assert.Same(t, first, entry)
}

// failingBackend wraps the dispatch backend and injects faults at chosen
// stages.
type failingBackend struct {
	inner        types.Backend
	failCreate   bool
	failDefine   bool
	failFinalize bool
	panicDefine  bool
}

func (b *failingBackend) CreateScaffold(target *types.Contract, name string) (types.Scaffold, error) {
	if b.failCreate {
		return nil, errors.New("scaffold rejected")
	}
	s, err := b.inner.CreateScaffold(target, name)
	if err != nil {
		return nil, err
	}
	return &failingScaffold{Scaffold: s, backend: b}, nil
}

type failingScaffold struct {
	types.Scaffold
	backend *failingBackend
}

func (s *failingScaffold) DefineMethod(name string, attrs types.MethodAttrs, result *types.TypeRef, params []types.TypeRef) (types.MethodHandle, error) {
	if s.backend.panicDefine {
		panic("backend blew up")
	}
	if s.backend.failDefine {
		return nil, errors.New("definition rejected")
	}
	return s.Scaffold.DefineMethod(name, attrs, result, params)
}

func (s *failingScaffold) Finalize() (types.StubType, error) {
	if s.backend.failFinalize {
		return nil, errors.New("finalization rejected")
	}
	return s.Scaffold.Finalize()
}

func TestFailureContainment(t *testing.T) {
	tests := []struct {
		name    string
		backend *failingBackend
	}{
		{name: "allocation failure", backend: &failingBackend{inner: dispatch.NewBackend(), failCreate: true}},
		{name: "definition failure", backend: &failingBackend{inner: dispatch.NewBackend(), failDefine: true}},
		{name: "finalization failure", backend: &failingBackend{inner: dispatch.NewBackend(), failFinalize: true}},
		{name: "backend panic", backend: &failingBackend{inner: dispatch.NewBackend(), panicDefine: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.New()
			engine := New(tt.backend, reg, WithSelfRegistration(reg))
			target := greeterContract()

			require.NotPanics(t, func() {
				st, ok := engine.Create(types.NewPolicy(target, "greeter-stub"))
				assert.False(t, ok)
				assert.Nil(t, st)
			})

			// A failed create leaves no forward registration behind.
			_, found := reg.TryGet(target, "greeter-stub")
			assert.False(t, found)
		})
	}
}

func TestUnknownOverrideKeysIgnored(t *testing.T) {
	engine, _ := newEngine()
	policy := types.NewPolicy(greeterContract(), "greeter-stub").
		WithReturn("NoSuchMember", "ignored")

	st, ok := engine.Create(policy)
	require.True(t, ok)

	got, err := st.New().Call("Greet")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
