// End-to-end tests exercising the full pipeline: contracts persisted to the
// SQLite catalog, reloaded with references resolved, and synthesized into
// working stubs.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stubforge/internal/catalog"
	"github.com/mesh-intelligence/stubforge/pkg/dispatch"
	"github.com/mesh-intelligence/stubforge/pkg/registry"
	"github.com/mesh-intelligence/stubforge/pkg/synth"
	"github.com/mesh-intelligence/stubforge/pkg/types"
)

// setupCatalog attaches a store over an isolated temp directory. Each test
// gets its own catalog instance.
func setupCatalog(t *testing.T) *catalog.Store {
	t.Helper()

	store := catalog.NewStore()
	require.NoError(t, store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { require.NoError(t, store.Detach()) })
	return store
}

func stringRef() *types.TypeRef {
	r := types.String()
	return &r
}

func TestCatalogToStubPipeline(t *testing.T) {
	store := setupCatalog(t)

	logger := &types.Contract{
		Name:    "Logger",
		Methods: []types.Method{{Name: "Log", Params: []types.TypeRef{types.String()}}},
	}
	service := &types.Contract{
		Name:   "Service",
		Embeds: []*types.Contract{logger},
		Methods: []types.Method{
			{Name: "Describe", Result: stringRef()},
		},
		Properties: []types.Property{
			{Name: "Retries", Type: types.Int(), Gettable: true, Settable: true},
		},
		Events: []types.Event{
			{Name: "Started", Handler: types.StructOf("StartedHandler", nil)},
		},
	}

	require.NoError(t, store.Save(logger))
	require.NoError(t, store.Save(service))

	// Reload from storage so synthesis runs against the persisted graph,
	// not the in-memory originals.
	loaded, err := store.Get("Service")
	require.NoError(t, err)

	reg := registry.New()
	engine := synth.New(dispatch.NewBackend(), reg)

	policy := types.NewPolicy(loaded, "service-stub").WithReturn("Describe", "stubbed")
	st, ok := engine.Create(policy)
	require.True(t, ok)
	require.NoError(t, reg.Register(loaded, "service-stub", st))

	stub := st.New()

	got, err := stub.Call("Describe")
	require.NoError(t, err)
	assert.Equal(t, "stubbed", got)

	// The embedded contract's void method is present and inert.
	got, err = stub.Call("Log", "ignored")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = stub.Get("Retries")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
	require.NoError(t, stub.Set("Retries", 7))
	got, err = stub.Get("Retries")
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	require.NoError(t, stub.Subscribe("Started", func() {}))
	require.NoError(t, stub.Unsubscribe("Started", func() {}))
}

func TestPersistedDependencySubstitution(t *testing.T) {
	store := setupCatalog(t)

	dep := &types.Contract{
		Name:    "Clock",
		Methods: []types.Method{{Name: "Now", Result: stringRef()}},
	}
	app := &types.Contract{
		Name: "App",
		Properties: []types.Property{
			{Name: "Clock", Type: types.InterfaceOf(dep), Gettable: true},
		},
	}

	require.NoError(t, store.Save(dep))
	require.NoError(t, store.Save(app))

	loaded, err := store.Get("App")
	require.NoError(t, err)
	loadedDep := loaded.Properties[0].Type.Contract
	require.NotNil(t, loadedDep)

	reg := registry.New()
	engine := synth.New(dispatch.NewBackend(), reg)

	depStub, ok := engine.Create(types.NewPolicy(loadedDep, "app-stub"))
	require.True(t, ok)
	require.NoError(t, reg.Register(loadedDep, "app-stub", depStub))

	appStub, ok := engine.Create(types.NewPolicy(loaded, "app-stub"))
	require.True(t, ok)

	got, err := appStub.New().Get("Clock")
	require.NoError(t, err)
	require.Implements(t, (*types.Stub)(nil), got)

	now, err := got.(types.Stub).Call("Now")
	require.NoError(t, err)
	assert.Equal(t, "", now)
}

func TestPersistedCycleSynthesizesTwoPhase(t *testing.T) {
	store := setupCatalog(t)

	node := &types.Contract{Name: "Node"}
	next := types.InterfaceOf(node)
	node.Methods = []types.Method{{Name: "Next", Result: &next}}
	require.NoError(t, store.Save(node))

	loaded, err := store.Get("Node")
	require.NoError(t, err)

	reg := registry.New()
	engine := synth.New(dispatch.NewBackend(), reg, synth.WithSelfRegistration(reg))

	st, ok := engine.Create(types.NewPolicy(loaded, "node-stub"))
	require.True(t, ok)

	got, err := st.New().Call("Next")
	require.NoError(t, err)
	assert.Implements(t, (*types.Stub)(nil), got)
}
