package extensions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHookManagerExecute(t *testing.T) {
	manager := NewHookManager()
	var seen []string

	manager.Register(HookAfterNodeCreate, func(ctx context.Context, data interface{}) error {
		seen = append(seen, "first")
		return nil
	})
	manager.Register(HookAfterNodeCreate, func(ctx context.Context, data interface{}) error {
		seen = append(seen, "second")
		return nil
	})

	err := manager.Execute(context.Background(), HookAfterNodeCreate, HookData{MapID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestHookManagerExecuteStopsOnError(t *testing.T) {
	manager := NewHookManager()
	boom := errors.New("boom")
	var reached bool

	manager.Register(HookBeforeNodeDelete, func(ctx context.Context, data interface{}) error {
		return boom
	})
	manager.Register(HookBeforeNodeDelete, func(ctx context.Context, data interface{}) error {
		reached = true
		return nil
	})

	err := manager.Execute(context.Background(), HookBeforeNodeDelete, nil)
	assert.ErrorIs(t, err, boom)
	assert.False(t, reached)
}

func TestHookManagerClear(t *testing.T) {
	manager := NewHookManager()
	manager.Register(HookAfterUndo, func(ctx context.Context, data interface{}) error {
		t.Fatal("should have been cleared")
		return nil
	})
	manager.Clear(HookAfterUndo)

	require.NoError(t, manager.Execute(context.Background(), HookAfterUndo, nil))
}

type doubler struct{}

func (doubler) Intercept(ctx context.Context, data interface{}) (interface{}, error) {
	return data.(int) * 2, nil
}

func TestInterceptorChain(t *testing.T) {
	chain := NewInterceptorChain(doubler{}, doubler{})

	out, err := chain.Process(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 12, out)
}

type testPlugin struct {
	initialized bool
	shutdown    bool
}

func (p *testPlugin) Name() string    { return "test" }
func (p *testPlugin) Version() string { return "1.0.0" }
func (p *testPlugin) Initialize(ctx context.Context) error {
	p.initialized = true
	return nil
}
func (p *testPlugin) RegisterHooks(manager *HookManager) error { return nil }
func (p *testPlugin) Shutdown(ctx context.Context) error {
	p.shutdown = true
	return nil
}

func TestPluginManagerLifecycle(t *testing.T) {
	registry := NewExtensionRegistry()
	plugins := registry.GetPluginManager()

	p := &testPlugin{}
	require.NoError(t, plugins.Register(p))
	assert.True(t, p.initialized)

	assert.Error(t, plugins.Register(&testPlugin{}), "duplicate names rejected")

	got, ok := plugins.GetPlugin("test")
	require.True(t, ok)
	assert.Same(t, p, got)
	assert.Equal(t, []string{"test"}, plugins.ListPlugins())

	require.NoError(t, plugins.Unregister("test"))
	assert.True(t, p.shutdown)
	assert.Error(t, plugins.Unregister("test"))
}
