package boot

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-lynx/asphalt"
	"github.com/go-lynx/asphalt/appctx"
	"github.com/go-lynx/asphalt/component"
	"github.com/go-lynx/asphalt/factory"
)

type recorder struct {
	Size    int    `mapstructure:"size"`
	Name    string `mapstructure:"name"`
	started atomic.Bool
}

func (r *recorder) Start(context.Context, *appctx.Context) error {
	r.started.Store(true)
	return nil
}

func newRecorder(cfg component.Config) (*recorder, error) {
	r := &recorder{}
	if err := component.Decode(cfg, r); err != nil {
		return nil, err
	}
	return r, nil
}

func testRegistry() *factory.Registry {
	r := factory.NewRegistry()
	asphalt.RegisterBuiltins(r)
	r.Register("recorder", component.NewType(newRecorder))
	return r
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const sampleConfig = `
asphalt:
  application:
    name: demo
    version: v1.2.3
  component:
    components:
      cache:
        type: recorder
        size: 1024
      recorder:
        name: direct
`

func TestBuildAndStartFromConfig(t *testing.T) {
	app := NewApplication(writeConfig(t, sampleConfig), WithRegistry(testRegistry()))
	t.Cleanup(app.Close)

	require.NoError(t, app.LoadBootstrapConfig())
	assert.Equal(t, "demo", app.GetName())
	assert.Equal(t, "v1.2.3", app.GetVersion())

	require.NoError(t, app.Build())
	root, ok := app.Root().(*asphalt.Container)
	require.True(t, ok)

	require.NoError(t, app.Start(context.Background()))
	assert.Equal(t, appctx.ScopeApplication, app.Context().Scope())
	assert.Equal(t, []string{"cache", "recorder"}, root.Aliases())

	cache, ok := root.Child("cache")
	require.True(t, ok)
	assert.Equal(t, 1024, cache.(*recorder).Size)
	assert.True(t, cache.(*recorder).started.Load())

	direct, ok := root.Child("recorder")
	require.True(t, ok)
	assert.Equal(t, "direct", direct.(*recorder).Name)
}

func TestBuildCustomRootType(t *testing.T) {
	app := NewApplication(writeConfig(t, `
asphalt:
  application:
    name: single
  component:
    type: recorder
    size: 3
`), WithRegistry(testRegistry()))
	t.Cleanup(app.Close)

	require.NoError(t, app.LoadBootstrapConfig())
	require.NoError(t, app.Build())
	require.IsType(t, &recorder{}, app.Root())
	assert.Equal(t, 3, app.Root().(*recorder).Size)
}

func TestBuildUnknownRootType(t *testing.T) {
	app := NewApplication(writeConfig(t, `
asphalt:
  application:
    name: broken
  component:
    type: nope
`), WithRegistry(testRegistry()))
	t.Cleanup(app.Close)

	require.NoError(t, app.LoadBootstrapConfig())
	assert.ErrorIs(t, app.Build(), component.ErrNotFound)
}

func TestBuildWithoutComponentSection(t *testing.T) {
	app := NewApplication(writeConfig(t, `
asphalt:
  application:
    name: empty
`), WithRegistry(testRegistry()))
	t.Cleanup(app.Close)

	require.NoError(t, app.LoadBootstrapConfig())
	require.NoError(t, app.Build())
	require.NoError(t, app.Start(context.Background()))
	assert.Zero(t, app.Root().(*asphalt.Container).Len())
}

func TestLoadBootstrapConfigValidation(t *testing.T) {
	app := NewApplication(writeConfig(t, "asphalt:\n  log:\n    level: info\n"), WithRegistry(testRegistry()))
	err := app.LoadBootstrapConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), keyAppName)

	assert.Error(t, NewApplication("", WithRegistry(testRegistry())).LoadBootstrapConfig())
}

func TestBuildRejectsNonStringRootType(t *testing.T) {
	app := NewApplication(writeConfig(t, `
asphalt:
  application:
    name: broken
  component:
    type: [recorder]
`), WithRegistry(testRegistry()))
	t.Cleanup(app.Close)

	require.NoError(t, app.LoadBootstrapConfig())
	assert.ErrorIs(t, app.Build(), component.ErrInvalidReference)
}

// countingCreator records the references it was asked to create.
type countingCreator struct {
	next factory.ComponentCreator
	refs []component.Reference
}

func (c *countingCreator) Create(ref component.Reference, cfg component.Config) (component.Component, error) {
	c.refs = append(c.refs, ref)
	return c.next.Create(ref, cfg)
}

func TestBuildUsesGivenCreator(t *testing.T) {
	creator := &countingCreator{next: testRegistry()}
	app := NewApplication(writeConfig(t, sampleConfig), WithRegistry(creator))
	t.Cleanup(app.Close)

	require.NoError(t, app.LoadBootstrapConfig())
	require.NoError(t, app.Build())
	assert.Equal(t, []component.Reference{component.ByName(asphalt.ContainerEntryPoint)}, creator.refs)
}

func TestNewApplicationLeavesGlobalRegistryAlone(t *testing.T) {
	NewApplication("unused")
	assert.False(t, factory.Global().Has(asphalt.ContainerEntryPoint))
}

func TestStartBeforeBuild(t *testing.T) {
	app := NewApplication("unused", WithRegistry(testRegistry()))
	assert.Error(t, app.Start(context.Background()))
	assert.Error(t, app.Build())
	assert.Equal(t, "asphalt", app.GetName())
	assert.Equal(t, "unknown", app.GetVersion())
}

func TestInitTracingDisabledWithoutEndpoint(t *testing.T) {
	app := NewApplication(writeConfig(t, sampleConfig), WithRegistry(testRegistry()))
	t.Cleanup(app.Close)
	require.NoError(t, app.LoadBootstrapConfig())

	before := len(app.cleanups)
	require.NoError(t, app.InitTracing(context.Background()))
	assert.Len(t, app.cleanups, before)
}

func TestRunStopsWithContext(t *testing.T) {
	app := NewApplication(writeConfig(t, sampleConfig), WithRegistry(testRegistry()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.Run(ctx))
	assert.Empty(t, app.cleanups)
	assert.NotNil(t, app.Root())
}

func TestNewTracerProviderClampsRatio(t *testing.T) {
	tp := newTracerProvider("demo", "v0", 5)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	assert.NotNil(t, tp.Tracer("test"))
}
