// Package factory resolves component references to implementations and
// constructs component instances.
package factory

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/go-lynx/asphalt/component"
	"github.com/go-lynx/asphalt/log"
)

// Global factory instance
var globalRegistry = NewRegistry()

// TypeResolver turns a component reference into an implementation handle.
type TypeResolver interface {
	// ResolveByName looks up a registry entry point.
	ResolveByName(name string) (*component.Type, error)

	// ResolveClass looks up a "<package-path>:<TypeName>" class reference.
	ResolveClass(path string) (*component.Type, error)

	// Resolve dispatches on the kind of ref.
	Resolve(ref component.Reference) (*component.Type, error)
}

// ComponentCreator constructs components from references.
type ComponentCreator interface {
	// Create resolves ref and constructs an instance with exactly cfg.
	Create(ref component.Reference, cfg component.Config) (component.Component, error)
}

var (
	_ TypeResolver     = (*Registry)(nil)
	_ ComponentCreator = (*Registry)(nil)
)

// Global returns the process-wide registry.
func Global() *Registry {
	return globalRegistry
}

// Registry maps entry point names and class references to component types.
// Tables are read at resolution time, so types registered after a container
// was built are still visible to it.
type Registry struct {
	mu sync.RWMutex

	// entryPoints maps short names, e.g. "container", to types.
	entryPoints map[string]*component.Type

	// classes maps "<package-path>:<TypeName>" to types.
	classes map[string]*component.Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entryPoints: make(map[string]*component.Type),
		classes:     make(map[string]*component.Type),
	}
}

// Register adds t under the entry point name and under its class path.
// Panics if the name is empty, t is nil, or the name is already registered.
func (r *Registry) Register(name string, t *component.Type) {
	if name == "" {
		panic(fmt.Errorf("component entry point name cannot be empty"))
	}
	if t == nil {
		panic(fmt.Errorf("component type for entry point %s is nil", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entryPoints[name]; exists {
		panic(fmt.Errorf("component entry point already registered: %s", name))
	}
	r.entryPoints[name] = t
	if cp := t.ClassPath(); cp != "" {
		r.classes[cp] = t
	}
	log.Debugf("registered component entry point %s -> %s", name, t.Name())
}

// RegisterClass makes t resolvable by its class path only.
func (r *Registry) RegisterClass(t *component.Type) error {
	if t == nil {
		return fmt.Errorf("%w: nil type", component.ErrInvalidReference)
	}
	cp := t.ClassPath()
	if cp == "" {
		return fmt.Errorf("%w: type %s has no class path", component.ErrInvalidReference, t.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[cp] = t
	return nil
}

// Unregister removes an entry point. Its class path stays resolvable.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entryPoints, name)
}

// Has reports whether name is a registered entry point.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.entryPoints[name]
	return exists
}

// Names returns the registered entry point names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entryPoints))
	for name := range r.entryPoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveByName returns the type registered under name.
func (r *Registry) ResolveByName(name string) (*component.Type, error) {
	r.mu.RLock()
	t, exists := r.entryPoints[name]
	r.mu.RUnlock()
	if !exists {
		return nil, component.NewEntryPointError(name)
	}
	return t, nil
}

// ResolveClass returns the type registered under the class reference path.
func (r *Registry) ResolveClass(path string) (*component.Type, error) {
	pkgPath, typeName, err := component.SplitClassPath(path)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	t, exists := r.classes[path]
	r.mu.RUnlock()
	if !exists {
		return nil, &component.LookupError{Kind: "class", Namespace: pkgPath, Name: typeName}
	}
	return t, nil
}

// Resolve dispatches on the kind of ref.
func (r *Registry) Resolve(ref component.Reference) (*component.Type, error) {
	switch ref.Kind() {
	case component.RefHandle:
		if ref.Handle() == nil {
			return nil, fmt.Errorf("%w: nil type handle", component.ErrInvalidReference)
		}
		return ref.Handle(), nil
	case component.RefClassPath:
		return r.ResolveClass(ref.Value())
	case component.RefName:
		return r.ResolveByName(ref.Value())
	default:
		return nil, fmt.Errorf("%w: no reference given", component.ErrInvalidReference)
	}
}

// Create resolves ref and constructs a component with exactly cfg. Nothing is
// started. Lookup errors are returned unchanged; a type whose instances are
// not components is rejected before its constructor runs.
func (r *Registry) Create(ref component.Reference, cfg component.Config) (component.Component, error) {
	t, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if !t.IsComponent() {
		return nil, component.ErrNotComponent
	}

	inst, err := t.New(cfg)
	if err != nil {
		return nil, component.NewComponentError(t.Name(), "create", "constructor returned an error", err)
	}
	if isNil(inst) {
		return nil, component.NewComponentError(t.Name(), "create", "constructor returned nil", nil)
	}

	c, ok := inst.(component.Component)
	if !ok {
		return nil, component.ErrNotComponent
	}
	return c, nil
}

// Register adds t to the global registry under name.
func Register(name string, t *component.Type) {
	globalRegistry.Register(name, t)
}

// CreateComponent resolves ref against the global registry and constructs it with cfg.
func CreateComponent(ref component.Reference, cfg component.Config) (component.Component, error) {
	return globalRegistry.Create(ref, cfg)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
