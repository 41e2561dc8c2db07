// Package appctx provides the execution context threaded through component start-up.
//
// A Context is a hierarchical handle: an application-scoped root with narrower child
// scopes below it. Components receive it in Start and may publish or look up shared
// resources on it; the container that starts them never inspects it.
package appctx

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"
)

// Scope identifies how long a Context lives.
type Scope int

const (
	// ScopeApplication lives for the whole process.
	ScopeApplication Scope = iota
	// ScopeRequest lives for the handling of a single request or job.
	ScopeRequest
)

// String returns the lowercase scope name.
func (s Scope) String() string {
	switch s {
	case ScopeApplication:
		return "application"
	case ScopeRequest:
		return "request"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

var (
	// ErrResourceNotFound is returned when no context in the chain holds the resource.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrResourceConflict is returned when a resource name is already taken in this context.
	ErrResourceConflict = errors.New("resource already exists")
	// ErrInvalidResource is returned for an empty name or a nil value.
	ErrInvalidResource = errors.New("invalid resource")
)

// ResourceInfo describes a published resource.
type ResourceInfo struct {
	Name      string
	Type      string
	Scope     Scope
	CreatedAt time.Time
}

type resource struct {
	value any
	info  ResourceInfo
}

// Context is the opaque, hierarchical execution handle passed to Component.Start.
type Context struct {
	scope  Scope
	parent *Context

	mu        sync.RWMutex
	resources map[string]*resource
}

// New creates a root context with the given scope.
func New(scope Scope) *Context {
	return &Context{
		scope:     scope,
		resources: make(map[string]*resource),
	}
}

// Child creates a narrower context whose resource lookups fall back to c.
func (c *Context) Child(scope Scope) *Context {
	child := New(scope)
	child.parent = c
	return child
}

// Scope returns the scope this context was created with.
func (c *Context) Scope() Scope {
	return c.scope
}

// Parent returns the enclosing context, or nil for a root.
func (c *Context) Parent() *Context {
	return c.parent
}

// AddResource publishes a value under name in this context.
func (c *Context) AddResource(name string, value any) error {
	if name == "" {
		return fmt.Errorf("%w: resource name cannot be empty", ErrInvalidResource)
	}
	if value == nil {
		return fmt.Errorf("%w: resource %q cannot be nil", ErrInvalidResource, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.resources[name]; exists {
		return fmt.Errorf("%w: %s", ErrResourceConflict, name)
	}
	c.resources[name] = &resource{
		value: value,
		info: ResourceInfo{
			Name:      name,
			Type:      reflect.TypeOf(value).String(),
			Scope:     c.scope,
			CreatedAt: time.Now(),
		},
	}
	return nil
}

// GetResource looks name up in this context, then in each parent in turn.
func (c *Context) GetResource(name string) (any, error) {
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		r, ok := cur.resources[name]
		cur.mu.RUnlock()
		if ok {
			return r.value, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
}

// ResourceInfo returns metadata of the nearest resource called name.
func (c *Context) ResourceInfo(name string) (ResourceInfo, error) {
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		r, ok := cur.resources[name]
		cur.mu.RUnlock()
		if ok {
			return r.info, nil
		}
	}
	return ResourceInfo{}, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
}

// Resources lists the names visible from this context, sorted.
func (c *Context) Resources() []string {
	seen := make(map[string]struct{})
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		for name := range cur.resources {
			seen[name] = struct{}{}
		}
		cur.mu.RUnlock()
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resource returns the named resource asserted to T.
func Resource[T any](c *Context, name string) (T, error) {
	var zero T
	v, err := c.GetResource(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T, not %s", ErrInvalidResource, name, v, reflect.TypeOf((*T)(nil)).Elem())
	}
	return typed, nil
}
