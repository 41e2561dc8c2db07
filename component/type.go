package component

import (
	"fmt"
	"reflect"
)

// Type is an implementation handle: a constructor together with the static
// facts about what it builds.
type Type struct {
	name       string
	classPath  string
	implements bool
	newFn      func(Config) (any, error)
}

// NewType describes the implementation built by ctor. Whether T implements
// Component is decided from T itself, so a mismatch is detected before any
// instance is constructed.
func NewType[T any](ctor func(Config) (T, error)) *Type {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	return &Type{
		name:       rt.String(),
		classPath:  classPathOf(rt),
		implements: rt.Implements(componentType),
		newFn: func(cfg Config) (any, error) {
			return ctor(cfg)
		},
	}
}

// Name returns the Go type name, e.g. "*asphalt.Container".
func (t *Type) Name() string {
	return t.name
}

// ClassPath returns "<package-path>:<TypeName>", or "" for unnamed and
// predeclared types, which cannot be referenced by class path.
func (t *Type) ClassPath() string {
	return t.classPath
}

// IsComponent reports whether values built by this type implement Component.
func (t *Type) IsComponent() bool {
	return t.implements
}

// New invokes the constructor with cfg. It does not check IsComponent.
func (t *Type) New(cfg Config) (any, error) {
	if t == nil || t.newFn == nil {
		return nil, fmt.Errorf("%w: nil type", ErrInvalidReference)
	}
	return t.newFn(cfg)
}

func (t *Type) String() string {
	return t.name
}

func classPathOf(rt reflect.Type) string {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.PkgPath() == "" || rt.Name() == "" {
		return ""
	}
	return rt.PkgPath() + ":" + rt.Name()
}
