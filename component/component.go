// Package component defines the Component capability and the values used to
// describe, configure and reference component implementations.
//
// A component is constructed from a Config without performing any I/O, then
// started exactly once with Start. Implementations are described by a Type
// (a constructor plus what is known about the value it builds) and referred to
// through a Reference: a Type handle, a registry name, or a class reference of
// the form "<package-path>:<TypeName>".
package component

import (
	"context"
	"reflect"

	"github.com/go-lynx/asphalt/appctx"
)

// Component is the one capability every component must provide.
type Component interface {
	// Start performs whatever set-up the component needs and returns once it is
	// ready to serve. It may block for as long as it takes; ctx cancellation is
	// the caller's only way to give up on it. Start is called at most once.
	Start(ctx context.Context, actx *appctx.Context) error
}

var componentType = reflect.TypeOf((*Component)(nil)).Elem()

// interfaceName is the fully qualified name used in type mismatch errors.
var interfaceName = componentType.PkgPath() + "." + componentType.Name()
