package component

import (
	"fmt"
	"strings"
)

// RefKind discriminates the forms a Reference can take.
type RefKind int

const (
	// RefNone is the zero Reference: nothing was supplied.
	RefNone RefKind = iota
	// RefHandle carries an already resolved *Type.
	RefHandle
	// RefName is a registry entry point name.
	RefName
	// RefClassPath is a "<package-path>:<TypeName>" class reference.
	RefClassPath
)

func (k RefKind) String() string {
	switch k {
	case RefNone:
		return "none"
	case RefHandle:
		return "handle"
	case RefName:
		return "name"
	case RefClassPath:
		return "class path"
	default:
		return fmt.Sprintf("RefKind(%d)", int(k))
	}
}

// ClassPathSeparator separates the package path from the type name in a class reference.
const ClassPathSeparator = ":"

// Reference points at a component implementation.
type Reference struct {
	kind   RefKind
	handle *Type
	value  string
}

// ByHandle references an already resolved type.
func ByHandle(t *Type) Reference {
	return Reference{kind: RefHandle, handle: t}
}

// ByName references a registry entry point.
func ByName(name string) Reference {
	return Reference{kind: RefName, value: name}
}

// ByClassPath references a type by "<package-path>:<TypeName>".
func ByClassPath(path string) Reference {
	return Reference{kind: RefClassPath, value: path}
}

// ParseReference classifies s: a string containing the class path separator is
// a class reference, anything else is a registry name.
func ParseReference(s string) Reference {
	if strings.Contains(s, ClassPathSeparator) {
		return ByClassPath(s)
	}
	return ByName(s)
}

// TypeReference returns the reference named by the TypeKey entry of cfg, or
// the zero Reference when cfg has none. A value that is not a nonempty string
// is ErrInvalidReference.
func TypeReference(cfg Config) (Reference, error) {
	raw, ok := cfg[TypeKey]
	if !ok {
		return Reference{}, nil
	}
	name, ok := raw.(string)
	if !ok || name == "" {
		return Reference{}, fmt.Errorf("%w: %q must be a nonempty string, got %v", ErrInvalidReference, TypeKey, raw)
	}
	return ParseReference(name), nil
}

// Kind returns which form r takes.
func (r Reference) Kind() RefKind {
	return r.kind
}

// IsZero reports whether r was never set.
func (r Reference) IsZero() bool {
	return r.kind == RefNone
}

// Handle returns the type of a RefHandle reference.
func (r Reference) Handle() *Type {
	return r.handle
}

// Value returns the name or class path of a string reference.
func (r Reference) Value() string {
	return r.value
}

// SplitClassPath splits a class reference into package path and type name.
func SplitClassPath(path string) (pkgPath, typeName string, err error) {
	pkgPath, typeName, ok := strings.Cut(path, ClassPathSeparator)
	if !ok || pkgPath == "" || typeName == "" {
		return "", "", fmt.Errorf("%w: class reference %q must look like \"<package-path>:<TypeName>\"", ErrInvalidReference, path)
	}
	return pkgPath, typeName, nil
}

func (r Reference) String() string {
	switch r.kind {
	case RefHandle:
		if r.handle == nil {
			return "<nil>"
		}
		return r.handle.Name()
	case RefName, RefClassPath:
		return r.value
	default:
		return ""
	}
}
