package component

import (
	"errors"
	"fmt"
)

// Namespace is the entry point namespace searched by registry name lookups.
const Namespace = "asphalt.components"

// Common error variables for component registration and creation
var (
	// ErrInvalidAlias indicates an empty child alias
	ErrInvalidAlias = errors.New("component alias must be a nonempty string")

	// ErrDuplicateAlias is matched by every DuplicateAliasError
	ErrDuplicateAlias = errors.New("duplicate component alias")

	// ErrNotFound is matched by every LookupError
	ErrNotFound = errors.New("component type not found")

	// ErrNotComponent indicates a resolved type whose instances do not implement Component
	ErrNotComponent = errors.New("the component type must implement " + interfaceName)

	// ErrInvalidReference indicates an empty or malformed component reference
	ErrInvalidReference = errors.New("invalid component reference")

	// ErrAlreadyStarted indicates registration on a container that is already starting or started
	ErrAlreadyStarted = errors.New("container already started")
)

// DuplicateAliasError is returned when a container already has a child with the alias.
type DuplicateAliasError struct {
	Alias string
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("there is already a child component named %q", e.Alias)
}

// Is reports whether target is ErrDuplicateAlias.
func (e *DuplicateAliasError) Is(target error) bool {
	return target == ErrDuplicateAlias
}

// LookupError is returned when a name or class reference has no registered type.
type LookupError struct {
	// Kind is "entry point" for registry names and "class" for class references
	Kind      string
	Namespace string
	Name      string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no such %s in %s: %s", e.Kind, e.Namespace, e.Name)
}

// Is reports whether target is ErrNotFound.
func (e *LookupError) Is(target error) bool {
	return target == ErrNotFound
}

// NewEntryPointError builds the LookupError for a missing registry name.
func NewEntryPointError(name string) *LookupError {
	return &LookupError{Kind: "entry point", Namespace: Namespace, Name: name}
}

// ComponentError represents a failure attributed to one component
type ComponentError struct {
	// Alias identifies the component, or its type name when it has no alias yet
	Alias string

	// Operation is the step being performed, e.g. "create" or "start"
	Operation string

	// Message provides a detailed description of the error
	Message string

	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface for ComponentError
func (e *ComponentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("component %s: %s failed: %s (%v)", e.Alias, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("component %s: %s failed: %s", e.Alias, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error chain handling
func (e *ComponentError) Unwrap() error {
	return e.Err
}

// NewComponentError creates a new ComponentError with the given details
func NewComponentError(alias, operation, message string, err error) *ComponentError {
	return &ComponentError{
		Alias:     alias,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
