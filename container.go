package asphalt

import (
	"fmt"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-lynx/asphalt/component"
	"github.com/go-lynx/asphalt/factory"
	"github.com/go-lynx/asphalt/log"
	"github.com/go-lynx/asphalt/observability/metrics"
)

// TypeKey is the reserved configuration key naming a child's implementation.
const TypeKey = component.TypeKey

const instrumentationName = "github.com/go-lynx/asphalt"

// Status is the lifecycle state of a Container.
type Status int32

const (
	// StatusCreated accepts new children.
	StatusCreated Status = iota
	// StatusStarting means Start is waiting for children.
	StatusStarting
	// StatusStarted means every child started.
	StatusStarted
	// StatusFailed means Start returned an error.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusStarting:
		return "starting"
	case StatusStarted:
		return "started"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

// Option configures a Container.
type Option func(*Container)

// WithRegistry creates children through r instead of the global registry.
func WithRegistry(r factory.ComponentCreator) Option {
	return func(c *Container) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithTracerProvider records child start spans with tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Container) {
		if tp != nil {
			c.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// Container is a Component owning a named, ordered set of child components.
// Children are added before Start; Start starts all of them concurrently and
// returns once every one has started or the first one has failed.
type Container struct {
	mu sync.RWMutex

	// external maps child aliases to configuration that overrides defaults
	// given to AddComponent. Fixed at construction.
	external map[string]component.Config

	registry factory.ComponentCreator
	tracer   trace.Tracer

	aliases  []string
	children map[string]component.Component
	status   Status
}

var _ component.Component = (*Container)(nil)

// NewContainer creates an empty container. external is copied.
func NewContainer(external map[string]component.Config, opts ...Option) *Container {
	ext := make(map[string]component.Config, len(external))
	for alias, cfg := range external {
		ext[alias] = cfg.Clone()
	}
	c := &Container{
		external: ext,
		registry: factory.Global(),
		tracer:   otel.GetTracerProvider().Tracer(instrumentationName),
		children: make(map[string]component.Component),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddComponent constructs a child and registers it under alias.
//
// The child is constructed with defaults overlaid key by key by the external
// configuration for alias. The implementation is chosen, first match wins, by
// the "type" key of the external configuration, then ref, then the "type" key
// of defaults, then the registry entry point named alias.
//
// Errors are returned before anything is registered: ErrInvalidAlias for an
// empty alias, a DuplicateAliasError, ErrAlreadyStarted, and any resolution or
// construction error from the registry.
func (c *Container) AddComponent(alias string, ref component.Reference, defaults component.Config) error {
	if alias == "" {
		return component.ErrInvalidAlias
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusCreated {
		return fmt.Errorf("%w: cannot add component %q", component.ErrAlreadyStarted, alias)
	}
	return c.addLocked(alias, ref, defaults)
}

func (c *Container) addLocked(alias string, ref component.Reference, defaults component.Config) error {
	if _, exists := c.children[alias]; exists {
		return &component.DuplicateAliasError{Alias: alias}
	}

	external := c.external[alias]
	cfg := component.Merge(defaults, external)

	typeRef, err := component.TypeReference(external)
	if err != nil {
		return fmt.Errorf("component %s: %w", alias, err)
	}
	switch {
	case !typeRef.IsZero():
		if !ref.IsZero() {
			log.Debugf("component %s: configured type %s replaces %s", alias, typeRef, ref)
		}
		ref = typeRef
	case ref.IsZero():
		if ref, err = component.TypeReference(defaults); err != nil {
			return fmt.Errorf("component %s: %w", alias, err)
		}
	}
	if ref.IsZero() {
		ref = component.ByName(alias)
	}

	child, err := c.registry.Create(ref, cfg)
	if err != nil {
		return err
	}

	c.children[alias] = child
	c.aliases = append(c.aliases, alias)
	metrics.ComponentsRegistered.Inc()
	log.Debugf("added component %s (%s)", alias, ref)
	return nil
}

// Child returns the child registered under alias.
func (c *Container) Child(alias string) (component.Component, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	child, ok := c.children[alias]
	return child, ok
}

// Aliases returns child aliases in registration order.
func (c *Container) Aliases() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.aliases))
	copy(out, c.aliases)
	return out
}

// Len returns the number of children.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.aliases)
}

// Status returns the lifecycle state.
func (c *Container) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// pendingAliases returns external aliases with no child yet, sorted.
func (c *Container) pendingAliases() []string {
	var pending []string
	for alias := range c.external {
		if _, ok := c.children[alias]; !ok {
			pending = append(pending, alias)
		}
	}
	sort.Strings(pending)
	return pending
}
