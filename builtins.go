package asphalt

import (
	"github.com/go-lynx/asphalt/component"
	"github.com/go-lynx/asphalt/factory"
)

// ContainerEntryPoint is the registry name of the built-in container type.
const ContainerEntryPoint = "container"

// ContainerConfig is the configuration of a container created through a registry.
type ContainerConfig struct {
	// Components maps child aliases to their external configuration.
	Components map[string]component.Config `mapstructure:"components"`
}

// ContainerType describes a container whose children are created through r.
func ContainerType(r factory.ComponentCreator) *component.Type {
	return component.NewType(func(cfg component.Config) (*Container, error) {
		var cc ContainerConfig
		if err := component.Decode(cfg, &cc); err != nil {
			return nil, err
		}
		return NewContainer(cc.Components, WithRegistry(r)), nil
	})
}

// RegisterBuiltins registers the types shipped with asphalt in r.
func RegisterBuiltins(r *factory.Registry) {
	r.Register(ContainerEntryPoint, ContainerType(r))
}
