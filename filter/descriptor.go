package filter

import (
	"fmt"

	"github.com/c360/semfilter/component"
	"github.com/c360/semfilter/config"
	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/service"
)

// Service identity
const (
	OID        = "1.3.6.1.4.1.53446.1.2.0.3.3.2"
	Name       = "saturnin.proto.filter"
	Version    = "0.2.0"
	FactoryRef = "saturnin.proto.filter"
)

// Descriptor publishes the typed-record filter to registries
var Descriptor = service.MustServiceDescriptor(service.Definition{
	Agent:       service.NewAgentDescriptor(OID, Name, Version, "proto/filter"),
	Type:        service.TypeDataFilter,
	Description: "Typed record data filter",
	FactoryRef:  FactoryRef,
	Config:      service.NewConfigFactory(NewConfig, Name+"_service"),
})

// Factory adapts New to component.Factory
func Factory(cfg config.Configurable, deps component.Dependencies) (component.Discoverable, error) {
	c, ok := cfg.(*Config)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: expected *filter.Config, got %T", errors.ErrInvalidConfig, cfg),
			"Filter", "Factory", "config type check")
	}
	f, err := New(c, deps)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Register registers the filter descriptor and factory with the given registry
func Register(registry *component.Registry) error {
	return registry.Register(Descriptor, Factory)
}
