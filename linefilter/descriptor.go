// Package linefilter provides the text line filter: a data filter that
// passes lines of plain text matching a regular expression, an expression
// or a script function.
package linefilter

import (
	"fmt"

	"github.com/c360/semfilter/component"
	"github.com/c360/semfilter/config"
	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/service"
)

// Service identity
const (
	OID        = "1.3.6.1.4.1.53446.1.1.0.3.1.3"
	Name       = "saturnin.text.linefilter"
	Version    = "0.2.1"
	FactoryRef = "saturnin.text.linefilter"
)

// Descriptor publishes the text line filter
var Descriptor = service.MustServiceDescriptor(service.Definition{
	Agent:       service.NewAgentDescriptor(OID, Name, Version, "text/filter"),
	Type:        service.TypeDataFilter,
	Description: "Text line filter",
	FactoryRef:  FactoryRef,
	Config:      service.NewConfigFactory(NewConfig, Name+"_service"),
})

// Factory adapts New to component.Factory
func Factory(cfg config.Configurable, deps component.Dependencies) (component.Discoverable, error) {
	c, ok := cfg.(*Config)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: expected *linefilter.Config, got %T", errors.ErrInvalidConfig, cfg),
			"LineFilter", "Factory", "config type check")
	}
	lf, err := New(c, deps)
	if err != nil {
		return nil, err
	}
	return lf, nil
}

// Register registers the line filter descriptor and factory
func Register(registry *component.Registry) error {
	return registry.Register(Descriptor, Factory)
}
