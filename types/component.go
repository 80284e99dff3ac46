// Package types contains shared host-level types used across semfilter
package types

import (
	"fmt"
	"sort"

	"github.com/c360/semfilter/errors"
)

// ComponentConfig provides configuration for creating a component instance.
// The instance name comes from the map key in the components configuration.
type ComponentConfig struct {
	Service string         `json:"service" yaml:"service"` // Service name or uid string
	Enabled bool           `json:"enabled" yaml:"enabled"` // Whether the instance is created
	Name    string         `json:"name,omitempty" yaml:"name,omitempty"`
	Config  map[string]any `json:"config,omitempty" yaml:"config,omitempty"` // Option values keyed by option name
}

// Validate ensures the component configuration is valid
func (c ComponentConfig) Validate() error {
	if c.Service == "" {
		return errors.WrapInvalid(
			errors.ErrMissingConfig,
			"ComponentConfig",
			"Validate",
			"service reference cannot be empty",
		)
	}
	return nil
}

// ConfigName returns the configuration instance name, falling back to the given default
func (c ComponentConfig) ConfigName(fallback string) string {
	if c.Name != "" {
		return c.Name
	}
	return fallback
}

// ComponentConfigs holds component instance configurations keyed by instance name
type ComponentConfigs map[string]ComponentConfig

// Enabled returns the names of enabled instances in sorted order
func (cc ComponentConfigs) Enabled() []string {
	names := make([]string, 0, len(cc))
	for name, c := range cc {
		if c.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Validate validates every instance configuration
func (cc ComponentConfigs) Validate() error {
	for _, name := range cc.sortedNames() {
		if err := cc[name].Validate(); err != nil {
			return errors.Wrap(err, "ComponentConfigs", "Validate", fmt.Sprintf("instance %s", name))
		}
	}
	return nil
}

func (cc ComponentConfigs) sortedNames() []string {
	names := make([]string, 0, len(cc))
	for name := range cc {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
