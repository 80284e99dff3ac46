// Package service describes pluggable components: their identity, the
// reference a registry resolves to a constructor, and a deferred constructor
// for their configuration.
package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/c360/semfilter/config"
	"github.com/c360/semfilter/errors"
)

// Type classifies what a service does with data
type Type int

// Service types
const (
	TypeUnknown Type = iota
	TypeDataProvider
	TypeDataFilter
	TypeDataConsumer
	TypeProcessing
	TypeExecutor
	TypeControl
)

func (t Type) String() string {
	switch t {
	case TypeDataProvider:
		return "data_provider"
	case TypeDataFilter:
		return "data_filter"
	case TypeDataConsumer:
		return "data_consumer"
	case TypeProcessing:
		return "processing"
	case TypeExecutor:
		return "executor"
	case TypeControl:
		return "control"
	default:
		return "unknown"
	}
}

// AgentDescriptor identifies a service or client implementation
type AgentDescriptor struct {
	OID             string    `json:"oid"`
	UID             uuid.UUID `json:"uid"`
	Name            string    `json:"name"`
	Version         string    `json:"version"`
	VendorUID       uuid.UUID `json:"vendor_uid"`
	Classification  string    `json:"classification"`
	PlatformUID     uuid.UUID `json:"platform_uid"`
	PlatformVersion string    `json:"platform_version"`
}

// NewAgentDescriptor computes the agent uid from its OID once. Vendor and
// platform default to this platform.
func NewAgentDescriptor(oid, name, version, classification string) AgentDescriptor {
	return AgentDescriptor{
		OID:             oid,
		UID:             OIDUID(oid),
		Name:            name,
		Version:         version,
		VendorUID:       VendorUID,
		Classification:  classification,
		PlatformUID:     PlatformUID,
		PlatformVersion: PlatformVersion,
	}
}

// ConfigFactory is a deferred configuration constructor bound to a
// configuration kind and a default instance name
type ConfigFactory struct {
	newConfig   func(name string) config.Configurable
	defaultName string
}

// NewConfigFactory binds a configuration constructor to a default instance name
func NewConfigFactory[C config.Configurable](newConfig func(name string) C, defaultName string) ConfigFactory {
	return ConfigFactory{
		newConfig:   func(name string) config.Configurable { return newConfig(name) },
		defaultName: defaultName,
	}
}

// IsZero reports whether the factory has no constructor
func (f ConfigFactory) IsZero() bool {
	return f.newConfig == nil
}

// DefaultName returns the default configuration instance name
func (f ConfigFactory) DefaultName() string {
	return f.defaultName
}

// New creates a fresh, unvalidated configuration with the default name
func (f ConfigFactory) New() config.Configurable {
	return f.newConfig(f.defaultName)
}

// NewNamed creates a fresh, unvalidated configuration with the given name
func (f ConfigFactory) NewNamed(name string) config.Configurable {
	return f.newConfig(name)
}

// Definition holds the fields of a service descriptor before construction
type Definition struct {
	Agent       AgentDescriptor
	API         []uuid.UUID
	Type        Type
	Description string
	FactoryRef  string
	Config      ConfigFactory
}

// ServiceDescriptor is immutable service metadata consumed by registries.
// It is safe for concurrent reads.
type ServiceDescriptor struct {
	agent       AgentDescriptor
	api         []uuid.UUID
	serviceType Type
	description string
	factoryRef  string
	config      ConfigFactory
}

// NewServiceDescriptor validates a definition and freezes it
func NewServiceDescriptor(def Definition) (*ServiceDescriptor, error) {
	switch {
	case def.Agent.UID == uuid.Nil:
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "ServiceDescriptor", "New", "agent uid check")
	case def.Agent.Name == "":
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "ServiceDescriptor", "New", "agent name check")
	case def.FactoryRef == "":
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "ServiceDescriptor", "New",
			fmt.Sprintf("factory reference check for %s", def.Agent.Name))
	case def.Config.IsZero():
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "ServiceDescriptor", "New",
			fmt.Sprintf("config factory check for %s", def.Agent.Name))
	}

	api := make([]uuid.UUID, len(def.API))
	copy(api, def.API)
	return &ServiceDescriptor{
		agent:       def.Agent,
		api:         api,
		serviceType: def.Type,
		description: def.Description,
		factoryRef:  def.FactoryRef,
		config:      def.Config,
	}, nil
}

// MustServiceDescriptor is like NewServiceDescriptor but panics on error.
// Intended for package-level descriptors.
func MustServiceDescriptor(def Definition) *ServiceDescriptor {
	d, err := NewServiceDescriptor(def)
	if err != nil {
		panic(err)
	}
	return d
}

// Agent returns the agent descriptor
func (d *ServiceDescriptor) Agent() AgentDescriptor { return d.agent }

// UID returns the agent uid
func (d *ServiceDescriptor) UID() uuid.UUID { return d.agent.UID }

// Name returns the agent name
func (d *ServiceDescriptor) Name() string { return d.agent.Name }

// API returns a copy of the API identifiers
func (d *ServiceDescriptor) API() []uuid.UUID {
	api := make([]uuid.UUID, len(d.api))
	copy(api, d.api)
	return api
}

// Type returns the service type
func (d *ServiceDescriptor) Type() Type { return d.serviceType }

// Description returns the service description
func (d *ServiceDescriptor) Description() string { return d.description }

// FactoryRef returns the key a registry resolves to a component constructor
func (d *ServiceDescriptor) FactoryRef() string { return d.factoryRef }

// Config returns the deferred configuration constructor
func (d *ServiceDescriptor) Config() ConfigFactory { return d.config }
