package component

import (
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/c360/semfilter/config"
	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/metric"
	"github.com/c360/semfilter/service"
)

// Factory creates a component instance from a validated configuration.
// The configuration is the concrete kind produced by the service's config
// factory; factories type-assert it. Factories must not perform I/O.
type Factory func(cfg config.Configurable, deps Dependencies) (Discoverable, error)

// Info summarizes a registered service for listings
type Info struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Type        string `json:"type"`
	Description string `json:"description"`
	FactoryRef  string `json:"factory_ref"`
	Resolved    bool   `json:"resolved"` // Whether a factory is registered for FactoryRef
}

// Registry holds service descriptors, the factories their references
// resolve to, and the component instances created from them. All methods
// are safe for concurrent use.
type Registry struct {
	services  map[uuid.UUID]*service.ServiceDescriptor // Descriptors by agent uid
	names     map[string]uuid.UUID                     // Agent name -> uid
	factories map[string]Factory                       // Factory by reference
	instances map[string]Discoverable                  // Instances by name
	metrics   *metric.Metrics
	mu        sync.RWMutex // Protects all maps
}

// NewRegistry creates a new empty registry
func NewRegistry() *Registry {
	return &Registry{
		services:  make(map[uuid.UUID]*service.ServiceDescriptor),
		names:     make(map[string]uuid.UUID),
		factories: make(map[string]Factory),
		instances: make(map[string]Discoverable),
	}
}

// SetMetrics attaches registry metrics; nil detaches them
func (r *Registry) SetMetrics(m *metric.Metrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
	r.recordCountsLocked()
}

// RegisterFactory binds a factory reference to a constructor.
// Returns an error if the reference is already bound.
func (r *Registry) RegisterFactory(ref string, factory Factory) error {
	if err := ValidateComponentName(ref); err != nil {
		return errors.Wrap(err, "Registry", "RegisterFactory", "factory reference validation")
	}
	if factory == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterFactory", "factory function validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[ref]; exists {
		msg := fmt.Errorf("%w: factory '%s'", errors.ErrAlreadyRegistered, ref)
		return errors.WrapInvalid(msg, "Registry", "RegisterFactory", "duplicate factory check")
	}

	r.factories[ref] = factory
	return nil
}

// RegisterService adds a descriptor. A second descriptor with the same uid
// or the same name is rejected.
func (r *Registry) RegisterService(desc *service.ServiceDescriptor) error {
	if desc == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterService", "descriptor validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.services[desc.UID()]; exists {
		msg := fmt.Errorf("%w: uid %s (service '%s')", errors.ErrAlreadyRegistered, desc.UID(), existing.Name())
		return errors.WrapInvalid(msg, "Registry", "RegisterService", "duplicate uid check")
	}
	if _, exists := r.names[desc.Name()]; exists {
		msg := fmt.Errorf("%w: service '%s'", errors.ErrAlreadyRegistered, desc.Name())
		return errors.WrapInvalid(msg, "Registry", "RegisterService", "duplicate name check")
	}

	r.services[desc.UID()] = desc
	r.names[desc.Name()] = desc.UID()
	r.recordCountsLocked()
	return nil
}

// Register adds a descriptor together with the factory its reference resolves to
func (r *Registry) Register(desc *service.ServiceDescriptor, factory Factory) error {
	if desc == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "Register", "descriptor validation")
	}
	if err := r.RegisterFactory(desc.FactoryRef(), factory); err != nil {
		return err
	}
	if err := r.RegisterService(desc); err != nil {
		r.mu.Lock()
		delete(r.factories, desc.FactoryRef())
		r.mu.Unlock()
		return err
	}
	return nil
}

// Service returns the descriptor registered under uid
func (r *Registry) Service(uid uuid.UUID) (*service.ServiceDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.services[uid]
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: uid %s", errors.ErrServiceNotFound, uid), "Registry", "Service", "service lookup")
	}
	return desc, nil
}

// ServiceByName returns the descriptor registered under an agent name
func (r *Registry) ServiceByName(name string) (*service.ServiceDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uid, ok := r.names[name]
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: '%s'", errors.ErrServiceNotFound, name), "Registry", "ServiceByName", "service lookup")
	}
	return r.services[uid], nil
}

// Resolve accepts either an agent name or a uid string
func (r *Registry) Resolve(ref string) (*service.ServiceDescriptor, error) {
	if uid, err := uuid.Parse(ref); err == nil {
		return r.Service(uid)
	}
	return r.ServiceByName(ref)
}

// ListServices returns all descriptors sorted by name
func (r *Registry) ListServices() []*service.ServiceDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*service.ServiceDescriptor, 0, len(r.services))
	for _, desc := range r.services {
		result = append(result, desc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// ListAvailable returns a summary of every registered service, sorted by name
func (r *Registry) ListAvailable() []Info {
	descs := r.ListServices()

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Info, 0, len(descs))
	for _, desc := range descs {
		agent := desc.Agent()
		_, resolved := r.factories[desc.FactoryRef()]
		result = append(result, Info{
			UID:         agent.UID.String(),
			Name:        agent.Name,
			Version:     agent.Version,
			Type:        desc.Type().String(),
			Description: desc.Description(),
			FactoryRef:  desc.FactoryRef(),
			Resolved:    resolved,
		})
	}
	return result
}

// NewConfig returns a fresh, unvalidated configuration for the service
// registered under uid. name overrides the descriptor's default instance name.
func (r *Registry) NewConfig(uid uuid.UUID, name ...string) (config.Configurable, error) {
	desc, err := r.Service(uid)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "NewConfig", "service lookup")
	}
	if len(name) > 0 && name[0] != "" {
		return desc.Config().NewNamed(name[0]), nil
	}
	return desc.Config().New(), nil
}

// CreateComponent validates cfg when it is not validated yet, resolves the
// service's factory reference and registers the created instance under
// instanceName. An unresolved reference fails with ErrFactoryUnresolved.
func (r *Registry) CreateComponent(
	instanceName string, uid uuid.UUID, cfg config.Configurable, deps Dependencies,
) (Discoverable, error) {
	if err := ValidateComponentName(instanceName); err != nil {
		return nil, errors.Wrap(err, "Registry", "CreateComponent", "instance name validation")
	}
	if cfg == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Registry", "CreateComponent", "config validation")
	}

	desc, err := r.Service(uid)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "CreateComponent", "service lookup")
	}

	if !cfg.Validated() {
		err := cfg.Validate()
		r.recordValidation(cfg.Name(), err)
		if err != nil {
			r.recordCreated(desc.Name(), false)
			return nil, errors.WrapInvalid(err, "Registry", "CreateComponent",
				fmt.Sprintf("config '%s' validation", cfg.Name()))
		}
	}

	r.mu.RLock()
	factory, ok := r.factories[desc.FactoryRef()]
	r.mu.RUnlock()
	if !ok {
		r.recordCreated(desc.Name(), false)
		msg := fmt.Errorf("%w: '%s' for service '%s'", errors.ErrFactoryUnresolved, desc.FactoryRef(), desc.Name())
		return nil, errors.WrapInvalid(msg, "Registry", "CreateComponent", "factory resolution")
	}

	comp, err := factory(cfg, deps)
	if err != nil {
		r.recordCreated(desc.Name(), false)
		return nil, errors.Wrap(err, "Registry", "CreateComponent",
			fmt.Sprintf("factory '%s' execution", desc.FactoryRef()))
	}
	if comp == nil {
		r.recordCreated(desc.Name(), false)
		return nil, errors.WrapFatal(
			fmt.Errorf("factory '%s' returned nil component", desc.FactoryRef()),
			"Registry", "CreateComponent", "factory result")
	}

	if err := r.RegisterInstance(instanceName, comp); err != nil {
		if c, ok := comp.(Closer); ok {
			c.Close()
		}
		r.recordCreated(desc.Name(), false)
		return nil, errors.Wrap(err, "Registry", "CreateComponent", "instance registration")
	}

	r.recordCreated(desc.Name(), true)
	return comp, nil
}

// RegisterInstance tracks a component instance under name
func (r *Registry) RegisterInstance(name string, comp Discoverable) error {
	if err := ValidateComponentName(name); err != nil {
		return errors.Wrap(err, "Registry", "RegisterInstance", "instance name validation")
	}
	if comp == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterInstance", "component validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instances[name]; exists {
		msg := fmt.Errorf("%w: instance '%s'", errors.ErrAlreadyRegistered, name)
		return errors.WrapInvalid(msg, "Registry", "RegisterInstance", "duplicate instance check")
	}

	r.instances[name] = comp
	r.recordCountsLocked()
	return nil
}

// UnregisterInstance stops tracking the named instance
func (r *Registry) UnregisterInstance(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instances[name]; !exists {
		return errors.WrapInvalid(
			fmt.Errorf("%w: '%s'", errors.ErrInstanceNotFound, name),
			"Registry", "UnregisterInstance", "instance lookup")
	}
	delete(r.instances, name)
	r.recordCountsLocked()
	return nil
}

// Component returns the named instance, or nil when it is not tracked
func (r *Registry) Component(name string) Discoverable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.instances[name]
}

// ListComponents returns a copy of all tracked instances
func (r *Registry) ListComponents() map[string]Discoverable {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]Discoverable, len(r.instances))
	maps.Copy(result, r.instances)
	return result
}

// ListFactories returns the bound factory references, sorted
func (r *Registry) ListFactories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	refs := make([]string, 0, len(r.factories))
	for ref := range r.factories {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// recordCountsLocked must be called with r.mu held
func (r *Registry) recordCountsLocked() {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordServices(len(r.services))
	r.metrics.RecordComponents(len(r.instances))
}

func (r *Registry) recordCreated(serviceName string, ok bool) {
	r.mu.RLock()
	m := r.metrics
	r.mu.RUnlock()
	if m != nil {
		m.RecordComponentCreated(serviceName, ok)
	}
}

func (r *Registry) recordValidation(configName string, err error) {
	r.mu.RLock()
	m := r.metrics
	r.mu.RUnlock()
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if kind, ok := errors.KindOf(err); ok {
			outcome = kind.String()
		}
	}
	m.RecordValidation(configName, outcome)
}
