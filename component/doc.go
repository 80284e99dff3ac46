// Package component provides the explicit registry through which a host
// discovers, configures and instantiates pluggable components.
//
// # Overview
//
// A component kind is described by an immutable service.ServiceDescriptor:
// its agent identity, a factory reference and a deferred configuration
// constructor. The Registry keeps three maps: descriptors by agent uid,
// factories by reference, and created instances by name. Descriptors and
// factories are registered separately, so a descriptor may be published
// before the code that implements it is linked in. The reference is
// resolved only when CreateComponent runs.
//
// # Registration Pattern
//
// Registration is EXPLICIT rather than init() self-registration:
//
//  1. Each component package exports a Register(*Registry) error function
//  2. componentregistry.Register() orchestrates all registrations
//  3. main.go explicitly calls Register() with a created Registry
//
// Example:
//
//	func Register(registry *component.Registry) error {
//		return registry.Register(Descriptor, Factory)
//	}
//
// # Creating Components
//
//	cfg, err := registry.NewConfig(filter.Descriptor.UID())
//	if err != nil {
//		return err
//	}
//	if err := loader.Load(cfg, values); err != nil {
//		return err
//	}
//	comp, err := registry.CreateComponent("filter-1", filter.Descriptor.UID(), cfg, deps)
//
// CreateComponent validates the configuration first when it is not yet
// validated. Validation failures carry an errors.Kind and are classified
// invalid; an unbound factory reference fails with
// errors.ErrFactoryUnresolved.
//
// # Logging
//
// Dependencies carries the host's *slog.Logger. Logger wraps it and, when a
// Publisher such as *nats.Conn is supplied, also publishes every entry as
// JSON on logs.<service>.<instance>.
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Maps are guarded by a
// single sync.RWMutex.
package component
