package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/c360/semfilter/component"
	"github.com/c360/semfilter/config"
	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/pkg/retry"
	"github.com/c360/semfilter/service"
	"github.com/c360/semfilter/types"
)

// host creates the component instances of a host document
type host struct {
	registry *component.Registry
	loader   *config.Loader
	kv       *config.KVSource // nil when no bucket is configured
	kvRetry  retry.Policy
	deps     component.Dependencies
	logger   *slog.Logger
}

// configure builds and loads the configuration of one instance. Values are
// applied in order: document, KV bucket, environment.
func (h *host) configure(
	ctx context.Context, instance string, cc types.ComponentConfig,
) (*service.ServiceDescriptor, config.Configurable, error) {
	desc, err := h.registry.Resolve(cc.Service)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Host", "configure", fmt.Sprintf("resolve service for %s", instance))
	}

	cfg, err := h.registry.NewConfig(desc.UID(), cc.ConfigName(instance))
	if err != nil {
		return nil, nil, err
	}
	if err := h.loader.Load(cfg, cc.Config); err != nil {
		return nil, nil, errors.Wrap(err, "Host", "configure", fmt.Sprintf("load config for %s", instance))
	}
	if h.kv != nil {
		n, err := retry.DoValue(ctx, h.kvRetry, func() (int, error) {
			return h.kv.Load(ctx, cfg)
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, "Host", "configure", fmt.Sprintf("load KV config for %s", instance))
		}
		h.logger.Debug("Applied KV options", "instance", instance, "count", n)
	}
	if err := h.loader.ApplyEnv(cfg); err != nil {
		return nil, nil, errors.Wrap(err, "Host", "configure", fmt.Sprintf("apply environment for %s", instance))
	}
	return desc, cfg, nil
}

// validate validates every enabled instance configuration and returns the
// first failure
func (h *host) validate(ctx context.Context, components types.ComponentConfigs) error {
	for _, instance := range components.Enabled() {
		cc := components[instance]
		_, cfg, err := h.configure(ctx, instance, cc)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return errors.WrapInvalid(err, "Host", "validate", fmt.Sprintf("instance %s", instance))
		}
		h.logger.Info("Configuration is valid", "instance", instance, "service", cc.Service)
	}
	return nil
}

// start creates every enabled instance. Instances created before a failure
// are closed again.
func (h *host) start(ctx context.Context, components types.ComponentConfigs) error {
	for _, instance := range components.Enabled() {
		cc := components[instance]
		desc, cfg, err := h.configure(ctx, instance, cc)
		if err != nil {
			h.stop()
			return err
		}
		if _, err := h.registry.CreateComponent(instance, desc.UID(), cfg, h.deps); err != nil {
			h.stop()
			return errors.Wrap(err, "Host", "start", fmt.Sprintf("create %s", instance))
		}
		h.logger.Info("Created component", "instance", instance, "service", desc.Name())
	}
	return nil
}

// stop closes and unregisters every instance
func (h *host) stop() {
	for name, comp := range h.registry.ListComponents() {
		if c, ok := comp.(component.Closer); ok {
			c.Close()
		}
		if err := h.registry.UnregisterInstance(name); err != nil {
			h.logger.Warn("Failed to unregister component", "instance", name, "error", err)
		}
	}
}

// printServices writes the service table to w
func printServices(w io.Writer, registry *component.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "UID\tNAME\tVERSION\tTYPE\tFACTORY")
	for _, info := range registry.ListAvailable() {
		factory := info.FactoryRef
		if !info.Resolved {
			factory += " (unresolved)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", info.UID, info.Name, info.Version, info.Type, factory)
	}
	return tw.Flush()
}

// describeService writes the configuration template of a service to w
func describeService(w io.Writer, registry *component.Registry, ref string) error {
	desc, err := registry.Resolve(ref)
	if err != nil {
		return err
	}
	cfg, err := registry.NewConfig(desc.UID())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, config.Describe(cfg))
	return err
}
