// Package config provides the configuration validation engine.
//
// A Config is a named, ordered collection of options (see package option)
// plus an ordered list of rules contributed by a concrete configuration
// kind. Concrete kinds embed *Config and register their options and rules
// in their constructor:
//
//	type Config struct {
//		*config.Config
//		Level *option.Value[int]
//	}
//
//	func NewConfig(name string) *Config {
//		c := &Config{
//			Config: config.New(name, "Level filter"),
//			Level:  option.NewInt("level", "Minimum level", true),
//		}
//		c.Add(c.Level)
//		c.AddRules(c.checkLevel)
//		return c
//	}
//
// # Validation
//
// Validate first runs every option's own check (required values and value
// constraints) in declaration order and then each rule in order. It stops at
// the first violation and returns it unchanged, so callers receive a single
// *errors.ConfigError naming the violated rule kind and the offending
// options. A successful validation seals the configuration: Set and the
// loaders refuse further changes with errors.ErrConfigSealed. Validating
// again re-runs the same checks.
//
// # Loading
//
// Loader populates options from maps, JSON or YAML documents, files and
// environment variables. Unknown keys are ignored. All input passes a
// security gate that limits document size and nesting and rejects null
// bytes and control characters. KVSource reads option values from a NATS
// JetStream key/value bucket using "<config name>.<option name>" keys.
//
// Document is the host configuration file naming the component instances
// to create.
//
// Describe renders a commented template of every option, suitable as a
// starting point for operators.
package config
