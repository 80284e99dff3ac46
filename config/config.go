package config

import (
	"fmt"

	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/option"
)

// Rule is one cross-field check of a configuration. Rules run in the order
// they were added and must not mutate option values.
type Rule func() error

// Configurable is what registries, loaders and component factories consume
type Configurable interface {
	Name() string
	Validate() error
	Validated() bool
	Base() *Config
}

// Config is a named, ordered set of options plus the ordered rule list of a
// concrete configuration kind. Concrete kinds embed *Config and register
// their options and rules at construction.
type Config struct {
	name        string
	description string
	options     []option.Option
	index       map[string]option.Option
	rules       []Rule
	validated   bool
}

// New creates an empty configuration
func New(name, description string) *Config {
	return &Config{
		name:        name,
		description: description,
		index:       make(map[string]option.Option),
	}
}

// Name returns the configuration instance name
func (c *Config) Name() string {
	return c.name
}

// Description returns the configuration description
func (c *Config) Description() string {
	return c.description
}

// Base returns the receiver; concrete kinds inherit it through embedding
func (c *Config) Base() *Config {
	return c
}

// Add appends options. A duplicate option name is a programming error and panics.
func (c *Config) Add(opts ...option.Option) {
	for _, opt := range opts {
		if _, exists := c.index[opt.Name()]; exists {
			panic(fmt.Sprintf("config %s: duplicate option %q", c.name, opt.Name()))
		}
		c.index[opt.Name()] = opt
		c.options = append(c.options, opt)
	}
}

// AddRules appends rules to the validation chain
func (c *Config) AddRules(rules ...Rule) {
	c.rules = append(c.rules, rules...)
}

// Option looks up an option by name
func (c *Config) Option(name string) (option.Option, bool) {
	opt, ok := c.index[name]
	return opt, ok
}

// Options returns the options in declaration order
func (c *Config) Options() []option.Option {
	out := make([]option.Option, len(c.options))
	copy(out, c.options)
	return out
}

// Get returns the effective value of an option. A required option without a
// value fails with MissingRequiredOption.
func (c *Config) Get(name string) (any, error) {
	opt, ok := c.index[name]
	if !ok {
		return nil, c.unknown(name)
	}
	if !opt.HasValue() && opt.Required() {
		return nil, errors.Errorf(errors.KindMissingRequiredOption, []string{name},
			"missing value for required option '%s'", name)
	}
	return opt.Any(), nil
}

// Set decodes and stores a raw value. It is refused once the configuration
// has been validated.
func (c *Config) Set(name string, raw any) error {
	if c.validated {
		return errors.WrapInvalid(errors.ErrConfigSealed, "Config", "Set",
			fmt.Sprintf("set option '%s' of %s", name, c.name))
	}
	opt, ok := c.index[name]
	if !ok {
		return c.unknown(name)
	}
	return opt.Decode(raw)
}

// Validate checks every option (required values and value constraints) and
// then runs the rules in order. The first violation is returned as is.
// A successful validation seals the configuration; validating again re-runs
// the same checks and a failure unseals it.
func (c *Config) Validate() error {
	c.validated = false
	for _, opt := range c.options {
		if err := opt.Validate(); err != nil {
			return err
		}
	}
	for _, rule := range c.rules {
		if err := rule(); err != nil {
			return err
		}
	}
	c.validated = true
	return nil
}

// Validated reports whether Validate has succeeded
func (c *Config) Validated() bool {
	return c.validated
}

func (c *Config) unknown(name string) error {
	return errors.Errorf(errors.KindUnknownOption, []string{name},
		"config %s has no option '%s'", c.name, name)
}
