// Package componentregistry registers every built-in semfilter service with
// a component registry.
package componentregistry

import (
	"errors"

	"github.com/c360/semfilter/component"
	pkgerrors "github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/filter"
	"github.com/c360/semfilter/linefilter"
	"github.com/c360/semfilter/parser"
)

// Register registers all built-in services with the provided registry:
//   - typed record filter (descriptor and factory)
//   - text line filter (descriptor and factory)
//   - Firebird trace and log parsers (descriptors only)
func Register(registry *component.Registry) error {
	// Nil registry is a programming error (fatal), not invalid input
	if registry == nil {
		return pkgerrors.WrapFatal(
			errors.New("registry cannot be nil"),
			"ComponentRegistry", "Register", "registry validation")
	}

	if err := filter.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "ComponentRegistry", "Register", "record filter registration")
	}

	if err := linefilter.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "ComponentRegistry", "Register", "line filter registration")
	}

	if err := parser.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "ComponentRegistry", "Register", "parser descriptor registration")
	}

	return nil
}
