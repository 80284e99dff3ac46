package component

import (
	"fmt"

	"github.com/c360/semfilter/errors"
)

// MaxNameLength bounds instance and factory reference names
const MaxNameLength = 1024

// ValidateComponentName validates instance names and factory references.
// Allowed characters are ASCII letters, digits, dash, underscore and dot.
func ValidateComponentName(name string) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "ComponentValidator", "ValidateComponentName", "empty name")
	}
	if len(name) > MaxNameLength {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "ComponentValidator", "ValidateComponentName", "name too long")
	}
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.') {
			return errors.WrapInvalid(
				fmt.Errorf("%w: invalid character %q in %q", errors.ErrInvalidConfig, r, name),
				"ComponentValidator", "ValidateComponentName", "name characters")
		}
	}
	return nil
}
