// Package option provides typed, named configuration leaves.
//
// An option holds an optional value and an optional default. Setting a value
// never fails; type coercion of loader input happens in Decode, and value
// constraints are checked by Validate.
package option

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360/semfilter/errors"
)

// Option is the type-erased view of a configuration leaf used by configs,
// loaders and describers.
type Option interface {
	Name() string
	Description() string
	Required() bool
	SetRequired(required bool)

	// HasValue reports whether Get would return a set or default value
	HasValue() bool
	// IsSet reports whether a value was explicitly set
	IsSet() bool
	Clear()

	// Decode coerces loader input and stores it. A nil raw value clears the option.
	Decode(raw any) error
	// Any returns the effective value, or nil when there is none
	Any() any
	// Validate runs the required check and any value constraint
	Validate() error

	// TypeName is the value type label used in option descriptions
	TypeName() string
	// DefaultText renders the default (or a proposal) for descriptions
	DefaultText() (string, bool)
}

// Value is an option holding a value of type T
type Value[T any] struct {
	name        string
	description string
	typeName    string
	required    bool

	value      T
	isSet      bool
	def        T
	hasDefault bool

	decode func(raw any) (T, error)
	check  func(T) error
	render func(T) string
}

// NewValue creates an option with a custom decoder. The decoder sees every
// non-nil raw value; when it is nil only raw values of type T are accepted.
func NewValue[T any](name, description, typeName string, required bool, decode func(raw any) (T, error)) *Value[T] {
	return &Value[T]{
		name:        name,
		description: description,
		typeName:    typeName,
		required:    required,
		decode:      decode,
	}
}

// WithDefault sets the default value and returns the option
func (v *Value[T]) WithDefault(def T) *Value[T] {
	v.SetDefault(def)
	return v
}

// WithCheck installs a value constraint run by Validate
func (v *Value[T]) WithCheck(check func(T) error) *Value[T] {
	v.check = check
	return v
}

func (v *Value[T]) Name() string        { return v.name }
func (v *Value[T]) Description() string { return v.description }
func (v *Value[T]) TypeName() string    { return v.typeName }
func (v *Value[T]) Required() bool      { return v.required }
func (v *Value[T]) IsSet() bool         { return v.isSet }

func (v *Value[T]) SetRequired(required bool) {
	v.required = required
}

func (v *Value[T]) HasValue() bool {
	return v.isSet || v.hasDefault
}

// Set stores a value without validation
func (v *Value[T]) Set(value T) {
	v.value = value
	v.isSet = true
}

// SetDefault replaces the default value
func (v *Value[T]) SetDefault(def T) {
	v.def = def
	v.hasDefault = true
}

// Default returns the default value
func (v *Value[T]) Default() (T, bool) {
	return v.def, v.hasDefault
}

// Clear removes the set value; the default is kept
func (v *Value[T]) Clear() {
	var zero T
	v.value = zero
	v.isSet = false
}

// Get returns the set value, or the default. An option without either fails
// with MissingRequiredOption when required and yields the zero value otherwise.
func (v *Value[T]) Get() (T, error) {
	switch {
	case v.isSet:
		return v.value, nil
	case v.hasDefault:
		return v.def, nil
	case v.required:
		var zero T
		return zero, v.missing()
	default:
		var zero T
		return zero, nil
	}
}

// Any implements Option
func (v *Value[T]) Any() any {
	if !v.HasValue() {
		return nil
	}
	value, _ := v.Get()
	return value
}

// Decode implements Option
func (v *Value[T]) Decode(raw any) error {
	if raw == nil {
		v.Clear()
		return nil
	}
	if v.decode == nil {
		typed, ok := raw.(T)
		if !ok {
			return v.invalid(raw, fmt.Errorf("expected %s", v.typeName))
		}
		v.Set(typed)
		return nil
	}
	value, err := v.decode(raw)
	if err != nil {
		return v.invalid(raw, err)
	}
	v.Set(value)
	return nil
}

// Validate implements Option
func (v *Value[T]) Validate() error {
	if !v.HasValue() {
		if v.required {
			return v.missing()
		}
		return nil
	}
	if v.check == nil {
		return nil
	}
	value, _ := v.Get()
	if err := v.check(value); err != nil {
		return errors.Errorf(errors.KindInvalidOptionValue, []string{v.name},
			"invalid value for option '%s'", v.name).WithCause(err)
	}
	return nil
}

// DefaultText implements Option
func (v *Value[T]) DefaultText() (string, bool) {
	if !v.hasDefault {
		return "", false
	}
	if v.render != nil {
		return v.render(v.def), true
	}
	return fmt.Sprint(v.def), true
}

func (v *Value[T]) missing() error {
	return errors.Errorf(errors.KindMissingRequiredOption, []string{v.name},
		"missing value for required option '%s'", v.name)
}

func (v *Value[T]) invalid(raw any, cause error) error {
	return errors.Errorf(errors.KindInvalidOptionValue, []string{v.name},
		"cannot use %v (%T) as %s value for option '%s'", raw, raw, v.typeName, v.name).WithCause(cause)
}

// NewString creates a string option
func NewString(name, description string, required bool) *Value[string] {
	return NewValue(name, description, "str", required, decodeString)
}

// NewInt creates an integer option. Integral floats (as produced by JSON)
// and numeric strings are accepted by Decode.
func NewInt(name, description string, required bool) *Value[int] {
	return NewValue(name, description, "int", required, decodeInt)
}

// NewBool creates a boolean option
func NewBool(name, description string, required bool) *Value[bool] {
	return NewValue(name, description, "bool", required, decodeBool)
}

// NewEnum creates a string option restricted to a closed set of values.
// Decode matches case-insensitively and stores the canonical spelling.
func NewEnum(name, description string, required bool, allowed ...string) *Value[string] {
	decode := func(raw any) (string, error) {
		s, err := decodeString(raw)
		if err != nil {
			return "", err
		}
		for _, a := range allowed {
			if strings.EqualFold(a, s) {
				return a, nil
			}
		}
		return "", fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
	v := NewValue(name, description, "enum["+strings.Join(allowed, ", ")+"]", required, decode)
	return v.WithCheck(func(s string) error {
		for _, a := range allowed {
			if a == s {
				return nil
			}
		}
		return fmt.Errorf("%q is not one of %s", s, strings.Join(allowed, ", "))
	})
}

func decodeString(raw any) (string, error) {
	switch x := raw.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case fmt.Stringer:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		// scalars decoded from JSON or YAML keep their source text
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expected string")
	}
}

func decodeInt(raw any) (int, error) {
	switch x := raw.(type) {
	case int:
		return x, nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case uint64:
		return int(x), nil
	case float64:
		if x != float64(int(x)) {
			return 0, fmt.Errorf("%v is not an integer", x)
		}
		return int(x), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(x))
	default:
		return 0, fmt.Errorf("expected integer")
	}
}

func decodeBool(raw any) (bool, error) {
	switch x := raw.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(strings.ToLower(x)))
	default:
		return false, fmt.Errorf("expected boolean")
	}
}
