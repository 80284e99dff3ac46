package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the configuration rule that was violated.
type Kind int

// Configuration error kinds
const (
	KindUnknown Kind = iota
	KindMissingRequiredOption
	KindUnsupportedFormatType
	KindMissingFormatParameter
	KindMismatchedFormatParameter
	KindNoPredicateDefined
	KindMutuallyExclusiveOptions
	KindInvalidCodeDefinition
	KindUnsupportedFormatParameter
	KindInvalidOptionValue
	KindUnknownOption
)

// Sentinel errors, one per Kind, for use with errors.Is
var (
	ErrMissingRequiredOption      = errors.New("missing required option")
	ErrUnsupportedFormatType      = errors.New("unsupported format type")
	ErrMissingFormatParameter     = errors.New("missing format parameter")
	ErrMismatchedFormatParameter  = errors.New("mismatched format parameter")
	ErrNoPredicateDefined         = errors.New("no predicate defined")
	ErrMutuallyExclusiveOptions   = errors.New("mutually exclusive options")
	ErrInvalidCodeDefinition      = errors.New("invalid code definition")
	ErrUnsupportedFormatParameter = errors.New("unsupported format parameter")
	ErrInvalidOptionValue         = errors.New("invalid option value")
	ErrUnknownOption              = errors.New("unknown option")
)

var kindSentinels = map[Kind]error{
	KindMissingRequiredOption:      ErrMissingRequiredOption,
	KindUnsupportedFormatType:      ErrUnsupportedFormatType,
	KindMissingFormatParameter:     ErrMissingFormatParameter,
	KindMismatchedFormatParameter:  ErrMismatchedFormatParameter,
	KindNoPredicateDefined:         ErrNoPredicateDefined,
	KindMutuallyExclusiveOptions:   ErrMutuallyExclusiveOptions,
	KindInvalidCodeDefinition:      ErrInvalidCodeDefinition,
	KindUnsupportedFormatParameter: ErrUnsupportedFormatParameter,
	KindInvalidOptionValue:         ErrInvalidOptionValue,
	KindUnknownOption:              ErrUnknownOption,
}

// String returns the taxonomy name of the kind
func (k Kind) String() string {
	switch k {
	case KindMissingRequiredOption:
		return "MissingRequiredOption"
	case KindUnsupportedFormatType:
		return "UnsupportedFormatType"
	case KindMissingFormatParameter:
		return "MissingFormatParameter"
	case KindMismatchedFormatParameter:
		return "MismatchedFormatParameter"
	case KindNoPredicateDefined:
		return "NoPredicateDefined"
	case KindMutuallyExclusiveOptions:
		return "MutuallyExclusiveOptions"
	case KindInvalidCodeDefinition:
		return "InvalidCodeDefinition"
	case KindUnsupportedFormatParameter:
		return "UnsupportedFormatParameter"
	case KindInvalidOptionValue:
		return "InvalidOptionValue"
	case KindUnknownOption:
		return "UnknownOption"
	default:
		return "Unknown"
	}
}

// ConfigError is the single tagged result of a failed configuration check.
// It names the violated rule and the offending option(s).
type ConfigError struct {
	Kind    Kind
	Options []string
	Message string
	Err     error // underlying cause, e.g. a compiler diagnostic
}

// NewConfigError creates a ConfigError for the given kind and options
func NewConfigError(kind Kind, message string, options ...string) *ConfigError {
	return &ConfigError{
		Kind:    kind,
		Options: options,
		Message: message,
	}
}

// Errorf creates a ConfigError with a formatted message
func Errorf(kind Kind, options []string, format string, args ...any) *ConfigError {
	return NewConfigError(kind, fmt.Sprintf(format, args...), options...)
}

// WithCause attaches the underlying error and returns the receiver
func (e *ConfigError) WithCause(err error) *ConfigError {
	e.Err = err
	return e
}

// Option returns the first offending option name, or "" when none was recorded
func (e *ConfigError) Option() string {
	if len(e.Options) == 0 {
		return ""
	}
	return e.Options[0]
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause
func (e *ConfigError) Unwrap() []error {
	var errs []error
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the Kind of the first ConfigError in err's chain
func KindOf(err error) (Kind, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return KindUnknown, false
}
