package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorClass tells callers how to react to a failure
type ErrorClass int

const (
	// ErrorTransient marks failures worth retrying (NATS, KV lookups)
	ErrorTransient ErrorClass = iota
	// ErrorInvalid marks bad input or configuration
	ErrorInvalid
	// ErrorFatal marks failures that should stop the host
	ErrorFatal
)

var classNames = [...]string{
	ErrorTransient: "transient",
	ErrorInvalid:   "invalid",
	ErrorFatal:     "fatal",
}

// String returns the lower-case class name
func (ec ErrorClass) String() string {
	if ec < 0 || int(ec) >= len(classNames) {
		return "unknown"
	}
	return classNames[ec]
}

// Registry errors
var (
	ErrAlreadyRegistered = errors.New("already registered")
	ErrServiceNotFound   = errors.New("service not found")
	ErrFactoryUnresolved = errors.New("factory reference not resolved")
	ErrInstanceNotFound  = errors.New("component instance not found")
)

// Filtering errors
var (
	ErrUnsupportedFormat = errors.New("data format not supported")
	ErrEvaluationFailed  = errors.New("predicate evaluation failed")
)

// Configuration lifecycle errors
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrMissingConfig  = errors.New("missing required configuration")
	ErrConfigSealed   = errors.New("configuration already validated")
	ErrConfigTooLarge = errors.New("configuration exceeds size limits")
)

// ErrResourceExhausted is always fatal
var ErrResourceExhausted = errors.New("resource exhausted")

// invalidSentinels classify as ErrorInvalid without an explicit wrap
var invalidSentinels = []error{
	ErrInvalidConfig,
	ErrMissingConfig,
	ErrUnsupportedFormat,
	ErrConfigSealed,
	ErrConfigTooLarge,
}

// transientHints are matched against unclassified error text
var transientHints = []string{"timeout", "connection", "temporary", "unavailable"}

// ClassifiedError attaches a class and the failing call site to an error
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Component string
	Operation string
}

func (ce *ClassifiedError) Error() string { return ce.Err.Error() }

func (ce *ClassifiedError) Unwrap() error { return ce.Err }

// classOf reports the class of err and whether it was decided by an
// explicit classification rather than the fallback heuristics.
func classOf(err error) (ErrorClass, bool) {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class, true
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ErrorInvalid, true
	}
	if errors.Is(err, ErrResourceExhausted) {
		return ErrorFatal, true
	}
	for _, sentinel := range invalidSentinels {
		if errors.Is(err, sentinel) {
			return ErrorInvalid, true
		}
	}
	return ErrorTransient, false
}

// IsTransient reports whether err may succeed on retry. Unclassified
// errors count as transient only when their text hints at a network fault.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	class, known := classOf(err)
	if known {
		return class == ErrorTransient
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range transientHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

// IsFatal reports whether err should stop processing
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	class, known := classOf(err)
	return known && class == ErrorFatal
}

// IsInvalid reports whether err stems from bad input or configuration
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}
	class, known := classOf(err)
	return known && class == ErrorInvalid
}

// Classify returns the class of err. Unknown errors are transient.
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorTransient
	}
	class, _ := classOf(err)
	return class
}

// Wrap adds call-site context as "component.method: action failed: err"
// and keeps the class of err.
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

func wrapAs(class ErrorClass, err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Class:     class,
		Err:       Wrap(err, component, method, action),
		Component: component,
		Operation: method,
	}
}

// WrapTransient wraps err as retryable
func WrapTransient(err error, component, method, action string) error {
	return wrapAs(ErrorTransient, err, component, method, action)
}

// WrapInvalid wraps err as an input or configuration failure
func WrapInvalid(err error, component, method, action string) error {
	return wrapAs(ErrorInvalid, err, component, method, action)
}

// WrapFatal wraps err as unrecoverable
func WrapFatal(err error, component, method, action string) error {
	return wrapAs(ErrorFatal, err, component, method, action)
}
