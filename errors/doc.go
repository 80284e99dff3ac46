// Package errors provides standardized error handling patterns for semfilter components.
//
// # Overview
//
// Two complementary mechanisms live here:
//
//   - The three-class classification inherited from the stream runtime:
//     Transient (temporary, retryable), Invalid (bad input or configuration)
//     and Fatal (unrecoverable). Wrap helpers attach component and method
//     context following the "component.method: action failed: %w" pattern.
//   - The configuration error taxonomy. Every failed option or config check
//     produces exactly one *ConfigError naming the violated rule (Kind) and
//     the offending option(s). Configuration errors always classify as
//     Invalid; there is no retry path for them.
//
// # Configuration errors
//
// Check for a specific rule with errors.Is against the kind sentinel:
//
//	if err := cfg.Validate(); err != nil {
//	    if errors.Is(err, pkgerrors.ErrMutuallyExclusiveOptions) {
//	        // tell the operator which pair conflicts
//	    }
//	}
//
// Or extract the structured value:
//
//	var ce *pkgerrors.ConfigError
//	if errors.As(err, &ce) {
//	    log.Printf("rule %s violated by %v: %s", ce.Kind, ce.Options, ce.Message)
//	}
//
// A ConfigError may carry an underlying cause (for example the compiler
// diagnostic of an invalid predicate); both the kind sentinel and the cause
// are reachable through errors.Is and errors.As.
//
// # Error Wrapping Pattern
//
//	errors.WrapTransient(err, "Component", "Method", "action")  // For retryable errors
//	errors.WrapInvalid(err, "Component", "Method", "action")    // For validation errors
//	errors.WrapFatal(err, "Component", "Method", "action")      // For unrecoverable errors
//	errors.Wrap(err, "Component", "Method", "action")           // Preserves original class
//
// # Thread Safety
//
// All classification and wrapping operations are thread-safe. Error variables
// are immutable and safe for concurrent access.
package errors
