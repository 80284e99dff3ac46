// Package filter provides the typed-record data filter: its configuration,
// the component built from it, and its service descriptor.
//
// Both pipe formats must be application/x.fb.proto with the same type
// parameter. At least one of include_expr, include_func, exclude_expr and
// exclude_func must be set, and each polarity takes either an expression
// or a function, not both.
//
// Expressions use expr-lang syntax and see the record as data:
//
//	include_expr: data.level >= 3 && data.source != "test"
//
// Functions are JavaScript function expressions called with the record:
//
//	exclude_func: function (data) { return data.message.startsWith("DEBUG"); }
//
// Validation compiles every set predicate, so a configuration that passes
// Validate yields a Filter whose predicates are ready to run.
package filter
