package predicate

import (
	"fmt"
	"regexp"
)

// RegexCompiler compiles RE2 patterns into predicates over strings. A
// record matches when the pattern is found anywhere in it.
type RegexCompiler struct{}

// Compile implements Compiler
func (RegexCompiler) Compile(name, source string) (Predicate, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, &CompileError{Name: name, Source: source, Err: err}
	}
	return func(record any) (bool, error) {
		switch s := record.(type) {
		case string:
			return re.MatchString(s), nil
		case []byte:
			return re.Match(s), nil
		default:
			return false, fmt.Errorf("regex expects a string, got %T", record)
		}
	}, nil
}
