package predicate

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RecordVar is the variable name under which expressions see the record
const RecordVar = "data"

// ExprCompiler compiles single boolean expressions, e.g. `data.level >= 3`.
// Expressions whose result is known to be non-boolean are rejected at
// compile time; results of record fields are checked on every call.
// Compiled programs are safe for concurrent use.
type ExprCompiler struct {
	// Var names the variable holding the record; RecordVar when empty
	Var string
	// Options are appended to the default compile options
	Options []expr.Option
}

// Compile implements Compiler
func (c ExprCompiler) Compile(name, source string) (Predicate, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &CompileError{Name: name, Source: source, Err: fmt.Errorf("empty expression")}
	}

	opts := append([]expr.Option{expr.AllowUndefinedVariables(), expr.AsBool()}, c.Options...)
	program, err := expr.Compile(source, opts...)
	if err != nil {
		return nil, &CompileError{Name: name, Source: source, Err: err}
	}
	variable := c.Var
	if variable == "" {
		variable = RecordVar
	}
	return exprPredicate(program, variable), nil
}

func exprPredicate(program *vm.Program, variable string) Predicate {
	return func(record any) (bool, error) {
		out, err := expr.Run(program, map[string]any{variable: record})
		if err != nil {
			return false, err
		}
		result, ok := out.(bool)
		if !ok {
			return false, fmt.Errorf("expression returned %T, expected bool", out)
		}
		return result, nil
	}
}
