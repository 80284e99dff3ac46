package predicate

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja/ast"
)

// DefaultScriptTimeout bounds a single script call
const DefaultScriptTimeout = time.Second

// ErrScriptTimeout is returned when a script call runs past its timeout
var ErrScriptTimeout = errors.New("script execution timed out")

// ScriptCompiler compiles JavaScript function expressions such as
// `function (data) { return data.level >= 3 }` or `data => data.ok`.
// The source must be exactly one function or arrow function literal;
// nothing in it runs until the predicate is called. Each compiled
// predicate owns one runtime; calls are serialized and interrupted after
// Timeout.
type ScriptCompiler struct {
	// Timeout bounds each call; DefaultScriptTimeout when zero
	Timeout time.Duration
}

// Compile implements Compiler
func (c ScriptCompiler) Compile(name, source string) (Predicate, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &CompileError{Name: name, Source: source, Err: fmt.Errorf("empty script")}
	}

	parsed, err := goja.Parse(name, "("+source+")")
	if err != nil {
		return nil, &CompileError{Name: name, Source: source, Err: err}
	}
	if err := checkFunctionLiteral(parsed); err != nil {
		return nil, &CompileError{Name: name, Source: source, Err: err}
	}
	program, err := goja.CompileAST(parsed, false)
	if err != nil {
		return nil, &CompileError{Name: name, Source: source, Err: err}
	}

	s := &scriptPredicate{runtime: goja.New(), timeout: c.Timeout}
	if s.timeout <= 0 {
		s.timeout = DefaultScriptTimeout
	}
	s.runtime.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	var value goja.Value
	err = s.bounded(func() (runErr error) {
		value, runErr = s.runtime.RunProgram(program)
		return runErr
	})
	if err != nil {
		return nil, &CompileError{Name: name, Source: source, Err: err}
	}
	fn, ok := goja.AssertFunction(value)
	if !ok {
		return nil, &CompileError{Name: name, Source: source, Err: fmt.Errorf("script must evaluate to a function")}
	}
	s.fn = fn
	return s.call, nil
}

// checkFunctionLiteral accepts only a program made of one expression
// statement holding a plain function or arrow function literal
func checkFunctionLiteral(prg *ast.Program) error {
	if len(prg.Body) != 1 {
		return fmt.Errorf("script must be a single function expression")
	}
	stmt, ok := prg.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return fmt.Errorf("script must be a single function expression")
	}
	switch fn := stmt.Expression.(type) {
	case *ast.FunctionLiteral:
		if fn.Async || fn.Generator {
			return fmt.Errorf("async and generator functions are not supported")
		}
	case *ast.ArrowFunctionLiteral:
		if fn.Async {
			return fmt.Errorf("async functions are not supported")
		}
	default:
		return fmt.Errorf("script must be a function expression, got %T", stmt.Expression)
	}
	return nil
}

type scriptPredicate struct {
	mu      sync.Mutex // goja.Runtime is not goroutine-safe
	runtime *goja.Runtime
	fn      goja.Callable
	timeout time.Duration

	interruptMu sync.Mutex
}

func (s *scriptPredicate) call(record any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result goja.Value
	err := s.bounded(func() (callErr error) {
		result, callErr = s.fn(goja.Undefined(), s.runtime.ToValue(record))
		return callErr
	})
	if err != nil {
		return false, err
	}
	return result.ToBoolean(), nil
}

// bounded runs fn and interrupts the runtime when it outlives the timeout.
// The interrupt flag is cleared before returning so the runtime stays usable.
func (s *scriptPredicate) bounded(fn func() error) error {
	finished := false
	timer := time.AfterFunc(s.timeout, func() {
		s.interruptMu.Lock()
		defer s.interruptMu.Unlock()
		if !finished {
			s.runtime.Interrupt(ErrScriptTimeout)
		}
	})

	err := fn()

	timer.Stop()
	s.interruptMu.Lock()
	finished = true
	s.runtime.ClearInterrupt()
	s.interruptMu.Unlock()

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fmt.Errorf("%w after %s", ErrScriptTimeout, s.timeout)
	}
	return err
}
