package option

import (
	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/predicate"
)

// Variant distinguishes the two flavours of predicate source
type Variant int

const (
	// Expression is a single boolean expression evaluated against a record
	Expression Variant = iota
	// Callable is a unary predicate function
	Callable
)

func (v Variant) String() string {
	if v == Callable {
		return "callable"
	}
	return "expression"
}

// Code is an option holding predicate source text. The source is compiled
// on the first call to Compiled and the outcome, success or failure, is
// cached until the value changes.
type Code struct {
	*Value[string]
	variant  Variant
	compiler predicate.Compiler
	proposal string

	compiled   predicate.Predicate
	compileErr error
	done       bool
}

// NewCode creates a code option compiled by the given compiler
func NewCode(name, description string, variant Variant, compiler predicate.Compiler, required bool) *Code {
	return &Code{
		Value:    NewString(name, description, required),
		variant:  variant,
		compiler: compiler,
	}
}

// WithProposal sets the example source shown in option descriptions
func (c *Code) WithProposal(proposal string) *Code {
	c.proposal = proposal
	return c
}

// Variant returns the code variant
func (c *Code) Variant() Variant {
	return c.variant
}

// TypeName implements Option
func (c *Code) TypeName() string {
	if c.variant == Callable {
		return "func"
	}
	return "expr"
}

// Proposal returns the example source shown in option descriptions
func (c *Code) Proposal() string {
	return c.proposal
}

// Set stores new source text and drops the compile cache
func (c *Code) Set(source string) {
	c.Value.Set(source)
	c.reset()
}

// Decode implements Option and drops the compile cache
func (c *Code) Decode(raw any) error {
	c.reset()
	return c.Value.Decode(raw)
}

// Clear implements Option and drops the compile cache
func (c *Code) Clear() {
	c.Value.Clear()
	c.reset()
}

// SetDefault replaces the default source and drops the compile cache
func (c *Code) SetDefault(source string) {
	c.Value.SetDefault(source)
	c.reset()
}

// Compiled returns the compiled predicate, compiling on first use. It returns
// nil without error when the option has no value. A compile failure is an
// InvalidCodeDefinition error naming the option and is returned unchanged by
// every later call until the source changes.
func (c *Code) Compiled() (predicate.Predicate, error) {
	if c.done {
		return c.compiled, c.compileErr
	}
	source, err := c.Get()
	if err != nil {
		return nil, err
	}
	if !c.HasValue() {
		return nil, nil
	}

	c.done = true
	if c.compiler == nil {
		c.compileErr = errors.Errorf(errors.KindInvalidCodeDefinition, []string{c.Name()},
			"no compiler available for '%s' option", c.Name())
		return nil, c.compileErr
	}
	compiled, err := c.compiler.Compile(c.Name(), source)
	if err != nil {
		c.compileErr = errors.Errorf(errors.KindInvalidCodeDefinition, []string{c.Name()},
			"invalid code definition in '%s' option", c.Name()).WithCause(err)
		return nil, c.compileErr
	}
	c.compiled = compiled
	return c.compiled, nil
}

func (c *Code) reset() {
	c.compiled = nil
	c.compileErr = nil
	c.done = false
}
