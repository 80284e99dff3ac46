package linefilter

import (
	"fmt"

	"github.com/c360/semfilter/datafilter"
	"github.com/c360/semfilter/format"
	"github.com/c360/semfilter/option"
	"github.com/c360/semfilter/predicate"
)

// Option names
const (
	OptMaxChars = "max_chars"
	OptRegex    = "regex"
	OptExpr     = "expr"
	OptFunc     = "func"
)

// DefaultMaxChars bounds the characters of one output block
const DefaultMaxChars = 65535

// LineVar is the variable under which expressions see the line
const LineVar = "line"

// FuncProposal is the template shown for the func option
const FuncProposal = "function (line) {\n  return true;\n}"

// pattern is a regular expression option. It compiles like code but is
// described as a plain string.
type pattern struct {
	*option.Code
}

func (pattern) TypeName() string { return "str" }

// Config is the text line filter configuration
type Config struct {
	*datafilter.Config

	MaxChars *option.Value[int]
	Regex    *option.Code
	Expr     *option.Code
	Func     *option.Code
}

// NewConfig creates a line filter configuration
func NewConfig(name string) *Config {
	c := &Config{
		Config: datafilter.NewConfig(name, "Text line filter configuration"),

		MaxChars: option.NewInt(OptMaxChars, "Max. number of characters transmitted in one message", true).
			WithDefault(DefaultMaxChars).
			WithCheck(positive),
		Regex: option.NewCode(OptRegex, "Regular expression", option.Expression,
			predicate.RegexCompiler{}, false),
		Expr: option.NewCode(OptExpr, "Line expression", option.Expression,
			predicate.ExprCompiler{Var: LineVar}, false),
		Func: option.NewCode(OptFunc, "Function with signature: function (line) -> bool", option.Callable,
			predicate.ScriptCompiler{}, false).WithProposal(FuncProposal),
	}
	c.InputFormat.SetRequired(true)
	c.OutputFormat.SetRequired(true)

	regex := pattern{c.Regex}
	c.Add(c.MaxChars, regex, c.Expr, c.Func)

	c.AddRules(
		datafilter.RequireFormatType(format.TypeText, c.InputFormat),
		datafilter.AllowOnlyParams(c.InputFormat, format.ParamCharset, format.ParamErrors),
		datafilter.RequireFormatType(format.TypeText, c.OutputFormat),
		datafilter.AllowOnlyParams(c.OutputFormat, format.ParamCharset, format.ParamErrors),
		datafilter.ExactlyOne(regex, c.Expr, c.Func),
		datafilter.MustCompile(c.Regex, c.Expr, c.Func),
	)
	return c
}

// Predicate returns the compiled line predicate of whichever option is set
func (c *Config) Predicate() (predicate.Predicate, error) {
	for _, code := range []*option.Code{c.Regex, c.Expr, c.Func} {
		if code.HasValue() {
			return code.Compiled()
		}
	}
	return nil, nil
}

func positive(n int) error {
	if n <= 0 {
		return fmt.Errorf("must be positive, got %d", n)
	}
	return nil
}
