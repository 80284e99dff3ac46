package filter

import (
	"github.com/c360/semfilter/datafilter"
	"github.com/c360/semfilter/format"
	"github.com/c360/semfilter/option"
	"github.com/c360/semfilter/predicate"
)

// Option names
const (
	OptIncludeExpr = "include_expr"
	OptIncludeFunc = "include_func"
	OptExcludeExpr = "exclude_expr"
	OptExcludeFunc = "exclude_func"
)

// FuncProposal is the template shown for the callable options
const FuncProposal = "function (data) {\n  return true;\n}"

// Config is the typed-record filter configuration
type Config struct {
	*datafilter.Config

	IncludeExpr *option.Code
	IncludeFunc *option.Code
	ExcludeExpr *option.Code
	ExcludeFunc *option.Code
}

// NewConfig creates a filter configuration whose expression options compile
// with expr and whose callable options compile as JavaScript functions
func NewConfig(name string) *Config {
	return NewConfigWith(name, predicate.ExprCompiler{}, predicate.ScriptCompiler{})
}

// NewConfigWith creates a filter configuration with explicit predicate compilers
func NewConfigWith(name string, exprCompiler, funcCompiler predicate.Compiler) *Config {
	c := &Config{
		Config: datafilter.NewConfig(name, "Data filter configuration"),

		IncludeExpr: option.NewCode(OptIncludeExpr, "Data inclusion expression",
			option.Expression, exprCompiler, false),
		IncludeFunc: option.NewCode(OptIncludeFunc, "Data inclusion function",
			option.Callable, funcCompiler, false).WithProposal(FuncProposal),
		ExcludeExpr: option.NewCode(OptExcludeExpr, "Data exclusion expression",
			option.Expression, exprCompiler, false),
		ExcludeFunc: option.NewCode(OptExcludeFunc, "Data exclusion function",
			option.Callable, funcCompiler, false).WithProposal(FuncProposal),
	}
	c.InputFormat.SetRequired(true)
	c.OutputFormat.SetRequired(true)
	c.Add(c.IncludeExpr, c.IncludeFunc, c.ExcludeExpr, c.ExcludeFunc)

	c.AddRules(
		datafilter.RequireFormatType(format.TypeRecord, c.InputFormat, c.OutputFormat),
		datafilter.RequireParam(format.ParamType, c.InputFormat, c.OutputFormat),
		datafilter.RequireSameParam(format.ParamType, c.InputFormat, c.OutputFormat),
		datafilter.AtLeastOne(c.IncludeExpr, c.IncludeFunc, c.ExcludeExpr, c.ExcludeFunc),
		datafilter.MutuallyExclusive(c.IncludeExpr, c.IncludeFunc),
		datafilter.MutuallyExclusive(c.ExcludeExpr, c.ExcludeFunc),
		datafilter.MustCompile(c.IncludeExpr, c.IncludeFunc, c.ExcludeExpr, c.ExcludeFunc),
	)
	return c
}

// Include returns the compiled inclusion predicate, or nil when none is set
func (c *Config) Include() (predicate.Predicate, error) {
	return compiledOf(c.IncludeExpr, c.IncludeFunc)
}

// Exclude returns the compiled exclusion predicate, or nil when none is set
func (c *Config) Exclude() (predicate.Predicate, error) {
	return compiledOf(c.ExcludeExpr, c.ExcludeFunc)
}

// RecordType returns the schema name carried by the input format
func (c *Config) RecordType() string {
	v, _ := c.InputFormat.Param(format.ParamType)
	return v
}

func compiledOf(codes ...*option.Code) (predicate.Predicate, error) {
	for _, code := range codes {
		if code.HasValue() {
			return code.Compiled()
		}
	}
	return nil, nil
}
