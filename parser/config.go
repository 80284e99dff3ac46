// Package parser provides configurations and descriptors for data filters
// that turn plain text into records of one fixed schema: the Firebird trace
// and log parsers.
//
// Only descriptors live here. The parsing itself is supplied by the host,
// which binds a factory to TraceFactoryRef or LogFactoryRef before creating
// parser components.
package parser

import (
	"github.com/c360/semfilter/datafilter"
	"github.com/c360/semfilter/format"
)

// Record schemas produced by the parsers
const (
	TraceSchema = "saturnin.core.protobuf.fbtrace.TraceEntry"
	LogSchema   = "saturnin.core.protobuf.fblog.LogEntry"
)

// DefaultInputFormat is the preset input format of every parser
var DefaultInputFormat = format.New(format.TypeText, format.Param{Key: format.ParamCharset, Value: "utf-8"})

// SchemaFormat returns the record format carrying the given schema
func SchemaFormat(schema string) format.Format {
	return format.New(format.TypeRecord, format.Param{Key: format.ParamType, Value: schema})
}

// Config is a parser configuration bound to one output schema. Both
// formats are required and preset, so a fresh configuration is valid.
type Config struct {
	*datafilter.Config

	schema string
}

// NewConfig creates a parser configuration for the given output schema
func NewConfig(name, description, schema string) *Config {
	c := &Config{
		Config: datafilter.NewConfig(name, description),
		schema: schema,
	}

	c.InputFormat.SetRequired(true)
	c.InputFormat.SetDefault(DefaultInputFormat)
	c.InputFormat.Set(DefaultInputFormat)

	out := SchemaFormat(schema)
	c.OutputFormat.SetRequired(true)
	c.OutputFormat.SetDefault(out)
	c.OutputFormat.Set(out)

	c.AddRules(
		datafilter.RequireFormatType(format.TypeText, c.InputFormat),
		datafilter.AllowOnlyParams(c.InputFormat, format.ParamCharset, format.ParamErrors),
		datafilter.RequireFormatType(format.TypeRecord, c.OutputFormat),
		datafilter.RequireParamValue(format.ParamType, schema, c.OutputFormat),
	)
	return c
}

// NewTraceConfig creates a Firebird trace parser configuration
func NewTraceConfig(name string) *Config {
	return NewConfig(name, "Firebird trace parser configuration", TraceSchema)
}

// NewLogConfig creates a Firebird log parser configuration
func NewLogConfig(name string) *Config {
	return NewConfig(name, "Firebird log parser configuration", LogSchema)
}

// Schema returns the output record schema
func (c *Config) Schema() string {
	return c.schema
}

// Charset returns the input charset parameter, or "" when absent
func (c *Config) Charset() string {
	v, _ := c.InputFormat.Param(format.ParamCharset)
	return v
}
