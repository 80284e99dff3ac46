// Package datafilter provides the base configuration shared by data-filter
// components (one input pipe, one output pipe) and reusable validation rules
// for format and predicate options.
package datafilter

import (
	"fmt"

	"github.com/c360/semfilter/config"
	"github.com/c360/semfilter/option"
)

// Pipe socket modes
const (
	ModeBind    = "bind"
	ModeConnect = "connect"
)

// Option names
const (
	OptInputPipe             = "input_pipe"
	OptInputPipeAddress      = "input_pipe_address"
	OptInputPipeMode         = "input_pipe_mode"
	OptInputFormat           = "input_format"
	OptOutputPipe            = "output_pipe"
	OptOutputPipeAddress     = "output_pipe_address"
	OptOutputPipeMode        = "output_pipe_mode"
	OptOutputFormat          = "output_format"
	OptBatchSize             = "batch_size"
	OptReadyScheduleInterval = "ready_schedule_interval"
	OptStopOnClose           = "stop_on_close"
)

// Defaults
const (
	DefaultBatchSize             = 50
	DefaultReadyScheduleInterval = 1000 // milliseconds
)

// Config is the base data-filter configuration. Pipe endpoints are
// optional so that a host may wire pipes itself; formats are optional here
// and made required by concrete kinds that need them.
type Config struct {
	*config.Config

	InputPipe         *option.Value[string]
	InputPipeAddress  *option.Value[string]
	InputPipeMode     *option.Value[string]
	InputFormat       *option.Format
	OutputPipe        *option.Value[string]
	OutputPipeAddress *option.Value[string]
	OutputPipeMode    *option.Value[string]
	OutputFormat      *option.Format

	BatchSize             *option.Value[int]
	ReadyScheduleInterval *option.Value[int]
	StopOnClose           *option.Value[bool]
}

// NewConfig creates the base configuration with all pipe options registered
func NewConfig(name, description string) *Config {
	c := &Config{
		Config: config.New(name, description),

		InputPipe:        option.NewString(OptInputPipe, "Data Pipe Identification", false),
		InputPipeAddress: option.NewString(OptInputPipeAddress, "Data Pipe endpoint address", false),
		InputPipeMode: option.NewEnum(OptInputPipeMode, "Data Pipe Mode", false, ModeBind, ModeConnect).
			WithDefault(ModeConnect),
		InputFormat: option.NewFormat(OptInputFormat, "Pipe data format specification", false),

		OutputPipe:        option.NewString(OptOutputPipe, "Data Pipe Identification", false),
		OutputPipeAddress: option.NewString(OptOutputPipeAddress, "Data Pipe endpoint address", false),
		OutputPipeMode: option.NewEnum(OptOutputPipeMode, "Data Pipe Mode", false, ModeBind, ModeConnect).
			WithDefault(ModeConnect),
		OutputFormat: option.NewFormat(OptOutputFormat, "Pipe data format specification", false),

		BatchSize: option.NewInt(OptBatchSize, "Data batch size", true).
			WithDefault(DefaultBatchSize).
			WithCheck(positive),
		ReadyScheduleInterval: option.NewInt(OptReadyScheduleInterval,
			"READY message schedule interval in milliseconds", true).
			WithDefault(DefaultReadyScheduleInterval).
			WithCheck(positive),
		StopOnClose: option.NewBool(OptStopOnClose, "Stop service when pipe is closed", true).
			WithDefault(true),
	}
	c.Add(
		c.InputPipe, c.InputPipeAddress, c.InputPipeMode, c.InputFormat,
		c.OutputPipe, c.OutputPipeAddress, c.OutputPipeMode, c.OutputFormat,
		c.BatchSize, c.ReadyScheduleInterval, c.StopOnClose,
	)
	return c
}

// Formats returns the input and output format options, in that order
func (c *Config) Formats() []*option.Format {
	return []*option.Format{c.InputFormat, c.OutputFormat}
}

func positive(n int) error {
	if n <= 0 {
		return fmt.Errorf("must be positive, got %d", n)
	}
	return nil
}
