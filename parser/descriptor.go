package parser

import (
	"github.com/c360/semfilter/component"
	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/service"
)

// Trace parser identity
const (
	TraceOID        = "1.3.6.1.4.1.53446.1.1.0.3.4.2.2"
	TraceName       = "saturnin.firebird.trace.parser"
	TraceVersion    = "0.1.1"
	TraceFactoryRef = "saturnin.firebird.trace.parser"
)

// Log parser identity
const (
	LogOID        = "1.3.6.1.4.1.53446.1.1.0.3.4.1.2"
	LogName       = "saturnin.firebird.log.parser"
	LogVersion    = "0.2.1"
	LogFactoryRef = "saturnin.firebird.log.parser"
)

// TraceDescriptor publishes the Firebird trace parser
var TraceDescriptor = service.MustServiceDescriptor(service.Definition{
	Agent:       service.NewAgentDescriptor(TraceOID, TraceName, TraceVersion, "firebird-trace/parser"),
	Type:        service.TypeDataFilter,
	Description: "Firebird trace parser",
	FactoryRef:  TraceFactoryRef,
	Config:      service.NewConfigFactory(NewTraceConfig, TraceName+"_service"),
})

// LogDescriptor publishes the Firebird log parser
var LogDescriptor = service.MustServiceDescriptor(service.Definition{
	Agent:       service.NewAgentDescriptor(LogOID, LogName, LogVersion, "firebird-log/parser"),
	Type:        service.TypeDataFilter,
	Description: "Firebird log parser",
	FactoryRef:  LogFactoryRef,
	Config:      service.NewConfigFactory(NewLogConfig, LogName+"_service"),
})

// Register publishes both parser descriptors. Factories are not bound.
func Register(registry *component.Registry) error {
	if err := registry.RegisterService(TraceDescriptor); err != nil {
		return errors.Wrap(err, "Parser", "Register", "trace parser descriptor")
	}
	if err := registry.RegisterService(LogDescriptor); err != nil {
		return errors.Wrap(err, "Parser", "Register", "log parser descriptor")
	}
	return nil
}
