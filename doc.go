// Package semfilter provides configurable data filter services for Butler
// pipelines: components with one input and one output pipe that pass or
// drop data according to operator-supplied predicates.
//
// # Services
//
// Three kinds of service are built in:
//
//   - saturnin.proto.filter: passes typed records when an inclusion
//     predicate holds and an exclusion predicate does not
//   - saturnin.text.linefilter: passes lines of plain text matching a
//     regular expression, an expression or a script function
//   - saturnin.firebird.trace.parser and saturnin.firebird.log.parser:
//     descriptors and configurations for parsers turning text into
//     records; the host binds the parsing factories
//
// Every service is published as a ServiceDescriptor whose agent uid is a
// name-based UUID (version 5) of its OID.
//
// # Architecture
//
//	option/      typed configuration leaves (values, formats, code)
//	config/      option containers, rules, loaders, KV source, host document
//	datafilter/  base data filter configuration and reusable rules
//	predicate/   expr-lang, goja and regex predicate compilers
//	service/     agent and service descriptors
//	component/   registry of descriptors, factories and instances
//	filter/      typed record filter
//	linefilter/  text line filter
//	parser/      parser descriptors
//	health/      instance health reports
//	metric/      Prometheus registry and metrics server
//	errors/      classified errors and configuration error kinds
//
// # Configuration
//
// A component configuration is validated in two stages: each option checks
// its own value, then the configuration rules run in registration order and
// the first failure is returned. The error is a ConfigError carrying a Kind
// and the names of the options involved. A configuration that validated
// successfully is sealed.
//
// Option values come from the host document, then an optional NATS KV
// bucket, then environment variables:
//
//	components:
//	  errors-only:
//	    service: saturnin.proto.filter
//	    enabled: true
//	    config:
//	      input_format: application/x.fb.proto;type=LogEntry
//	      output_format: application/x.fb.proto;type=LogEntry
//	      include_expr: data.level >= 4
//
// # Running
//
//	semfilter --list
//	semfilter --describe saturnin.text.linefilter
//	semfilter --config host.yaml --validate
//	semfilter --config host.yaml --metrics-port 9090
package semfilter
