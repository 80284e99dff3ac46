package component

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// LogLevel represents the severity level of a log entry
type LogLevel string

const (
	// LogLevelDebug represents debug-level logs
	LogLevelDebug LogLevel = "DEBUG"
	// LogLevelInfo represents informational logs
	LogLevelInfo LogLevel = "INFO"
	// LogLevelWarn represents warning logs
	LogLevelWarn LogLevel = "WARN"
	// LogLevelError represents error logs
	LogLevelError LogLevel = "ERROR"
)

// LogSubjectPrefix is the first token of every published log subject
const LogSubjectPrefix = "logs"

// Publisher is the remote log sink. *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// LogEntry is the JSON document published for every log call
type LogEntry struct {
	Timestamp string         `json:"timestamp"` // RFC3339 format
	Level     LogLevel       `json:"level"`
	Service   string         `json:"service"`
	Instance  string         `json:"instance"`
	Message   string         `json:"message"`
	Error     string         `json:"error,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Logger writes to a local slog.Logger and, when a publisher is present,
// publishes the same entry on logs.<service>.<instance>
type Logger struct {
	service   string
	instance  string
	publisher Publisher
	logger    *slog.Logger
}

// NewLogger creates a component logger. A nil publisher disables remote publishing.
func NewLogger(service, instance string, publisher Publisher, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{
		service:   service,
		instance:  instance,
		publisher: publisher,
		logger:    logger.With("component", instance, "service", service),
	}
}

// Subject returns the subject log entries are published on
func (cl *Logger) Subject() string {
	return fmt.Sprintf("%s.%s.%s", LogSubjectPrefix, cl.service, cl.instance)
}

// Slog returns the local logger carrying the component attributes
func (cl *Logger) Slog() *slog.Logger {
	return cl.logger
}

// Debug logs a debug-level message
func (cl *Logger) Debug(msg string, args ...any) {
	cl.DebugContext(context.Background(), msg, args...)
}

// Info logs an info-level message
func (cl *Logger) Info(msg string, args ...any) {
	cl.InfoContext(context.Background(), msg, args...)
}

// Warn logs a warning-level message
func (cl *Logger) Warn(msg string, args ...any) {
	cl.WarnContext(context.Background(), msg, args...)
}

// Error logs an error-level message with optional error details
func (cl *Logger) Error(msg string, err error, args ...any) {
	cl.ErrorContext(context.Background(), msg, err, args...)
}

// DebugContext logs a debug-level message with context
func (cl *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	cl.logger.DebugContext(ctx, msg, args...)
	cl.publish(ctx, LogLevelDebug, msg, nil, args)
}

// InfoContext logs an info-level message with context
func (cl *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	cl.logger.InfoContext(ctx, msg, args...)
	cl.publish(ctx, LogLevelInfo, msg, nil, args)
}

// WarnContext logs a warning-level message with context
func (cl *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	cl.logger.WarnContext(ctx, msg, args...)
	cl.publish(ctx, LogLevelWarn, msg, nil, args)
}

// ErrorContext logs an error-level message with optional error details and context
func (cl *Logger) ErrorContext(ctx context.Context, msg string, err error, args ...any) {
	cl.logger.ErrorContext(ctx, msg, append(args, "error", err)...)
	cl.publish(ctx, LogLevelError, msg, err, args)
}

func (cl *Logger) publish(ctx context.Context, level LogLevel, msg string, err error, args []any) {
	if cl.publisher == nil {
		return
	}

	select {
	case <-ctx.Done():
		return
	default:
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Service:   cl.service,
		Instance:  cl.instance,
		Message:   msg,
		Attrs:     attrs(args),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, mErr := json.Marshal(entry)
	if mErr != nil {
		cl.logger.Error("Failed to marshal log entry", "error", mErr)
		return
	}

	subject := cl.Subject()
	if pErr := cl.publisher.Publish(subject, data); pErr != nil {
		cl.logger.Error("Failed to publish log entry", "error", pErr, "subject", subject)
	}
}

// attrs folds slog-style key/value pairs into a map. A trailing key without
// a value is kept under "!BADKEY" like slog does.
func attrs(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]any, len(args)/2+1)
	for i := 0; i < len(args); i++ {
		if a, ok := args[i].(slog.Attr); ok {
			out[a.Key] = a.Value.Any()
			continue
		}
		key, ok := args[i].(string)
		if !ok || i+1 >= len(args) {
			out["!BADKEY"] = args[i]
			continue
		}
		out[key] = fmt.Sprint(args[i+1])
		i++
	}
	return out
}
