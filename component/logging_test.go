package component

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	entries  []LogEntry
	err      error
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	var entry LogEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}
	p.subjects = append(p.subjects, subject)
	p.entries = append(p.entries, entry)
	return nil
}

func TestLogger_Subject(t *testing.T) {
	cl := NewLogger("saturnin.proto.filter", "filter-1", nil, nil)
	assert.Equal(t, "logs.saturnin.proto.filter.filter-1", cl.Subject())
}

func TestLogger_PublishesEntries(t *testing.T) {
	pub := &recordingPublisher{}
	var buf bytes.Buffer
	local := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cl := NewLogger("svc", "inst", pub, local)
	cl.Debug("debug message", "batch", 50)
	cl.Info("info message")
	cl.Warn("warn message")
	cl.Error("error message", errors.New("boom"))

	require.Len(t, pub.entries, 4)
	assert.Equal(t, LogLevelDebug, pub.entries[0].Level)
	assert.Equal(t, "50", pub.entries[0].Attrs["batch"])
	assert.Equal(t, LogLevelInfo, pub.entries[1].Level)
	assert.Equal(t, LogLevelWarn, pub.entries[2].Level)
	assert.Equal(t, LogLevelError, pub.entries[3].Level)
	assert.Equal(t, "boom", pub.entries[3].Error)

	for i, entry := range pub.entries {
		assert.Equal(t, "svc", entry.Service)
		assert.Equal(t, "inst", entry.Instance)
		assert.NotEmpty(t, entry.Timestamp)
		assert.Equal(t, "logs.svc.inst", pub.subjects[i])
	}

	out := buf.String()
	assert.Contains(t, out, "component=inst")
	assert.Contains(t, out, "error message")
	assert.Contains(t, out, "error=boom")
}

func TestLogger_NilPublisher(t *testing.T) {
	var buf bytes.Buffer
	cl := NewLogger("svc", "inst", nil, slog.New(slog.NewTextHandler(&buf, nil)))

	assert.NotPanics(t, func() {
		cl.Info("local only")
	})
	assert.Contains(t, buf.String(), "local only")
}

func TestLogger_PublishFailureIsLoggedLocally(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("connection closed")}
	var buf bytes.Buffer
	cl := NewLogger("svc", "inst", pub, slog.New(slog.NewTextHandler(&buf, nil)))

	cl.Info("hello")

	assert.Empty(t, pub.entries)
	assert.Contains(t, buf.String(), "Failed to publish log entry")
}

func TestAttrs(t *testing.T) {
	assert.Nil(t, attrs(nil))

	got := attrs([]any{"a", 1, slog.String("b", "x"), "dangling"})
	assert.Equal(t, "1", got["a"])
	assert.Equal(t, "x", got["b"])
	assert.Equal(t, "dangling", got["!BADKEY"])
}

func TestDependencies_Loggers(t *testing.T) {
	var deps Dependencies
	assert.Same(t, slog.Default(), deps.GetLogger())

	var buf bytes.Buffer
	deps.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	deps.GetLoggerWithComponent("filter-1").Info("ready")
	assert.Contains(t, buf.String(), "component=filter-1")

	pub := &recordingPublisher{}
	deps.LogPublisher = pub
	deps.ComponentLogger("saturnin.proto.filter", "filter-1").Info("started")
	require.Len(t, pub.subjects, 1)
	assert.Equal(t, "logs.saturnin.proto.filter.filter-1", pub.subjects[0])
}
