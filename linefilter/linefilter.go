package linefilter

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/c360/semfilter/component"
	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/predicate"
)

// LineFilter passes text lines matching the configured predicate. Input
// arrives in arbitrary blocks; lines spanning blocks are reassembled and
// passing lines are regrouped into output blocks of at most maxChars
// characters.
//
// Write and Flush are not safe for concurrent use. The statistics are.
type LineFilter struct {
	name     string
	maxChars int
	match    predicate.Predicate
	logger   *component.Logger

	leftover string
	out      strings.Builder
	room     int

	startTime time.Time
	mu        sync.RWMutex
	lastError string

	evaluated    atomic.Int64
	passed       atomic.Int64
	dropped      atomic.Int64
	errorCount   atomic.Int64
	lastActivity atomic.Int64 // unix nanoseconds

	metrics *lineMetrics
}

// New creates a line filter from a validated configuration
func New(cfg *Config, deps component.Dependencies) (*LineFilter, error) {
	if cfg == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "LineFilter", "New", "config validation")
	}
	if !cfg.Validated() {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: config '%s' is not validated", errors.ErrInvalidConfig, cfg.Name()),
			"LineFilter", "New", "config state check")
	}

	match, err := cfg.Predicate()
	if err != nil {
		return nil, errors.WrapInvalid(err, "LineFilter", "New", "line predicate")
	}
	if match == nil {
		return nil, errors.WrapInvalid(errors.ErrNoPredicateDefined, "LineFilter", "New", "line predicate")
	}
	maxChars, err := cfg.MaxChars.Get()
	if err != nil {
		return nil, errors.WrapInvalid(err, "LineFilter", "New", "max chars")
	}

	logger := deps.ComponentLogger(Descriptor.Name(), cfg.Name())

	metrics, err := newLineMetrics(deps.MetricsRegistry, cfg.Name())
	if err != nil {
		logger.Error("Failed to initialize line filter metrics", err)
		metrics = nil
	}

	lf := &LineFilter{
		name:      cfg.Name(),
		maxChars:  maxChars,
		match:     match,
		logger:    logger,
		room:      maxChars,
		startTime: time.Now(),
		metrics:   metrics,
	}
	logger.Info("Line filter created", "max_chars", maxChars)
	return lf, nil
}

// Accept reports whether a single line passes. The line must not carry
// its terminator.
func (lf *LineFilter) Accept(line string) (bool, error) {
	lf.evaluated.Add(1)
	lf.lastActivity.Store(time.Now().UnixNano())

	ok, err := lf.match(line)
	if err != nil {
		lf.dropped.Add(1)
		lf.fail(err)
		return false, errors.Wrap(fmt.Errorf("%w: %w", errors.ErrEvaluationFailed, err),
			"LineFilter", "Accept", "line evaluation")
	}
	lf.metrics.recordLine(ok)
	if ok {
		lf.passed.Add(1)
	} else {
		lf.dropped.Add(1)
	}
	return ok, nil
}

// Write consumes one block of input text and returns the output blocks
// completed by it. A trailing line without terminator is held back until
// the next Write or Flush. Lines whose evaluation fails are dropped; the
// first such error is returned with the blocks.
func (lf *LineFilter) Write(block string) ([]string, error) {
	if block == "" {
		return nil, nil
	}
	if lf.leftover != "" {
		block = lf.leftover + block
		lf.leftover = ""
	}

	lines := strings.Split(block, "\n")
	// the last element is "" when the block ends with a terminator
	lf.leftover = lines[len(lines)-1]
	lines = lines[:len(lines)-1]

	var blocks []string
	var firstErr error
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		ok, err := lf.Accept(line)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			blocks = lf.emit(line+"\n", blocks)
		}
	}
	return blocks, firstErr
}

// Flush evaluates any held back line and returns the remaining output
// blocks. The result is empty when nothing is buffered.
func (lf *LineFilter) Flush() ([]string, error) {
	var blocks []string
	var err error
	if lf.leftover != "" {
		line := strings.TrimSuffix(lf.leftover, "\r")
		lf.leftover = ""
		var ok bool
		if ok, err = lf.Accept(line); err == nil && ok {
			blocks = lf.emit(line+"\n", blocks)
		}
	}
	if lf.out.Len() > 0 {
		blocks = append(blocks, lf.out.String())
		lf.metrics.recordBlock()
	}
	lf.out.Reset()
	lf.room = lf.maxChars
	return blocks, err
}

// emit appends text to the output buffer, splitting it at the block
// boundary, and returns blocks with every block filled by it.
func (lf *LineFilter) emit(text string, blocks []string) []string {
	for text != "" {
		n := utf8.RuneCountInString(text)
		if n <= lf.room {
			lf.out.WriteString(text)
			lf.room -= n
			return blocks
		}
		cut := byteOffset(text, lf.room)
		lf.out.WriteString(text[:cut])
		text = text[cut:]

		blocks = append(blocks, lf.out.String())
		lf.metrics.recordBlock()
		lf.out.Reset()
		lf.room = lf.maxChars
	}
	return blocks
}

// byteOffset returns the byte index of the n-th rune of s
func byteOffset(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}

// Close releases the instance metrics
func (lf *LineFilter) Close() {
	lf.metrics.unregister()
}

func (lf *LineFilter) fail(err error) {
	lf.errorCount.Add(1)
	lf.metrics.recordError()
	lf.mu.Lock()
	lf.lastError = err.Error()
	lf.mu.Unlock()
	lf.logger.Debug("Line evaluation failed", "error", err)
}

// Meta returns metadata describing this line filter
func (lf *LineFilter) Meta() component.Metadata {
	return component.Metadata{
		Name:        lf.name,
		Type:        Descriptor.Type().String(),
		Description: Descriptor.Description(),
		Version:     Descriptor.Agent().Version,
	}
}

// Health returns the current health status
func (lf *LineFilter) Health() component.HealthStatus {
	lf.mu.RLock()
	defer lf.mu.RUnlock()

	return component.HealthStatus{
		Healthy:    true,
		LastCheck:  time.Now(),
		ErrorCount: int(lf.errorCount.Load()),
		LastError:  lf.lastError,
		Uptime:     time.Since(lf.startTime),
	}
}

// DataFlow returns line counters
func (lf *LineFilter) DataFlow() component.FlowMetrics {
	evaluated := lf.evaluated.Load()
	var errorRate float64
	if evaluated > 0 {
		errorRate = float64(lf.errorCount.Load()) / float64(evaluated)
	}
	var last time.Time
	if ns := lf.lastActivity.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}
	return component.FlowMetrics{
		RecordsEvaluated: evaluated,
		RecordsPassed:    lf.passed.Load(),
		RecordsDropped:   lf.dropped.Load(),
		ErrorRate:        errorRate,
		LastActivity:     last,
	}
}
