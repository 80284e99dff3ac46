package filter

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360/semfilter/component"
	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/format"
	"github.com/c360/semfilter/predicate"
)

// Filter passes or drops typed records with the configured predicates. A
// record passes when the inclusion predicate (if any) is true and the
// exclusion predicate (if any) is false.
type Filter struct {
	name       string
	recordType string
	batchSize  int
	include    predicate.Predicate
	exclude    predicate.Predicate
	logger     *component.Logger

	startTime time.Time
	mu        sync.RWMutex
	lastError string

	// Atomic counters for DataFlow
	evaluated    atomic.Int64
	passed       atomic.Int64
	dropped      atomic.Int64
	errorCount   atomic.Int64
	lastActivity atomic.Int64 // unix nanoseconds

	// Prometheus metrics
	metrics *filterMetrics
}

// New creates a filter from a validated configuration
func New(cfg *Config, deps component.Dependencies) (*Filter, error) {
	if cfg == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Filter", "New", "config validation")
	}
	if !cfg.Validated() {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: config '%s' is not validated", errors.ErrInvalidConfig, cfg.Name()),
			"Filter", "New", "config state check")
	}

	include, err := cfg.Include()
	if err != nil {
		return nil, errors.WrapInvalid(err, "Filter", "New", "include predicate")
	}
	exclude, err := cfg.Exclude()
	if err != nil {
		return nil, errors.WrapInvalid(err, "Filter", "New", "exclude predicate")
	}
	batchSize, err := cfg.BatchSize.Get()
	if err != nil {
		return nil, errors.WrapInvalid(err, "Filter", "New", "batch size")
	}

	logger := deps.ComponentLogger(Descriptor.Name(), cfg.Name())

	metrics, err := newFilterMetrics(deps.MetricsRegistry, cfg.Name())
	if err != nil {
		logger.Error("Failed to initialize filter metrics", err)
		metrics = nil // Continue without metrics
	}

	f := &Filter{
		name:       cfg.Name(),
		recordType: cfg.RecordType(),
		batchSize:  batchSize,
		include:    include,
		exclude:    exclude,
		logger:     logger,
		startTime:  time.Now(),
		metrics:    metrics,
	}

	logger.Info("Filter created",
		"record_type", f.recordType,
		"include", include != nil,
		"exclude", exclude != nil,
		"batch_size", batchSize)
	return f, nil
}

// RecordType returns the schema name of the records this filter accepts
func (f *Filter) RecordType() string {
	return f.recordType
}

// CheckFormat rejects a pipe format other than the configured record type
func (f *Filter) CheckFormat(fmtSpec format.Format) error {
	if fmtSpec.Type != format.TypeRecord {
		f.fail("format", fmt.Errorf("format type '%s' is not a valid input format", fmtSpec.Type))
		return errors.WrapInvalid(
			fmt.Errorf("%w: format type '%s'", errors.ErrUnsupportedFormat, fmtSpec.Type),
			"Filter", "CheckFormat", "format type check")
	}
	if got, _ := fmtSpec.Param(format.ParamType); got != f.recordType {
		f.fail("format", fmt.Errorf("record type '%s' not allowed", got))
		return errors.WrapInvalid(
			fmt.Errorf("%w: record type '%s'", errors.ErrUnsupportedFormat, got),
			"Filter", "CheckFormat", "record type check")
	}
	return nil
}

// Accept reports whether the record passes. A predicate failure drops the
// record and returns an error wrapping ErrEvaluationFailed.
func (f *Filter) Accept(record any) (bool, error) {
	f.evaluated.Add(1)
	f.lastActivity.Store(time.Now().UnixNano())

	start := time.Now()
	passed, err := f.evaluate(record)
	duration := time.Since(start)

	if err != nil {
		f.dropped.Add(1)
		f.fail("evaluation", err)
		return false, errors.Wrap(fmt.Errorf("%w: %w", errors.ErrEvaluationFailed, err),
			"Filter", "Accept", "predicate evaluation")
	}

	f.metrics.recordEvaluation(passed, duration)
	if passed {
		f.passed.Add(1)
	} else {
		f.dropped.Add(1)
	}

	// Update pass rate periodically (every 100 records)
	if total := f.evaluated.Load(); total%100 == 0 {
		f.metrics.updatePassRate(f.passed.Load(), total)
	}
	return passed, nil
}

func (f *Filter) evaluate(record any) (bool, error) {
	if f.include != nil {
		ok, err := f.include(record)
		if err != nil {
			return false, fmt.Errorf("include: %w", err)
		}
		if !ok {
			return false, nil
		}
	}
	if f.exclude != nil {
		ok, err := f.exclude(record)
		if err != nil {
			return false, fmt.Errorf("exclude: %w", err)
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}

// Apply filters records in batches of the configured batch size and returns
// the records that pass, in input order. Records whose evaluation fails are
// dropped; the first such error is returned after all records are processed.
func (f *Filter) Apply(records []any) ([]any, error) {
	out := make([]any, 0, len(records))
	var firstErr error
	for start := 0; start < len(records); start += f.batchSize {
		end := min(start+f.batchSize, len(records))
		for _, record := range records[start:end] {
			ok, err := f.Accept(record)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if ok {
				out = append(out, record)
			}
		}
		f.logger.Debug("Batch filtered", "from", start, "to", end, "passed", len(out))
	}
	return out, firstErr
}

// Close releases the instance metrics
func (f *Filter) Close() {
	f.metrics.unregister()
}

func (f *Filter) fail(errorType string, err error) {
	f.errorCount.Add(1)
	f.metrics.recordError(errorType)
	f.mu.Lock()
	f.lastError = err.Error()
	f.mu.Unlock()
	f.logger.Debug("Filter error", "error_type", errorType, "error", err)
}

// Discoverable interface implementation

// Meta returns metadata describing this filter
func (f *Filter) Meta() component.Metadata {
	return component.Metadata{
		Name:        f.name,
		Type:        Descriptor.Type().String(),
		Description: Descriptor.Description(),
		Version:     Descriptor.Agent().Version,
	}
}

// Health returns the current health status of this filter
func (f *Filter) Health() component.HealthStatus {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return component.HealthStatus{
		Healthy:    true,
		LastCheck:  time.Now(),
		ErrorCount: int(f.errorCount.Load()),
		LastError:  f.lastError,
		Uptime:     time.Since(f.startTime),
	}
}

// DataFlow returns current data flow metrics for this filter
func (f *Filter) DataFlow() component.FlowMetrics {
	evaluated := f.evaluated.Load()
	errorCount := f.errorCount.Load()

	var errorRate float64
	if evaluated > 0 {
		errorRate = float64(errorCount) / float64(evaluated)
	}

	var last time.Time
	if ns := f.lastActivity.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}

	return component.FlowMetrics{
		RecordsEvaluated: evaluated,
		RecordsPassed:    f.passed.Load(),
		RecordsDropped:   f.dropped.Load(),
		ErrorRate:        errorRate,
		LastActivity:     last,
	}
}
