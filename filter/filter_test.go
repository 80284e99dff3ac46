package filter

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfilter/component"
	"github.com/c360/semfilter/config"
	"github.com/c360/semfilter/datafilter"
	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/format"
	"github.com/c360/semfilter/metric"
)

func newFilter(t *testing.T, name string, predicates map[string]string, deps component.Dependencies) *Filter {
	t.Helper()
	c := NewConfig(name)
	require.NoError(t, c.Set(datafilter.OptInputFormat, recordA))
	require.NoError(t, c.Set(datafilter.OptOutputFormat, recordA))
	for opt, src := range predicates {
		require.NoError(t, c.Set(opt, src))
	}
	require.NoError(t, c.Validate())

	f, err := New(c, deps)
	require.NoError(t, err)
	return f
}

func rec(level int, source string) map[string]any {
	return map[string]any{"level": level, "source": source}
}

func TestFilter_Accept(t *testing.T) {
	tests := []struct {
		name       string
		predicates map[string]string
		record     map[string]any
		want       bool
	}{
		{"include true", map[string]string{OptIncludeExpr: "data.level >= 3"}, rec(5, "prod"), true},
		{"include false", map[string]string{OptIncludeExpr: "data.level >= 3"}, rec(1, "prod"), false},
		{"exclude true", map[string]string{OptExcludeExpr: "data.level >= 3"}, rec(5, "prod"), false},
		{"exclude false", map[string]string{OptExcludeExpr: "data.level >= 3"}, rec(1, "prod"), true},
		{"both pass", map[string]string{
			OptIncludeExpr: "data.level >= 3", OptExcludeExpr: `data.source == "test"`,
		}, rec(5, "prod"), true},
		{"both excluded", map[string]string{
			OptIncludeExpr: "data.level >= 3", OptExcludeExpr: `data.source == "test"`,
		}, rec(5, "test"), false},
		{"both not included", map[string]string{
			OptIncludeExpr: "data.level >= 3", OptExcludeExpr: `data.source == "test"`,
		}, rec(1, "prod"), false},
		{"include func", map[string]string{
			OptIncludeFunc: "function (data) { return data.level >= 3; }",
		}, rec(4, "prod"), true},
		{"exclude arrow func", map[string]string{
			OptExcludeFunc: `data => data.source === "test"`,
		}, rec(4, "test"), false},
		{"mixed variants", map[string]string{
			OptIncludeFunc: "function (data) { return data.level > 0; }",
			OptExcludeExpr: `data.source == "test"`,
		}, rec(2, "prod"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFilter(t, "test_filter", tt.predicates, component.Dependencies{})
			got, err := f.Accept(tt.record)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_AcceptEvaluationError(t *testing.T) {
	// a non-boolean result is an evaluation failure
	f := newFilter(t, "test_filter", map[string]string{OptIncludeExpr: "data.level"}, component.Dependencies{})

	ok, err := f.Accept(rec(3, "prod"))
	assert.False(t, ok)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrEvaluationFailed)

	flow := f.DataFlow()
	assert.Equal(t, int64(1), flow.RecordsEvaluated)
	assert.Equal(t, int64(1), flow.RecordsDropped)
	assert.Equal(t, 1.0, flow.ErrorRate)

	health := f.Health()
	assert.Equal(t, 1, health.ErrorCount)
	assert.Contains(t, health.LastError, "include")
}

func TestFilter_Apply(t *testing.T) {
	c := NewConfig("batch_filter")
	require.NoError(t, c.Set(datafilter.OptInputFormat, recordA))
	require.NoError(t, c.Set(datafilter.OptOutputFormat, recordA))
	require.NoError(t, c.Set(OptIncludeExpr, "data.level >= 3"))
	require.NoError(t, c.Set(datafilter.OptBatchSize, 2))
	require.NoError(t, c.Validate())
	f, err := New(c, component.Dependencies{})
	require.NoError(t, err)

	records := []any{rec(1, "a"), rec(3, "b"), rec(5, "c"), rec(0, "d"), rec(9, "e")}
	out, err := f.Apply(records)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "b", out[0].(map[string]any)["source"])
	assert.Equal(t, "c", out[1].(map[string]any)["source"])
	assert.Equal(t, "e", out[2].(map[string]any)["source"])

	flow := f.DataFlow()
	assert.Equal(t, int64(5), flow.RecordsEvaluated)
	assert.Equal(t, int64(3), flow.RecordsPassed)
	assert.Equal(t, int64(2), flow.RecordsDropped)
	assert.False(t, flow.LastActivity.IsZero())
}

func TestFilter_ApplyKeepsGoingAfterError(t *testing.T) {
	f := newFilter(t, "test_filter", map[string]string{OptIncludeExpr: "data.level > 2"}, component.Dependencies{})

	// the middle record has no comparable level and fails evaluation
	out, err := f.Apply([]any{rec(3, "a"), map[string]any{"level": "x"}, rec(4, "c")})
	require.Error(t, err)
	assert.Len(t, out, 2)
}

func TestFilter_CheckFormat(t *testing.T) {
	f := newFilter(t, "test_filter", map[string]string{OptIncludeExpr: "true"}, component.Dependencies{})
	assert.Equal(t, "A", f.RecordType())

	assert.NoError(t, f.CheckFormat(format.MustParse(recordA)))

	err := f.CheckFormat(format.MustParse("text/plain;charset=utf-8"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
	assert.True(t, errors.IsInvalid(err))

	err = f.CheckFormat(format.MustParse(recordB))
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)

	assert.Equal(t, 2, f.Health().ErrorCount)
}

func TestNew_RequiresValidatedConfig(t *testing.T) {
	c := NewConfig("test_filter")
	_, err := New(c, component.Dependencies{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)

	_, err = New(nil, component.Dependencies{})
	assert.ErrorIs(t, err, errors.ErrMissingConfig)
}

func TestFilter_Metrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	deps := component.Dependencies{MetricsRegistry: registry}

	f1 := newFilter(t, "filter_one", map[string]string{OptIncludeExpr: "data.level >= 3"}, deps)
	f2 := newFilter(t, "filter_two", map[string]string{OptIncludeExpr: "data.level >= 3"}, deps)
	require.NotNil(t, f1.metrics)
	require.NotNil(t, f2.metrics)

	_, _ = f1.Accept(rec(5, "a"))
	_, _ = f1.Accept(rec(1, "a"))
	_, _ = f2.Accept(rec(5, "a"))

	assert.Equal(t, 1.0, testutil.ToFloat64(f1.metrics.records.WithLabelValues("passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f1.metrics.records.WithLabelValues("dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f2.metrics.records.WithLabelValues("passed")))

	// same instance name conflicts; the filter still works without metrics
	f3 := newFilter(t, "filter_one", map[string]string{OptIncludeExpr: "true"}, deps)
	assert.Nil(t, f3.metrics)
	ok, err := f3.Accept(rec(1, "a"))
	require.NoError(t, err)
	assert.True(t, ok)

	f1.Close()
	f4 := newFilter(t, "filter_one", map[string]string{OptIncludeExpr: "true"}, deps)
	assert.NotNil(t, f4.metrics)
}

func TestFilter_Meta(t *testing.T) {
	f := newFilter(t, "test_filter", map[string]string{OptIncludeExpr: "true"}, component.Dependencies{})
	meta := f.Meta()
	assert.Equal(t, "test_filter", meta.Name)
	assert.Equal(t, "data_filter", meta.Type)
	assert.Equal(t, Version, meta.Version)
	assert.True(t, f.Health().Healthy)
}

func TestDescriptor(t *testing.T) {
	agent := Descriptor.Agent()
	assert.Equal(t, "3b210c54-5b80-5c04-b88c-4cfe4b04a6a7", Descriptor.UID().String())
	assert.Equal(t, "saturnin.proto.filter", agent.Name)
	assert.Equal(t, "0.2.0", agent.Version)
	assert.Equal(t, "proto/filter", agent.Classification)
	assert.Equal(t, FactoryRef, Descriptor.FactoryRef())
	assert.Equal(t, "saturnin.proto.filter_service", Descriptor.Config().DefaultName())

	cfg := Descriptor.Config().New()
	_, ok := cfg.(*Config)
	assert.True(t, ok)
	assert.False(t, cfg.Validated())
}

func TestFactory_WrongConfigType(t *testing.T) {
	_, err := Factory(config.New("other", ""), component.Dependencies{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestRegister_CreateComponent(t *testing.T) {
	registry := component.NewRegistry()
	require.NoError(t, Register(registry))
	assert.ErrorIs(t, Register(registry), errors.ErrAlreadyRegistered)

	cfg, err := registry.NewConfig(Descriptor.UID())
	require.NoError(t, err)
	loader := config.NewLoader(nil)
	require.NoError(t, loader.Load(cfg, map[string]any{
		"input_format":  recordA,
		"output_format": recordA,
		"include_func":  "function (data) { return data.level >= 3; }",
	}))

	comp, err := registry.CreateComponent("filter-1", Descriptor.UID(), cfg, component.Dependencies{})
	require.NoError(t, err)

	f, ok := comp.(*Filter)
	require.True(t, ok)
	passed, err := f.Accept(rec(3, "x"))
	require.NoError(t, err)
	assert.True(t, passed)
}

func TestRegister_InvalidConfigRejected(t *testing.T) {
	registry := component.NewRegistry()
	require.NoError(t, Register(registry))

	cfg, err := registry.NewConfig(Descriptor.UID())
	require.NoError(t, err)
	require.NoError(t, cfg.Base().Set("input_format", recordA))
	require.NoError(t, cfg.Base().Set("output_format", recordA))

	_, err = registry.CreateComponent("filter-1", Descriptor.UID(), cfg, component.Dependencies{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoPredicateDefined)
	assert.True(t, errors.IsInvalid(err))
}
