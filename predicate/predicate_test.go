package predicate

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprCompiler(t *testing.T) {
	record := map[string]any{"level": 4, "name": "fb"}

	tests := []struct {
		name       string
		source     string
		want       bool
		compileErr bool
		runErr     bool
	}{
		{"comparison true", "data.level >= 3", true, false, false},
		{"comparison false", "data.level < 3", false, false, false},
		{"string match", `data.name == "fb"`, true, false, false},
		{"syntax error", "data.level >=", false, true, false},
		{"empty", "   ", false, true, false},
		{"non boolean field", "data.level + 1", false, false, true},
		{"non boolean constant", "1 + 2", false, true, false},
		{"string constant", `"yes"`, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ExprCompiler{}.Compile("include_expr", tt.source)
			if tt.compileErr {
				var ce *CompileError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, "include_expr", ce.Name)
				return
			}
			require.NoError(t, err)

			got, err := p(record)
			if tt.runErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScriptCompiler(t *testing.T) {
	record := map[string]any{"level": 4}

	tests := []struct {
		name       string
		source     string
		want       bool
		compileErr bool
	}{
		{"function expression", "function (data) { return data.level > 3 }", true, false},
		{"arrow function", "data => data.level > 10", false, false},
		{"truthy result", "function (data) { return data.level }", true, false},
		{"syntax error", "function (data) { return ", false, true},
		{"not a function", "42", false, true},
		{"call breaking out of the literal", "function(){ while(true){} })(", false, true},
		{"sequence breaking out of the literal", "function(){})(), (function(){}", false, true},
		{"async arrow", "async data => true", false, true},
		{"generator", "function* (data) { yield true }", false, true},
		{"empty", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ScriptCompiler{}.Compile("include_func", tt.source)
			if tt.compileErr {
				var ce *CompileError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, "include_func", ce.Name)
				return
			}
			require.NoError(t, err)
			got, err := p(record)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScriptCompiler_ThrowIsError(t *testing.T) {
	p, err := ScriptCompiler{}.Compile("exclude_func", `function (data) { throw new Error("boom") }`)
	require.NoError(t, err)
	_, err = p(map[string]any{})
	assert.Error(t, err)
}

func TestScriptCompiler_CompileDoesNotRunSource(t *testing.T) {
	done := make(chan error, 1)
	go func() {
		_, err := ScriptCompiler{Timeout: 50 * time.Millisecond}.Compile("include_func",
			"function(){ while(true){} })(")
		done <- err
	}()

	select {
	case err := <-done:
		var ce *CompileError
		assert.ErrorAs(t, err, &ce)
	case <-time.After(3 * time.Second):
		t.Fatal("Compile did not return")
	}
}

func TestScriptCompiler_CallTimesOut(t *testing.T) {
	p, err := ScriptCompiler{Timeout: 50 * time.Millisecond}.Compile("include_func",
		"function (data) { if (data.spin) { while (true) {} } return true }")
	require.NoError(t, err)

	start := time.Now()
	_, err = p(map[string]any{"spin": true})
	assert.ErrorIs(t, err, ErrScriptTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)

	// the runtime stays usable after an interrupt
	got, err := p(map[string]any{"spin": false})
	require.NoError(t, err)
	assert.True(t, got)
}

func TestScriptCompiler_ConcurrentCalls(t *testing.T) {
	p, err := ScriptCompiler{}.Compile("include_func", "data => data.n % 2 === 0")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			got, err := p(map[string]any{"n": n})
			assert.NoError(t, err)
			assert.Equal(t, n%2 == 0, got)
		}(i)
	}
	wg.Wait()
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	isEven := func(record any) (bool, error) {
		n, ok := record.(int)
		if !ok {
			return false, errors.New("not an int")
		}
		return n%2 == 0, nil
	}
	require.NoError(t, c.Register("even", isEven))
	assert.Error(t, c.Register("even", isEven))
	assert.Error(t, c.Register("nil", nil))
	assert.Equal(t, []string{"even"}, c.Keys())

	p, err := c.Compile("include_func", "even")
	require.NoError(t, err)
	ok, err := p(4)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = c.Compile("include_func", "odd")
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "odd", ce.Source)
}

func TestCompilerFunc(t *testing.T) {
	var called string
	c := CompilerFunc(func(name, source string) (Predicate, error) {
		called = name + ":" + source
		return func(any) (bool, error) { return true, nil }, nil
	})
	_, err := c.Compile("x", "y")
	require.NoError(t, err)
	assert.Equal(t, "x:y", called)
}

func TestExprCompiler_CustomVar(t *testing.T) {
	p, err := ExprCompiler{Var: "line"}.Compile("expr", `line contains "ERROR"`)
	require.NoError(t, err)

	ok, err := p("2024-01-01 ERROR disk full")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p("2024-01-01 INFO started")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegexCompiler(t *testing.T) {
	p, err := RegexCompiler{}.Compile("regex", `^\d{4}-\d{2}`)
	require.NoError(t, err)

	ok, err := p("2024-01 message")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p([]byte("no date"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p(42)
	assert.Error(t, err)

	_, err = RegexCompiler{}.Compile("regex", `([a-z`)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "regex", compileErr.Name)
}
