package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfilter/errors"
)

func TestLoader_Load(t *testing.T) {
	c := newLevelConfig("levels")
	l := NewLoader(nil)

	err := l.Load(c, map[string]any{
		"min":     float64(3),
		"mode":    "Bind",
		"unknown": "ignored",
	})
	require.NoError(t, err)

	got, _ := c.Min.Get()
	assert.Equal(t, 3, got)
	mode, _ := c.Mode.Get()
	assert.Equal(t, "bind", mode)
}

func TestLoader_LoadCoercionFailure(t *testing.T) {
	c := newLevelConfig("levels")
	err := NewLoader(nil).Load(c, map[string]any{"min": "three"})
	require.Error(t, err)
	kind, ok := errors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.KindInvalidOptionValue, kind)
}

func TestLoader_SecurityGate(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"null byte", map[string]any{"label": "a\x00b"}},
		{"control character", map[string]any{"label": "a\x07b"}},
		{"control character in key", map[string]any{"la\x01bel": "x"}},
		{"oversized string", map[string]any{"label": strings.Repeat("x", maxStringLen+1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newLevelConfig("levels")
			err := NewLoader(nil).Load(c, tt.values)
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err))
			assert.False(t, c.Label.IsSet())
		})
	}
}

func TestLoader_SecurityGateDepth(t *testing.T) {
	var nested any = "leaf"
	for i := 0; i < maxDepth+2; i++ {
		nested = map[string]any{"n": nested}
	}
	c := newLevelConfig("levels")
	err := NewLoader(nil).Load(c, map[string]any{"label": nested})
	assert.Error(t, err)
}

func TestLoader_LoadJSONAndYAML(t *testing.T) {
	l := NewLoader(nil)

	c := newLevelConfig("levels")
	require.NoError(t, l.LoadJSON(c, []byte(`{"min": 2, "max": 4, "label": "lo"}`)))
	lo, _ := c.Min.Get()
	hi, _ := c.Max.Get()
	assert.Equal(t, 2, lo)
	assert.Equal(t, 4, hi)
	require.NoError(t, c.Validate())

	c = newLevelConfig("levels")
	require.NoError(t, l.LoadYAML(c, []byte("min: 5\nmode: bind\n")))
	lo, _ = c.Min.Get()
	assert.Equal(t, 5, lo)

	assert.Error(t, l.LoadJSON(newLevelConfig("x"), []byte(`{"min":`)))
	assert.Error(t, l.LoadYAML(newLevelConfig("x"), []byte("min: [")))
}

func TestLoader_RefusedWhenSealed(t *testing.T) {
	c := newLevelConfig("levels")
	c.Min.Set(1)
	require.NoError(t, c.Validate())

	err := NewLoader(nil).Load(c, map[string]any{"min": 2})
	assert.ErrorIs(t, err, errors.ErrConfigSealed)
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "levels.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("min: 7\n"), 0600))
	txtPath := filepath.Join(dir, "levels.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("min: 7\n"), 0600))

	c := newLevelConfig("levels")
	require.NoError(t, NewLoader(nil).LoadFile(c, yamlPath))
	got, _ := c.Min.Get()
	assert.Equal(t, 7, got)

	assert.Error(t, NewLoader(nil).LoadFile(newLevelConfig("levels"), txtPath))
	assert.Error(t, NewLoader(nil).LoadFile(newLevelConfig("levels"), filepath.Join(dir, "missing.json")))
}

func TestLoader_ApplyEnv(t *testing.T) {
	c := newLevelConfig("level.filter")
	t.Setenv("SEMFILTER_LEVEL_FILTER_MIN", "9")
	t.Setenv("SEMFILTER_LEVEL_FILTER_MODE", "bind")

	require.NoError(t, NewLoader(nil).ApplyEnv(c))
	got, _ := c.Min.Get()
	assert.Equal(t, 9, got)
	assert.False(t, c.Label.IsSet())

	assert.Equal(t, "APP_PIPE_INPUT_PIPE_MODE", EnvKey("app", "pipe", "input-pipe.mode"))
}

func TestLoader_ApplyEnvCustomPrefix(t *testing.T) {
	c := newLevelConfig("levels")
	t.Setenv("HOST_LEVELS_MIN", "4")
	require.NoError(t, NewLoader(nil).WithEnvPrefix("HOST").ApplyEnv(c))
	got, _ := c.Min.Get()
	assert.Equal(t, 4, got)
}
