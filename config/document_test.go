package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_YAML(t *testing.T) {
	data := []byte(`
version: "1.0.0"
nats:
  urls: ["nats://nats:4222"]
  bucket: SEMFILTER_CONFIG
components:
  errors-only:
    service: saturnin.proto.filter
    enabled: true
    config:
      include_expr: data.level >= 4
`)
	doc, err := ParseDocument(data, true)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Version)
	assert.Equal(t, []string{"nats://nats:4222"}, doc.NATS.URLs)
	assert.Equal(t, "SEMFILTER_CONFIG", doc.NATS.Bucket)
	require.Contains(t, doc.Components, "errors-only")
	assert.Equal(t, "data.level >= 4", doc.Components["errors-only"].Config["include_expr"])
}

func TestParseDocument_Defaults(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"components": {}}`), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"nats://localhost:4222"}, doc.NATS.URLs)
	assert.Empty(t, doc.Components)
}

func TestParseDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"components": `},
		{"missing service", `{"components": {"a": {"enabled": true}}}`},
		{"control character", `{"version": "1\u0007"}`},
		{"bucket without urls", `{"nats": {"urls": [], "bucket": "B"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.data), false)
			assert.Error(t, err)
		})
	}
}

func TestLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semfilter.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "2"}`), 0600))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "2", doc.Version)

	_, err = LoadDocument(filepath.Join(t.TempDir(), "semfilter.toml"))
	assert.Error(t, err)
}
