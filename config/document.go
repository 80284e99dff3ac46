package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/types"
)

// Document is the host configuration file: where to find remote option
// values and which component instances to create
type Document struct {
	Version    string                 `json:"version" yaml:"version"`
	NATS       NATSConfig             `json:"nats" yaml:"nats"`
	Components types.ComponentConfigs `json:"components" yaml:"components"`
}

// NATSConfig locates the KV bucket holding option values. An empty bucket
// disables the KV source.
type NATSConfig struct {
	URLs   []string `json:"urls" yaml:"urls"`
	Bucket string   `json:"bucket,omitempty" yaml:"bucket,omitempty"`
}

// DefaultDocument returns the document used for missing fields
func DefaultDocument() *Document {
	return &Document{
		NATS: NATSConfig{
			URLs: []string{"nats://localhost:4222"},
		},
		Components: types.ComponentConfigs{},
	}
}

// LoadDocument reads a JSON or YAML host configuration file
func LoadDocument(path string) (*Document, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Document", "LoadDocument", "read config file")
	}
	return ParseDocument(data, !strings.EqualFold(filepath.Ext(path), ".json"))
}

// ParseDocument decodes a host configuration; isYAML selects the syntax
func ParseDocument(data []byte, isYAML bool) (*Document, error) {
	unmarshal := json.Unmarshal
	if isYAML {
		unmarshal = yaml.Unmarshal
	}

	var raw map[string]any
	if err := unmarshal(data, &raw); err != nil {
		return nil, errors.WrapInvalid(err, "Document", "ParseDocument", "decode document")
	}
	if err := checkValue(raw, 0); err != nil {
		return nil, errors.WrapInvalid(err, "Document", "ParseDocument", "input check")
	}

	doc := DefaultDocument()
	if err := unmarshal(data, doc); err != nil {
		return nil, errors.WrapInvalid(err, "Document", "ParseDocument", "decode document")
	}
	if err := doc.Components.Validate(); err != nil {
		return nil, err
	}
	if len(doc.NATS.URLs) == 0 && doc.NATS.Bucket != "" {
		return nil, errors.WrapInvalid(fmt.Errorf("bucket %s configured without NATS urls", doc.NATS.Bucket),
			"Document", "ParseDocument", "nats check")
	}
	return doc, nil
}
