package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360/semfilter/errors"
)

// Loader populates configuration options from documents, files and the
// environment. Unknown keys are ignored and logged at debug level.
type Loader struct {
	logger    *slog.Logger
	envPrefix string
}

// NewLoader creates a loader. A nil logger uses slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		envPrefix: "SEMFILTER",
	}
}

// WithEnvPrefix replaces the environment variable prefix used by ApplyEnv
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load sets every option named in values. Keys are option names.
func (l *Loader) Load(c Configurable, values map[string]any) error {
	if err := checkValue(values, 0); err != nil {
		return errors.WrapInvalid(err, "Loader", "Load", "input check")
	}

	base := c.Base()
	for key, raw := range values {
		if _, ok := base.Option(key); !ok {
			l.logger.Debug("Ignoring unknown config key", "config", base.Name(), "key", key)
			continue
		}
		if err := base.Set(key, raw); err != nil {
			return err
		}
	}
	return nil
}

// LoadJSON decodes a JSON object and loads it
func (l *Loader) LoadJSON(c Configurable, data []byte) error {
	if len(data) > maxConfigSize {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %d bytes > %d", errors.ErrConfigTooLarge, len(data), maxConfigSize),
			"Loader", "LoadJSON", "size check")
	}

	var values map[string]any
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&values); err != nil {
		return errors.WrapInvalid(err, "Loader", "LoadJSON", "JSON parsing")
	}
	return l.Load(c, values)
}

// LoadYAML decodes a YAML mapping and loads it
func (l *Loader) LoadYAML(c Configurable, data []byte) error {
	if len(data) > maxConfigSize {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %d bytes > %d", errors.ErrConfigTooLarge, len(data), maxConfigSize),
			"Loader", "LoadYAML", "size check")
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return errors.WrapInvalid(err, "Loader", "LoadYAML", "YAML parsing")
	}
	return l.Load(c, values)
}

// LoadFile loads a .json, .yaml or .yml file
func (l *Loader) LoadFile(c Configurable, path string) error {
	data, err := safeReadFile(path)
	if err != nil {
		return errors.WrapInvalid(err, "Loader", "LoadFile", "read config file")
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return l.LoadJSON(c, data)
	}
	return l.LoadYAML(c, data)
}

// ApplyEnv sets options from <PREFIX>_<CONFIG>_<OPTION> environment
// variables, upper-cased with dots and dashes turned into underscores.
func (l *Loader) ApplyEnv(c Configurable) error {
	base := c.Base()
	for _, opt := range base.Options() {
		key := EnvKey(l.envPrefix, base.Name(), opt.Name())
		val, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		if err := validateEnvVar(key, val); err != nil {
			return errors.WrapInvalid(err, "Loader", "ApplyEnv", "environment check")
		}
		if err := base.Set(opt.Name(), val); err != nil {
			return err
		}
		l.logger.Debug("Applied environment override", "config", base.Name(), "option", opt.Name(), "env", key)
	}
	return nil
}

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// EnvKey builds the environment variable name for an option
func EnvKey(prefix, configName, optionName string) string {
	return strings.ToUpper(envReplacer.Replace(prefix + "_" + configName + "_" + optionName))
}
