package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360/semfilter/errors"
)

const (
	// Security limits for configuration input
	maxConfigSize = 10 << 20 // 10MB max config document size
	maxDepth      = 32       // Maximum nesting depth of a config document
	maxStringLen  = 64 << 10 // Maximum length of a single string value
	maxEnvVarLen  = 10000    // Maximum environment variable value length
	maxPathLen    = 4096     // Maximum file path length
)

// allowedExtensions are the document formats LoadDocument understands
var allowedExtensions = map[string]bool{".json": true, ".yaml": true, ".yml": true}

// validateConfigPath rejects overlong paths, unknown extensions and
// relative paths escaping the working directory
func validateConfigPath(path string) error {
	switch {
	case path == "":
		return stderrors.New("empty config path")
	case len(path) > maxPathLen:
		return fmt.Errorf("path too long: %d > %d", len(path), maxPathLen)
	case !allowedExtensions[strings.ToLower(filepath.Ext(path))]:
		return fmt.Errorf("only JSON or YAML config files allowed: %s", path)
	}

	if filepath.IsAbs(path) {
		return nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	rel, err := filepath.Rel(cwd, filepath.Join(cwd, path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path traversal not allowed: %s resolves outside working directory", path)
	}
	return nil
}

// safeReadFile reads a regular config file no larger than maxConfigSize
func safeReadFile(path string) ([]byte, error) {
	if err := validateConfigPath(path); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	info, err := os.Stat(path)
	switch {
	case err != nil:
		return nil, fmt.Errorf("stat config file: %w", err)
	case !info.Mode().IsRegular():
		return nil, fmt.Errorf("not a regular file: %s", path)
	case info.Size() > maxConfigSize:
		return nil, fmt.Errorf("%w: %d bytes > %d", errors.ErrConfigTooLarge, info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return data, nil
}

// validateEnvVar does basic environment variable validation
func validateEnvVar(key, value string) error {
	if value == "" {
		return nil
	}
	if len(value) > maxEnvVarLen {
		return fmt.Errorf("environment variable %s too long: %d > %d", key, len(value), maxEnvVarLen)
	}
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("null byte in environment variable %s", key)
	}
	return nil
}

// checkValue walks a decoded config document and rejects oversized,
// overly nested or control-character laden input
func checkValue(value any, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("config depth %d exceeds maximum %d", depth, maxDepth)
	}

	switch val := value.(type) {
	case string:
		if len(val) > maxStringLen {
			return fmt.Errorf("string length %d exceeds maximum %d", len(val), maxStringLen)
		}
		return checkStringContent(val)

	case []any:
		for i, elem := range val {
			if err := checkValue(elem, depth+1); err != nil {
				return fmt.Errorf("array element %d: %w", i, err)
			}
		}

	case map[string]any:
		for key, elem := range val {
			if err := checkStringContent(key); err != nil {
				return fmt.Errorf("key %q: %w", key, err)
			}
			if err := checkValue(elem, depth+1); err != nil {
				return fmt.Errorf("field '%s': %w", key, err)
			}
		}
	}

	return nil
}

// checkStringContent checks for null bytes and control characters other
// than newline, carriage return and tab
func checkStringContent(s string) error {
	if strings.Contains(s, "\x00") {
		return stderrors.New("string contains null byte")
	}
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			return fmt.Errorf("string contains control character: 0x%02x", r)
		}
	}
	return nil
}
