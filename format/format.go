// Package format implements the MIME-like (type_tag, parameters) pair used to
// describe data pipe formats, e.g. "application/x.fb.proto;type=my.Record".
package format

import (
	"fmt"
	"strings"

	"github.com/c360/semfilter/errors"
)

// Well-known format type tags and parameter names
const (
	// TypeRecord is the structured-record family: schema-tagged binary records
	TypeRecord = "application/x.fb.proto"
	// TypeText is the plain-text family
	TypeText = "text/plain"

	ParamType    = "type"
	ParamCharset = "charset"
	ParamErrors  = "errors"
)

var mainTypes = map[string]bool{
	"text":        true,
	"image":       true,
	"audio":       true,
	"video":       true,
	"application": true,
	"multipart":   true,
	"message":     true,
}

// Param is one key=value format parameter
type Param struct {
	Key   string
	Value string
}

// Format is a type tag plus an ordered set of parameters. Parameter keys are
// case-sensitive and unique; insertion order is kept for rendering only.
// The zero value is an empty format.
type Format struct {
	Type   string
	params []Param
}

// New creates a format from a type tag and key/value parameter pairs.
// A later duplicate key replaces the earlier value.
func New(typeTag string, params ...Param) Format {
	f := Format{Type: typeTag}
	for _, p := range params {
		f = f.With(p.Key, p.Value)
	}
	return f
}

// Parse parses "type/subtype[;key=value;...]". The type tag is lowercased and
// surrounding whitespace is trimmed from every part.
func Parse(spec string) (Format, error) {
	parts := strings.Split(spec, ";")
	typeTag := strings.ToLower(strings.TrimSpace(parts[0]))

	main, sub, ok := strings.Cut(typeTag, "/")
	if !ok || main == "" || sub == "" || strings.Contains(sub, "/") {
		return Format{}, errors.WrapInvalid(
			fmt.Errorf("format specification %q must be 'type/subtype[;param=value;...]'", spec),
			"Format", "Parse", "type tag check")
	}
	if !mainTypes[main] {
		return Format{}, errors.WrapInvalid(
			fmt.Errorf("format type %q not supported", main),
			"Format", "Parse", "main type check")
	}

	f := Format{Type: typeTag}
	for _, raw := range parts[1:] {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return Format{}, errors.WrapInvalid(
				fmt.Errorf("wrong specification of format parameter %q", raw),
				"Format", "Parse", "parameter check")
		}
		if _, exists := f.Param(key); exists {
			return Format{}, errors.WrapInvalid(
				fmt.Errorf("duplicate format parameter %q", key),
				"Format", "Parse", "parameter check")
		}
		f.params = append(f.params, Param{Key: key, Value: strings.TrimSpace(value)})
	}
	return f, nil
}

// MustParse is like Parse but panics on error. Intended for package-level constants.
func MustParse(spec string) Format {
	f, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return f
}

// IsZero reports whether the format has no type tag
func (f Format) IsZero() bool {
	return f.Type == "" && len(f.params) == 0
}

// Param returns the value of a parameter
func (f Format) Param(key string) (string, bool) {
	for _, p := range f.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Params returns a copy of the parameters in insertion order
func (f Format) Params() []Param {
	out := make([]Param, len(f.params))
	copy(out, f.params)
	return out
}

// Keys returns parameter keys in insertion order
func (f Format) Keys() []string {
	keys := make([]string, len(f.params))
	for i, p := range f.params {
		keys[i] = p.Key
	}
	return keys
}

// Len returns the number of parameters
func (f Format) Len() int {
	return len(f.params)
}

// With returns a copy of f with the parameter set, replacing an existing key in place
func (f Format) With(key, value string) Format {
	out := Format{Type: f.Type, params: f.Params()}
	for i := range out.params {
		if out.params[i].Key == key {
			out.params[i].Value = value
			return out
		}
	}
	out.params = append(out.params, Param{Key: key, Value: value})
	return out
}

// Equal compares type tags and parameter sets; parameter order is ignored
func (f Format) Equal(other Format) bool {
	if f.Type != other.Type || len(f.params) != len(other.params) {
		return false
	}
	for _, p := range f.params {
		v, ok := other.Param(p.Key)
		if !ok || v != p.Value {
			return false
		}
	}
	return true
}

// String renders the format as "type;key=value;..." in insertion order
func (f Format) String() string {
	var b strings.Builder
	b.WriteString(f.Type)
	for _, p := range f.params {
		b.WriteByte(';')
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
