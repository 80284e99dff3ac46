package option

import (
	"fmt"

	"github.com/c360/semfilter/format"
)

// Format is an option holding a structured data format
type Format struct {
	*Value[format.Format]
}

// NewFormat creates a format option. Decode accepts format strings,
// format.Format values and anything implementing fmt.Stringer.
func NewFormat(name, description string, required bool) *Format {
	return &Format{Value: NewValue(name, description, "MIME", required, decodeFormat)}
}

// WithDefault sets the default format and returns the option
func (f *Format) WithDefault(def format.Format) *Format {
	f.SetDefault(def)
	return f
}

// Param returns a parameter of the effective format
func (f *Format) Param(key string) (string, bool) {
	v, err := f.Get()
	if err != nil {
		return "", false
	}
	return v.Param(key)
}

func decodeFormat(raw any) (format.Format, error) {
	switch x := raw.(type) {
	case format.Format:
		return x, nil
	case *format.Format:
		if x == nil {
			return format.Format{}, fmt.Errorf("nil format")
		}
		return *x, nil
	case string:
		return format.Parse(x)
	case fmt.Stringer:
		return format.Parse(x.String())
	default:
		return format.Format{}, fmt.Errorf("expected format specification string")
	}
}

