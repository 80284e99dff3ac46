package datafilter

import (
	"github.com/c360/semfilter/config"
	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/format"
	"github.com/c360/semfilter/option"
)

// RequireFormatType checks that every format option with a value has the given type tag
func RequireFormatType(typeTag string, opts ...*option.Format) config.Rule {
	return func() error {
		for _, opt := range opts {
			f, ok := effective(opt)
			if ok && f.Type != typeTag {
				return errors.Errorf(errors.KindUnsupportedFormatType, []string{opt.Name()},
					"only '%s' format allowed for '%s' option", typeTag, opt.Name())
			}
		}
		return nil
	}
}

// RequireParam checks that every format option with a value carries a
// non-empty parameter
func RequireParam(key string, opts ...*option.Format) config.Rule {
	return func() error {
		for _, opt := range opts {
			f, ok := effective(opt)
			if !ok {
				continue
			}
			if v, _ := f.Param(key); v == "" {
				return errors.Errorf(errors.KindMissingFormatParameter, []string{opt.Name()},
					"the '%s' parameter not found in '%s' option", key, opt.Name())
			}
		}
		return nil
	}
}

// RequireSameParam checks that two format options agree on a parameter when
// both have a value
func RequireSameParam(key string, a, b *option.Format) config.Rule {
	return func() error {
		fa, okA := effective(a)
		fb, okB := effective(b)
		if !okA || !okB {
			return nil
		}
		va, _ := fa.Param(key)
		vb, _ := fb.Param(key)
		if va != vb {
			return errors.Errorf(errors.KindMismatchedFormatParameter, []string{a.Name(), b.Name()},
				"the '%s' parameter value must be the same for '%s' and '%s' options (%q != %q)",
				key, a.Name(), b.Name(), va, vb)
		}
		return nil
	}
}

// RequireParamValue checks that a format option with a value carries a
// parameter with exactly the wanted value
func RequireParamValue(key, want string, opt *option.Format) config.Rule {
	return func() error {
		f, ok := effective(opt)
		if !ok {
			return nil
		}
		v, present := f.Param(key)
		if !present || v == "" {
			return errors.Errorf(errors.KindMissingFormatParameter, []string{opt.Name()},
				"the '%s' parameter not found in '%s' option", key, opt.Name())
		}
		if v != want {
			return errors.Errorf(errors.KindMismatchedFormatParameter, []string{opt.Name()},
				"the '%s' parameter of '%s' option must be '%s', not '%s'", key, opt.Name(), want, v)
		}
		return nil
	}
}

// AllowOnlyParams checks that a format option with a value uses no
// parameters outside the allowed set
func AllowOnlyParams(opt *option.Format, allowed ...string) config.Rule {
	set := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		set[k] = true
	}
	return func() error {
		f, ok := effective(opt)
		if !ok {
			return nil
		}
		for _, k := range f.Keys() {
			if !set[k] {
				return errors.Errorf(errors.KindUnsupportedFormatParameter, []string{opt.Name()},
					"unknown parameter '%s' in '%s' option", k, opt.Name())
			}
		}
		return nil
	}
}

// AtLeastOne checks that at least one of the options has a value
func AtLeastOne(opts ...option.Option) config.Rule {
	return func() error {
		if countValues(opts) == 0 {
			return errors.Errorf(errors.KindNoPredicateDefined, names(opts),
				"at least one filter specification option must have a value")
		}
		return nil
	}
}

// MutuallyExclusive checks that at most one of the options has a value
func MutuallyExclusive(opts ...option.Option) config.Rule {
	return func() error {
		var set []option.Option
		for _, opt := range opts {
			if opt.HasValue() {
				set = append(set, opt)
			}
		}
		if len(set) > 1 {
			return exclusive(set)
		}
		return nil
	}
}

// ExactlyOne combines AtLeastOne and MutuallyExclusive
func ExactlyOne(opts ...option.Option) config.Rule {
	atLeast := AtLeastOne(opts...)
	atMost := MutuallyExclusive(opts...)
	return func() error {
		if err := atLeast(); err != nil {
			return err
		}
		return atMost()
	}
}

// MustCompile compiles every code option with a value, in order
func MustCompile(codes ...*option.Code) config.Rule {
	return func() error {
		for _, c := range codes {
			if !c.HasValue() {
				continue
			}
			if _, err := c.Compiled(); err != nil {
				return err
			}
		}
		return nil
	}
}

func effective(opt *option.Format) (format.Format, bool) {
	if !opt.HasValue() {
		return format.Format{}, false
	}
	f, err := opt.Get()
	return f, err == nil
}

func countValues(opts []option.Option) int {
	n := 0
	for _, opt := range opts {
		if opt.HasValue() {
			n++
		}
	}
	return n
}

func names(opts []option.Option) []string {
	out := make([]string, len(opts))
	for i, opt := range opts {
		out[i] = opt.Name()
	}
	return out
}

func exclusive(set []option.Option) error {
	n := names(set)
	msg := "options "
	for i, name := range n {
		switch {
		case i == 0:
		case i == len(n)-1:
			msg += " and "
		default:
			msg += ", "
		}
		msg += "'" + name + "'"
	}
	return errors.Errorf(errors.KindMutuallyExclusiveOptions, n, "%s are mutually exclusive", msg)
}
