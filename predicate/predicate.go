// Package predicate turns operator-supplied source text into unary record
// predicates. Three compilers are provided: embedded expressions (expr-lang),
// JavaScript callables (goja) and a catalog of named Go functions.
package predicate

import (
	"fmt"
	"sort"
	"sync"
)

// Predicate decides whether a record passes
type Predicate func(record any) (bool, error)

// Compiler compiles source text into a Predicate. The name identifies the
// source in diagnostics, typically the option name.
type Compiler interface {
	Compile(name, source string) (Predicate, error)
}

// CompilerFunc adapts a function to the Compiler interface
type CompilerFunc func(name, source string) (Predicate, error)

// Compile implements Compiler
func (f CompilerFunc) Compile(name, source string) (Predicate, error) {
	return f(name, source)
}

// CompileError carries the diagnostic of a failed compilation
type CompileError struct {
	Name   string
	Source string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.Name, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Catalog is a registry of statically compiled predicates selected by key.
// The source text given to Compile is the key.
type Catalog struct {
	mu    sync.RWMutex
	preds map[string]Predicate
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{preds: make(map[string]Predicate)}
}

// Register adds a named predicate. Registering a key twice is an error.
func (c *Catalog) Register(key string, p Predicate) error {
	if p == nil {
		return fmt.Errorf("predicate %q is nil", key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.preds[key]; exists {
		return fmt.Errorf("predicate %q already registered", key)
	}
	c.preds[key] = p
	return nil
}

// Keys returns the registered keys in sorted order
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.preds))
	for k := range c.preds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Compile implements Compiler by selecting the predicate registered under source
func (c *Catalog) Compile(name, source string) (Predicate, error) {
	c.mu.RLock()
	p, ok := c.preds[source]
	c.mu.RUnlock()
	if !ok {
		return nil, &CompileError{Name: name, Source: source, Err: fmt.Errorf("no predicate named %q", source)}
	}
	return p, nil
}
