package componentregistry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfilter/component"
	"github.com/c360/semfilter/errors"
	"github.com/c360/semfilter/filter"
	"github.com/c360/semfilter/linefilter"
	"github.com/c360/semfilter/parser"
)

func TestRegister(t *testing.T) {
	registry := component.NewRegistry()
	require.NoError(t, Register(registry))

	resolved := map[string]bool{}
	for _, info := range registry.ListAvailable() {
		resolved[info.Name] = info.Resolved
	}
	assert.Equal(t, map[string]bool{
		filter.Name:      true,
		linefilter.Name:  true,
		parser.TraceName: false,
		parser.LogName:   false,
	}, resolved)

	assert.Equal(t, []string{filter.FactoryRef, linefilter.FactoryRef}, registry.ListFactories())
}

func TestRegister_Twice(t *testing.T) {
	registry := component.NewRegistry()
	require.NoError(t, Register(registry))

	err := Register(registry)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAlreadyRegistered)
	assert.True(t, errors.IsInvalid(err))
}

func TestRegister_NilRegistry(t *testing.T) {
	err := Register(nil)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}
