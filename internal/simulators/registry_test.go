package simulators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryBuiltins(t *testing.T) {
	registry := DefaultRegistry()
	assert.Equal(t, []string{"agriculture", "energy", "weather"}, registry.List())

	for _, name := range registry.List() {
		ctor, err := registry.Resolve(name)
		require.NoError(t, err)
		require.NotNil(t, ctor)
		assert.NotEmpty(t, registry.Describe(name))
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	registry := DefaultRegistry()

	_, err := registry.Resolve("maritime")
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "maritime", notFound.Name)
	assert.Equal(t, []string{"agriculture", "energy", "weather"}, notFound.Available)
	assert.Contains(t, err.Error(), "maritime")
	assert.Contains(t, err.Error(), "weather")
}

func TestRegistryLastWriteWins(t *testing.T) {
	registry := NewRegistry()

	first := func(params map[string]any) Profile { return NewWeatherProfile(params) }
	second := func(params map[string]any) Profile { return NewEnergyProfile(params) }

	registry.Register("custom", "first", first)
	registry.Register("custom", "second", second)

	assert.Equal(t, []string{"custom"}, registry.List())
	assert.Equal(t, "second", registry.Describe("custom"))

	ctor, err := registry.Resolve("custom")
	require.NoError(t, err)
	_, ok := ctor(nil).(*EnergyProfile)
	assert.True(t, ok)
}
