package main

import (
	"testing"

	"github.com/specialistvlad/aero/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclaredPets(t *testing.T) {
	reg := registry.Default()

	for _, name := range []string{"pet", "cat", "hello_parrot"} {
		toucher, ok := registry.Lookup[Touchable](reg, name)
		require.True(t, ok, "%q should be registered and touchable", name)
		assert.NotEmpty(t, toucher.Touch())
	}

	_, ok := registry.Lookup[Sayable](reg, "pet")
	assert.False(t, ok, "a plain pet does not talk")

	parrot, ok := registry.Lookup[Sayable](reg, "hello_parrot")
	require.True(t, ok)
	assert.Equal(t, "Hello", parrot.Say())
}
