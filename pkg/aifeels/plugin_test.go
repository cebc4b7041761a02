package aifeels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/plugin"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/subject"
)

func TestPlugin_InitRegistersReferenceImplementation(t *testing.T) {
	registry := subject.NewRegistry()
	p := NewPlugin()

	assert.Equal(t, "aifeels-reference", p.Name())
	assert.Equal(t, Version, p.Version())

	err := p.Init(&plugin.Context{Subjects: registry})
	require.NoError(t, err)

	reg, err := registry.Lookup(Info.Name)
	require.NoError(t, err)
	assert.Equal(t, Info, reg.Info)
}

func TestPlugin_InitWithoutRegistry(t *testing.T) {
	err := NewPlugin().Init(&plugin.Context{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no subject registry")
}
