package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fieldHolder is a minimal FieldReader with two known fields.
type fieldHolder struct {
	trust    float64
	metadata map[string]any
}

func (f *fieldHolder) GetField(name string) (any, bool) {
	switch name {
	case "trust":
		return f.trust, true
	case "metadata":
		return f.metadata, true
	default:
		return nil, false
	}
}

func TestResolve_TopLevelField(t *testing.T) {
	root := &fieldHolder{trust: 0.6}

	v, err := Resolve(root, "trust")

	require.NoError(t, err)
	assert.Equal(t, 0.6, v)
}

func TestResolve_NestedMapEntry(t *testing.T) {
	root := &fieldHolder{
		metadata: map[string]any{"trend": "rising"},
	}

	v, err := Resolve(root, "metadata.trend")

	require.NoError(t, err)
	assert.Equal(t, "rising", v)
}

func TestResolve_DeepNesting(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": 42},
		},
	}

	v, err := Resolve(root, "a.b.c")

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestResolve_FieldReaderTakesPrecedence(t *testing.T) {
	// A FieldReader that knows the segment wins even when the
	// value could also be treated some other way.
	root := &fieldHolder{trust: 0.9}

	v, err := Resolve(root, "trust")

	require.NoError(t, err)
	assert.Equal(t, 0.9, v)
}

func TestResolve_UnknownFieldFallsThroughToError(t *testing.T) {
	root := &fieldHolder{}

	_, err := Resolve(root, "arousal")

	require.Error(t, err)

	var addrErr *AddressError
	require.ErrorAs(t, err, &addrErr)
	assert.Equal(t, "arousal", addrErr.Segment)
}

func TestResolve_MissingMapKey(t *testing.T) {
	root := &fieldHolder{
		metadata: map[string]any{"trend": "stable"},
	}

	_, err := Resolve(root, "metadata.last_event")

	require.Error(t, err)

	var addrErr *AddressError
	require.ErrorAs(t, err, &addrErr)
	assert.Equal(t, "last_event", addrErr.Segment)
}

func TestResolve_ScalarMidPath(t *testing.T) {
	root := &fieldHolder{trust: 0.5}

	_, err := Resolve(root, "trust.deeper")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `cannot access "deeper"`)
}

func TestResolve_StopsAtFirstUnresolvable(t *testing.T) {
	root := map[string]any{"a": map[string]any{}}

	_, err := Resolve(root, "a.b.c")

	var addrErr *AddressError
	require.ErrorAs(t, err, &addrErr)
	assert.Equal(t, "b", addrErr.Segment,
		"the walk should stop at the first missing segment")
}

func TestAddressError_Error(t *testing.T) {
	err := &AddressError{
		Segment:   "trend",
		Container: map[string]any{},
	}

	assert.Equal(t,
		`cannot access "trend" in map[string]interface {}`,
		err.Error())
}
