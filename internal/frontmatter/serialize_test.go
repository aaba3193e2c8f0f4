package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeYAML_SortsKeysRecursively(t *testing.T) {
	out, err := SerializeYAML(FrontMatter{
		"sidebar_title": "update",
		"layout":        "docs",
		"nested":        map[string]any{"z": 1, "a": "x"},
	})
	require.NoError(t, err)

	assert.Equal(t, "layout: docs\nnested:\n  a: x\n  z: 1\nsidebar_title: update\n", string(out))
}

func TestSerializeYAML_Empty(t *testing.T) {
	out, err := SerializeYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSerializeYAML_RoundTripsParsedHeader(t *testing.T) {
	fm, _, err := Parse([]byte("---\nb: 2\na: one\n---\n"))
	require.NoError(t, err)

	out, err := SerializeYAML(fm)
	require.NoError(t, err)
	assert.Equal(t, "a: one\nb: 2\n", string(out))
}

func TestSerializeYAML_DecodedValueTypes(t *testing.T) {
	fm, _, err := Parse([]byte("---\nbig: 18446744073709551615\nversions:\n  2: beta\n  1: ga\n---\n"))
	require.NoError(t, err)
	require.IsType(t, uint64(0), fm["big"])
	require.IsType(t, map[any]any{}, fm["versions"])

	out, err := SerializeYAML(fm)
	require.NoError(t, err)
	assert.Equal(t, "big: 18446744073709551615\nversions:\n  1: ga\n  2: beta\n", string(out))
}

func TestSerializeYAML_RejectsUnsupportedTypes(t *testing.T) {
	_, err := SerializeYAML(FrontMatter{"ch": make(chan int)})
	require.Error(t, err)
}
